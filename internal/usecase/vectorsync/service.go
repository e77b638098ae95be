// Package vectorsync keeps entry content and the vector index in
// step. Syncing chunks and embeds on the backend side; this service
// owns when a sync may run and how its outcome lands on the entry.
package vectorsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
	"github.com/kailas-cloud/kbadmin/internal/logger"
	"github.com/kailas-cloud/kbadmin/internal/metrics"
)

// Service runs vector sync operations with per-entry in-flight
// guarding: a second sync for the same entry is rejected while the
// first is still running.
type Service struct {
	syncer Syncer
	now    func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates a vector sync service.
func New(syncer Syncer) *Service {
	return &Service{
		syncer:   syncer,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Sync pushes the entry into the vector index and records the outcome
// on the entry. Archived entries are refused; a sync already running
// for the same entry is refused with ErrSyncInFlight. A failed sync
// is recorded on the entry and returned; retry is manual.
func (s *Service) Sync(ctx context.Context, e *entry.Entry) (int, error) {
	if e.ID == "" {
		return 0, fmt.Errorf("entry has no id: %w", domain.ErrValidation)
	}
	if e.IsArchived() {
		return 0, fmt.Errorf("entry %s is archived: %w", e.ID, domain.ErrPrecondition)
	}

	if !s.acquire(e.ID) {
		return 0, fmt.Errorf("sync already running for entry %s: %w",
			e.ID, domain.ErrSyncInFlight)
	}
	defer s.release(e.ID)

	chunks, err := s.syncer.SyncEntry(ctx, e.ID)
	if err != nil {
		e.RecordSyncFailure(s.now(), err.Error())
		metrics.SyncOperationsTotal.WithLabelValues("failed").Inc()
		logger.FromContext(ctx).Warn("vector sync failed",
			zap.String("entry_id", e.ID),
			zap.Error(err))
		return 0, fmt.Errorf("sync entry %s: %w", e.ID, err)
	}

	e.RecordSynced(s.now())
	metrics.SyncOperationsTotal.WithLabelValues("synced").Inc()
	logger.FromContext(ctx).Info("vector sync complete",
		zap.String("entry_id", e.ID),
		zap.Int("chunks", chunks))
	return chunks, nil
}

// Retry re-runs a failed sync. It is the same operation as Sync; the
// separate name keeps call sites honest about intent.
func (s *Service) Retry(ctx context.Context, e *entry.Entry) (int, error) {
	return s.Sync(ctx, e)
}

// CascadeDelete removes the entry's vectors from the index and
// records the deletion, returning the entry's sync state to pending.
func (s *Service) CascadeDelete(ctx context.Context, e *entry.Entry, reason string) (int, error) {
	if e.ID == "" {
		return 0, fmt.Errorf("entry has no id: %w", domain.ErrValidation)
	}

	chunks, err := s.syncer.DeleteVector(ctx, e.ID)
	if err != nil {
		metrics.SyncOperationsTotal.WithLabelValues("delete_failed").Inc()
		return 0, fmt.Errorf("delete vectors for entry %s: %w", e.ID, err)
	}

	e.RecordVectorDeleted(s.now(), reason)
	metrics.SyncOperationsTotal.WithLabelValues("deleted").Inc()
	logger.FromContext(ctx).Info("vectors deleted",
		zap.String("entry_id", e.ID),
		zap.Int("chunks", chunks),
		zap.String("reason", reason))
	return chunks, nil
}

// MarkStale flags the entry as needing a resync without touching the
// index.
func (s *Service) MarkStale(e *entry.Entry) {
	e.MarkStale()
}

func (s *Service) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
