// Package bulk fans one operation out over many entries. Every
// selected entry is attempted; per-entry failures are collected, not
// propagated, so one bad entry never aborts the rest of the run.
package bulk

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dombulk "github.com/kailas-cloud/kbadmin/internal/domain/bulk"
	"github.com/kailas-cloud/kbadmin/internal/domain/chunk"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
	"github.com/kailas-cloud/kbadmin/internal/logger"
	"github.com/kailas-cloud/kbadmin/internal/metrics"
)

// Operation names a bulk action for logging and metrics.
type Operation string

const (
	OpArchive      Operation = "archive"
	OpDelete       Operation = "delete"
	OpSync         Operation = "sync"
	OpVectorDelete Operation = "vector_delete"
)

const defaultMaxConcurrency = 8

// Service runs bulk operations with bounded concurrency.
type Service struct {
	archiver       Archiver
	deleter        Deleter
	syncer         Syncer
	vectors        VectorDeleter
	maxConcurrency int
}

// New creates a bulk service.
func New(archiver Archiver, deleter Deleter, syncer Syncer, vectors VectorDeleter) *Service {
	return &Service{
		archiver:       archiver,
		deleter:        deleter,
		syncer:         syncer,
		vectors:        vectors,
		maxConcurrency: defaultMaxConcurrency,
	}
}

// WithMaxConcurrency caps how many entries are processed at once.
func (s *Service) WithMaxConcurrency(n int) *Service {
	if n > 0 {
		s.maxConcurrency = n
	}
	return s
}

// Archive archives every given entry.
func (s *Service) Archive(ctx context.Context, ids []string, reason string) ([]dombulk.Result, dombulk.Summary) {
	return s.run(ctx, OpArchive, ids, func(ctx context.Context, id string) error {
		return s.archiver.Archive(ctx, id, reason)
	})
}

// ArchiveWithCascade archives the given entries and removes the
// vectors of the ones that were synced. Vector deletion failures are
// tallied separately and do not fail the archive itself; the entry is
// already out of the active set when they happen.
func (s *Service) ArchiveWithCascade(ctx context.Context, ents []*entry.Entry, reason string) ([]dombulk.Result, dombulk.Summary) {
	ids := make([]string, len(ents))
	byID := make(map[string]*entry.Entry, len(ents))
	for i, e := range ents {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	var deleted, failed atomicCounter
	results, summary := s.run(ctx, OpArchive, ids, func(ctx context.Context, id string) error {
		e := byID[id]
		if err := s.archiver.Archive(ctx, id, reason); err != nil {
			return err
		}
		if e.VectorStatus != entry.VectorSynced {
			return nil
		}
		if _, err := s.vectors.DeleteVector(ctx, id); err != nil {
			failed.inc()
			logger.FromContext(ctx).Warn("cascade vector delete failed",
				zap.String("entry_id", id),
				zap.Error(err))
			return nil
		}
		deleted.inc()
		return nil
	})

	summary.VectorsDeleted = deleted.get()
	summary.VectorsFailed = failed.get()
	return results, summary
}

// Delete permanently deletes every given archived entry.
func (s *Service) Delete(ctx context.Context, ids []string) ([]dombulk.Result, dombulk.Summary) {
	return s.run(ctx, OpDelete, ids, func(ctx context.Context, id string) error {
		return s.deleter.Delete(ctx, id)
	})
}

// Sync pushes every given entry into the vector index. Duplicate IDs
// collapse before dispatch: at most one sync per entry is ever in
// flight within the run.
func (s *Service) Sync(ctx context.Context, ids []string) ([]dombulk.Result, dombulk.Summary) {
	return s.run(ctx, OpSync, uniqueIDs(ids), func(ctx context.Context, id string) error {
		return s.syncer.Sync(ctx, id)
	})
}

// DeleteVectors removes vectors for the given IDs. Chunk IDs resolve
// to their parent and duplicates collapse, so selecting several
// chunks of one entry issues a single deletion.
func (s *Service) DeleteVectors(ctx context.Context, ids []string) ([]dombulk.Result, dombulk.Summary) {
	parents := chunk.Parents(ids)
	return s.run(ctx, OpVectorDelete, parents, func(ctx context.Context, id string) error {
		_, err := s.vectors.DeleteVector(ctx, id)
		return err
	})
}

// run executes fn for every ID with bounded concurrency and collects
// one result per ID in input order. fn errors are recorded in the
// results, never returned, so every ID is always attempted.
func (s *Service) run(ctx context.Context, op Operation, ids []string, fn func(ctx context.Context, id string) error) ([]dombulk.Result, dombulk.Summary) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With(
		zap.String("bulk_run_id", runID),
		zap.String("operation", string(op)),
		zap.Int("count", len(ids)))
	log.Info("bulk run started")

	results := make([]dombulk.Result, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := fn(gctx, id); err != nil {
				results[i] = dombulk.NewError(id, err)
				metrics.BulkItemsTotal.WithLabelValues(string(op), "failed").Inc()
				return nil
			}
			results[i] = dombulk.NewOK(id)
			metrics.BulkItemsTotal.WithLabelValues(string(op), "ok").Inc()
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	summary := dombulk.Summarize(results)
	log.Info("bulk run finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return results, summary
}

// uniqueIDs collapses duplicate IDs, preserving first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// atomicCounter tallies cascade outcomes across workers.
type atomicCounter struct{ n atomic.Int64 }

func (c *atomicCounter) inc()     { c.n.Add(1) }
func (c *atomicCounter) get() int { return int(c.n.Load()) }
