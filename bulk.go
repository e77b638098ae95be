package kbadmin

import (
	"context"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// BulkService fans one operation out over many entries with bounded
// concurrency. Every selected entry is attempted; failures are
// reported per entry in the results and never abort the run.
type BulkService struct {
	c *Client
}

// Archive archives the given entries. Entries whose vectors are
// synced have them removed from the index as well; cascade failures
// are tallied in the summary without failing the archive.
func (s *BulkService) Archive(ctx context.Context, ids []string, reason string) ([]BulkResult, BulkSummary) {
	start := time.Now()
	defer func() { s.c.obs.observe("bulk.archive", start, nil) }()
	ctx = s.c.opCtx(ctx)

	at := s.c.recorder.Now()
	ents := make([]*entry.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.c.workspace.Get(id); ok {
			ents = append(ents, &e)
			continue
		}
		// Not in the working set: archived without cascade, since the
		// vector state is unknown.
		ents = append(ents, &entry.Entry{ID: id})
	}

	results, summary := s.c.bulkSvc.ArchiveWithCascade(ctx, ents, reason)
	s.c.workspace.ApplySettled(results, func(id string) {
		if e, ok := s.c.workspace.Get(id); ok {
			e.Archive(s.c.recorder.Actor(), at, reason)
			s.c.workspace.ApplyArchived(e)
		}
	})
	return fromDomainResults(results, summary)
}

// Delete permanently deletes the given archived entries.
func (s *BulkService) Delete(ctx context.Context, ids []string) ([]BulkResult, BulkSummary) {
	start := time.Now()
	defer func() { s.c.obs.observe("bulk.delete", start, nil) }()

	results, summary := s.c.bulkSvc.Delete(s.c.opCtx(ctx), ids)
	s.c.workspace.ApplySettled(results, s.c.workspace.ApplyDeleted)
	return fromDomainResults(results, summary)
}

// Sync pushes the given entries into the vector index.
func (s *BulkService) Sync(ctx context.Context, ids []string) ([]BulkResult, BulkSummary) {
	start := time.Now()
	defer func() { s.c.obs.observe("bulk.sync", start, nil) }()

	results, summary := s.c.bulkSvc.Sync(s.c.opCtx(ctx), ids)
	return fromDomainResults(results, summary)
}

// DeleteVectors removes vectors for the given IDs. Chunk IDs resolve
// to their parent entry and duplicates collapse, so selecting several
// chunks of one entry issues a single deletion.
func (s *BulkService) DeleteVectors(ctx context.Context, ids []string) ([]BulkResult, BulkSummary) {
	start := time.Now()
	defer func() { s.c.obs.observe("bulk.delete_vectors", start, nil) }()

	results, summary := s.c.bulkSvc.DeleteVectors(s.c.opCtx(ctx), ids)
	return fromDomainResults(results, summary)
}
