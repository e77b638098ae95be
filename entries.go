package kbadmin

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// EntryService manages the entry lifecycle. Local state is applied
// only after the backend confirms a write; a failed call leaves the
// client's view untouched.
type EntryService struct {
	c *Client
}

// Create validates the form locally, derives title and content and
// writes a new entry through the backend. The entry starts active
// with vectors pending; call Sync (or use CreateAndSync) to index it.
func (s *EntryService) Create(ctx context.Context, form Form, meta Metadata) (out Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.create", start, err) }()
	ctx = s.c.opCtx(ctx)

	df := toDomainForm(form)
	if df == nil {
		return Entry{}, fmt.Errorf("kbadmin: nil form: %w", ErrValidation)
	}

	e, err := s.c.entrySvc.Create(ctx, df, toDomainMetadata(meta))
	if err != nil {
		return Entry{}, err
	}
	s.c.workspace.ApplyCreated(e)
	return fromDomainEntry(e), nil
}

// CreateAndSync creates the entry and immediately pushes it into the
// vector index. If the sync fails the entry still exists, with its
// failure recorded; the returned error wraps the sync failure only.
func (s *EntryService) CreateAndSync(ctx context.Context, form Form, meta Metadata) (Entry, error) {
	out, err := s.Create(ctx, form, meta)
	if err != nil {
		return Entry{}, err
	}

	_, serr := s.Sync(ctx, out.ID)
	// Reflect the recorded sync outcome in the returned snapshot.
	if e, ok := s.c.workspace.Get(out.ID); ok {
		out = fromDomainEntry(e)
	}
	if serr != nil {
		return out, fmt.Errorf("entry %s created but not synced: %w", out.ID, serr)
	}
	return out, nil
}

// CheckDuplicates asks the backend for existing entries similar to
// the draft, best match first. Advisory: an unavailable similarity
// service yields an empty list, never an error.
func (s *EntryService) CheckDuplicates(ctx context.Context, form Form) []DuplicateCandidate {
	ctx = s.c.opCtx(ctx)
	df := toDomainForm(form)
	if df == nil {
		return nil
	}
	return fromDomainCandidates(s.c.entrySvc.CheckDuplicates(ctx, df))
}

// List returns active entries, newest first, and refreshes the
// client's working set.
func (s *EntryService) List(ctx context.Context) (out []Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.list", start, err) }()

	list, err := s.c.entrySvc.List(s.c.opCtx(ctx))
	if err != nil {
		return nil, err
	}
	s.c.workspace.LoadActive(list)
	return fromDomainEntries(list), nil
}

// ListArchived returns archived entries, most recently archived
// first, and refreshes the client's working set.
func (s *EntryService) ListArchived(ctx context.Context) (out []Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.list_archived", start, err) }()

	list, err := s.c.entrySvc.ListArchived(s.c.opCtx(ctx))
	if err != nil {
		return nil, err
	}
	s.c.workspace.LoadArchived(list)
	return fromDomainEntries(list), nil
}

// ListByCategory returns active entries in one metadata category,
// newest first. The entries merge into the working set without
// replacing it; the full active set stays as last listed.
func (s *EntryService) ListByCategory(ctx context.Context, category string) (out []Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.list_by_category", start, err) }()

	list, err := s.c.entrySvc.ListByCategory(s.c.opCtx(ctx), category)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		s.c.workspace.ApplyUpdated(e)
	}
	return fromDomainEntries(list), nil
}

// Get returns a single entry by ID, from the working set when
// loaded, otherwise from the entry store.
func (s *EntryService) Get(ctx context.Context, id string) (out Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.get", start, err) }()

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	return fromDomainEntry(e), nil
}

// Update replaces the entry's form and metadata. Title and content
// are re-derived; if they changed, the entry's vectors go stale and
// need a resync. Pass resync to run the sync in the same call.
func (s *EntryService) Update(ctx context.Context, id string, form Form, meta Metadata, resync bool) (out Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.update", start, err) }()
	ctx = s.c.opCtx(ctx)

	df := toDomainForm(form)
	if df == nil {
		return Entry{}, fmt.Errorf("kbadmin: nil form: %w", ErrValidation)
	}

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	if !s.c.workspace.BeginSubmit(id) {
		return Entry{}, fmt.Errorf("entry %s has a write in flight: %w", id, domain.ErrSyncInFlight)
	}
	defer s.c.workspace.EndSubmit(id)

	if err = s.c.entrySvc.Update(ctx, &e, df, toDomainMetadata(meta)); err != nil {
		return Entry{}, err
	}
	s.c.workspace.ApplyUpdated(e)

	if resync && e.VectorStatus == entry.VectorPending {
		if _, serr := s.c.syncSvc.Sync(ctx, &e); serr != nil {
			s.c.workspace.ApplyUpdated(e)
			return fromDomainEntry(e), fmt.Errorf("entry %s updated but not synced: %w", id, serr)
		}
		s.c.workspace.ApplyUpdated(e)
	}
	return fromDomainEntry(e), nil
}

// Archive moves the entry out of the active set. With cascade, the
// entry's vectors are removed from the index as well; a cascade
// failure is returned but the archive itself stands.
func (s *EntryService) Archive(ctx context.Context, id, reason string, cascade bool) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.archive", start, err) }()
	ctx = s.c.opCtx(ctx)

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return err
	}

	if err = s.c.entrySvc.Archive(ctx, &e, reason); err != nil {
		return err
	}
	s.c.workspace.ApplyArchived(e)

	if cascade && e.VectorStatus == entry.VectorSynced {
		if _, derr := s.c.syncSvc.CascadeDelete(ctx, &e, "entry archived"); derr != nil {
			return fmt.Errorf("entry %s archived but vectors not removed: %w", id, derr)
		}
		s.c.workspace.ApplyUpdated(e)
	}
	return nil
}

// Restore returns an archived entry to the active set. Its vector
// state resets to pending; sync again to re-index.
func (s *EntryService) Restore(ctx context.Context, id string) (out Entry, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.restore", start, err) }()
	ctx = s.c.opCtx(ctx)

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	if err = s.c.entrySvc.Restore(ctx, &e); err != nil {
		return Entry{}, err
	}
	s.c.workspace.ApplyRestored(e)
	return fromDomainEntry(e), nil
}

// PermanentlyDelete removes an archived entry for good. Active
// entries must be archived first.
func (s *EntryService) PermanentlyDelete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.delete", start, err) }()
	ctx = s.c.opCtx(ctx)

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return err
	}

	if err = s.c.entrySvc.PermanentlyDelete(ctx, &e); err != nil {
		return err
	}
	s.c.workspace.ApplyDeleted(id)
	return nil
}

// Sync pushes the entry's content into the vector index. Archived
// entries are refused, as is a sync already running for the entry.
// A failure is recorded on the entry for manual retry.
func (s *EntryService) Sync(ctx context.Context, id string) (out SyncResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.sync", start, err) }()
	ctx = s.c.opCtx(ctx)

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return SyncResult{}, err
	}

	chunks, err := s.c.syncSvc.Sync(ctx, &e)
	s.c.workspace.ApplyUpdated(e)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{EntryID: id, ChunksCreated: chunks}, nil
}

// RetrySync re-runs a failed sync. The stored failure stays in the
// history; a success appends its own event on top.
func (s *EntryService) RetrySync(ctx context.Context, id string) (out SyncResult, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("entry.retry_sync", start, err) }()
	ctx = s.c.opCtx(ctx)

	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return SyncResult{}, err
	}

	chunks, err := s.c.syncSvc.Retry(ctx, &e)
	s.c.workspace.ApplyUpdated(e)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{EntryID: id, ChunksCreated: chunks}, nil
}

// lookup finds the domain entry in the working set or the store.
func (c *Client) lookup(ctx context.Context, id string) (entry.Entry, error) {
	if id == "" {
		return entry.Entry{}, fmt.Errorf("kbadmin: entry id required: %w", ErrValidation)
	}
	if e, ok := c.workspace.Get(id); ok {
		return e, nil
	}
	return c.entrySvc.Get(c.opCtx(ctx), id)
}
