// Package entries implements the entry lifecycle: create, edit,
// archive, restore and delete, with the backend API as the system of
// record and the entry store for reads.
package entries

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/audit"
	"github.com/kailas-cloud/kbadmin/internal/content"
	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/duplicate"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
	"github.com/kailas-cloud/kbadmin/internal/logger"
)

// Service coordinates entry writes against the backend and reads
// against the entry store.
type Service struct {
	mutator   Mutator
	reader    Reader
	dupes     DuplicateChecker
	recorder  *audit.Recorder
	listLimit int
}

// New creates an entry service. The duplicate checker may be nil, in
// which case creates proceed without a similarity check.
func New(mutator Mutator, reader Reader, dupes DuplicateChecker, recorder *audit.Recorder) *Service {
	return &Service{
		mutator:   mutator,
		reader:    reader,
		dupes:     dupes,
		recorder:  recorder,
		listLimit: 500,
	}
}

// WithListLimit caps how many entries listings return.
func (s *Service) WithListLimit(limit int) *Service {
	if limit > 0 {
		s.listLimit = limit
	}
	return s
}

// Create validates the form locally, derives title and content,
// stamps audit fields and writes the entry through the backend. The
// entry ID is assigned by the backend and set only after the write
// succeeds.
func (s *Service) Create(ctx context.Context, form entry.FormData, meta entry.Metadata) (entry.Entry, error) {
	title := content.Title(form)
	body := content.Build(form)

	e, err := entry.New(form, title, body, meta)
	if err != nil {
		return entry.Entry{}, err
	}
	s.recorder.StampCreate(&e)

	id, err := s.mutator.Create(ctx, &e)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	e.ID = id

	logger.FromContext(ctx).Info("entry created",
		zap.String("entry_id", id),
		zap.String("type", string(e.Type)))
	return e, nil
}

// CheckDuplicates derives title and content from the form and asks
// the backend for similar existing entries. Advisory only.
func (s *Service) CheckDuplicates(ctx context.Context, form entry.FormData) []duplicate.Candidate {
	if s.dupes == nil {
		return nil
	}
	return s.dupes.Check(ctx, content.Title(form), content.Build(form), form.FormType())
}

// Update replaces the entry's form and metadata, re-derives title and
// content, and writes through the backend. If the derived content
// changed, the entry's vectors are marked stale.
func (s *Service) Update(ctx context.Context, e *entry.Entry, form entry.FormData, meta entry.Metadata) error {
	if e.ID == "" {
		return fmt.Errorf("entry has no id: %w", domain.ErrValidation)
	}
	if form.FormType() != e.Type {
		return fmt.Errorf("cannot change entry type from %s to %s: %w",
			e.Type, form.FormType(), domain.ErrValidation)
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	title := content.Title(form)
	body := content.Build(form)
	contentChanged := body != e.Content || title != e.Title

	upd := entry.Update{
		Form:       form,
		Title:      title,
		Content:    body,
		Metadata:   &meta,
		ModifiedBy: s.recorder.Actor(),
		ModifiedAt: s.recorder.Now(),
	}
	if err := s.mutator.Update(ctx, e.ID, upd); err != nil {
		return fmt.Errorf("update entry %s: %w", e.ID, err)
	}

	e.Form = form
	e.Title = title
	e.Content = body
	e.Metadata = meta
	e.LastModifiedBy = upd.ModifiedBy
	e.LastModifiedAt = upd.ModifiedAt
	if contentChanged {
		e.MarkStale()
	}
	return nil
}

// Archive moves the entry out of the active set. Vector cleanup is a
// separate concern; see the vectorsync service.
func (s *Service) Archive(ctx context.Context, e *entry.Entry, reason string) error {
	if e.IsArchived() {
		return fmt.Errorf("entry %s is already archived: %w", e.ID, domain.ErrPrecondition)
	}

	by := s.recorder.Actor()
	at := s.recorder.Now()
	if err := s.mutator.Archive(ctx, e.ID, by, at, reason); err != nil {
		return fmt.Errorf("archive entry %s: %w", e.ID, err)
	}
	e.Archive(by, at, reason)

	logger.FromContext(ctx).Info("entry archived",
		zap.String("entry_id", e.ID),
		zap.String("reason", reason))
	return nil
}

// Restore returns an archived entry to the active set. Its vectors
// may have been deleted or gone stale in the meantime, so sync state
// always resets to pending.
func (s *Service) Restore(ctx context.Context, e *entry.Entry) error {
	if !e.IsArchived() {
		return fmt.Errorf("entry %s is not archived: %w", e.ID, domain.ErrPrecondition)
	}

	if err := s.mutator.Restore(ctx, e.ID); err != nil {
		return fmt.Errorf("restore entry %s: %w", e.ID, err)
	}
	e.Restore()
	s.recorder.StampModify(e)

	logger.FromContext(ctx).Info("entry restored", zap.String("entry_id", e.ID))
	return nil
}

// PermanentlyDelete removes an archived entry for good. Active
// entries must be archived first.
func (s *Service) PermanentlyDelete(ctx context.Context, e *entry.Entry) error {
	if !e.IsArchived() {
		return fmt.Errorf("entry %s must be archived before deletion: %w",
			e.ID, domain.ErrPrecondition)
	}

	if err := s.mutator.Delete(ctx, e.ID); err != nil {
		return fmt.Errorf("delete entry %s: %w", e.ID, err)
	}

	logger.FromContext(ctx).Info("entry deleted", zap.String("entry_id", e.ID))
	return nil
}

// List returns active entries, newest first.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	list, err := s.reader.ListActive(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return list, nil
}

// ListArchived returns archived entries, most recently archived first.
func (s *Service) ListArchived(ctx context.Context) ([]entry.Entry, error) {
	list, err := s.reader.ListArchived(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list archived entries: %w", err)
	}
	return list, nil
}

// ListByCategory returns active entries in one metadata category,
// newest first.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]entry.Entry, error) {
	list, err := s.reader.ListByCategory(ctx, category, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list entries by category %q: %w", category, err)
	}
	return list, nil
}

// Get returns a single entry by ID.
func (s *Service) Get(ctx context.Context, id string) (entry.Entry, error) {
	e, err := s.reader.Get(ctx, id)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}
