package entries

import (
	"context"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/duplicate"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Mutator writes entries through the backend API.
type Mutator interface {
	Create(ctx context.Context, e *entry.Entry) (id string, err error)
	Update(ctx context.Context, id string, upd entry.Update) error
	Archive(ctx context.Context, id string, by domain.Actor, at time.Time, reason string) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Reader reads entries from the entry store.
type Reader interface {
	ListActive(ctx context.Context, limit int) ([]entry.Entry, error)
	ListArchived(ctx context.Context, limit int) ([]entry.Entry, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]entry.Entry, error)
	Get(ctx context.Context, id string) (entry.Entry, error)
}

// DuplicateChecker finds similar existing entries before a create.
// It never fails the create path: on backend trouble it returns nil.
type DuplicateChecker interface {
	Check(ctx context.Context, title, content string, t entry.Type) []duplicate.Candidate
}
