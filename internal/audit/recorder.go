// Package audit stamps entries with who did what and when.
package audit

import (
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Recorder applies audit fields on behalf of a fixed actor. A zero
// actor falls back to the anonymous placeholder so backend rows are
// never written without attribution.
type Recorder struct {
	actor domain.Actor
	now   func() time.Time
}

// New creates a Recorder for the given actor.
func New(actor domain.Actor) *Recorder {
	return &Recorder{actor: actor.OrAnonymous(), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Actor returns the actor this recorder stamps with.
func (r *Recorder) Actor() domain.Actor { return r.actor }

// Now returns the recorder's current time.
func (r *Recorder) Now() time.Time { return r.now() }

// StampCreate sets creation and initial modification fields.
func (r *Recorder) StampCreate(e *entry.Entry) {
	now := r.now()
	e.CreatedBy = r.actor
	e.CreatedAt = now
	e.LastModifiedBy = r.actor
	e.LastModifiedAt = now
}

// StampModify sets modification fields.
func (r *Recorder) StampModify(e *entry.Entry) {
	e.LastModifiedBy = r.actor
	e.LastModifiedAt = r.now()
}

// StampArchive archives the entry on behalf of the actor.
func (r *Recorder) StampArchive(e *entry.Entry, reason string) {
	e.Archive(r.actor, r.now(), reason)
}
