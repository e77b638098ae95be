package entry

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

// ProductPropertyEngine is the product that requires a category.
const ProductPropertyEngine = "property_engine"

// Metadata is the classification attached to every entry.
type Metadata struct {
	UserType    string   `json:"userType"`
	Product     string   `json:"product"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate checks metadata locally, before any network call.
func (m Metadata) Validate() error {
	if m.Product == ProductPropertyEngine && m.Category == "" {
		return fmt.Errorf("category is required for product %q: %w",
			ProductPropertyEngine, domain.ErrValidation)
	}
	return nil
}

// Entry is a single knowledge-base record. Title and Content are
// derived from the form data and never edited independently.
type Entry struct {
	ID       string
	Type     Type
	Title    string
	Content  string
	Form     FormData
	Metadata Metadata

	CreatedBy      domain.Actor
	CreatedAt      time.Time
	LastModifiedBy domain.Actor
	LastModifiedAt time.Time
	ArchivedBy     domain.Actor
	ArchivedAt     time.Time
	ArchivedReason string

	Status       Status
	VectorStatus VectorStatus
	LastSyncedAt *time.Time
	SyncError    string
	SyncLog      SyncLog
}

// New creates an active entry with pending vectors from validated parts.
func New(form FormData, title, content string, meta Metadata) (Entry, error) {
	if form == nil {
		return Entry{}, fmt.Errorf("form data is required: %w", domain.ErrValidation)
	}
	if err := meta.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{
		Type:         form.FormType(),
		Title:        title,
		Content:      content,
		Form:         form,
		Metadata:     meta,
		Status:       StatusActive,
		VectorStatus: VectorPending,
	}, nil
}

// IsArchived reports whether the entry has left the active set.
func (e *Entry) IsArchived() bool { return e.Status == StatusArchived }

// RecordSynced applies a successful vector sync: status synced,
// timestamp set, stale error cleared, one history event appended.
func (e *Entry) RecordSynced(now time.Time) {
	e.VectorStatus = VectorSynced
	t := now
	e.LastSyncedAt = &t
	e.SyncError = ""
	e.SyncLog.Append(SyncEvent{Action: ActionVectorSynced, Timestamp: now})
}

// RecordSyncFailure applies a failed vector sync. The failure is kept
// for audit and manual retry, never discarded.
func (e *Entry) RecordSyncFailure(now time.Time, cause string) {
	e.VectorStatus = VectorFailed
	e.SyncError = cause
	e.SyncLog.Append(SyncEvent{Action: ActionVectorSyncFailed, Timestamp: now, Error: cause})
}

// RecordVectorDeleted applies a cascade vector deletion: the entry no
// longer has vectors, so sync state returns to pending.
func (e *Entry) RecordVectorDeleted(now time.Time, reason string) {
	e.VectorStatus = VectorPending
	e.LastSyncedAt = nil
	e.SyncError = ""
	e.SyncLog.Append(SyncEvent{Action: ActionVectorDeleted, Timestamp: now, Reason: reason})
}

// MarkStale flags the entry as needing a resync after a content edit.
// The sync history is untouched until the next sync attempt.
func (e *Entry) MarkStale() {
	e.VectorStatus = VectorPending
}

// Archive moves the entry out of the active set.
func (e *Entry) Archive(by domain.Actor, at time.Time, reason string) {
	e.Status = StatusArchived
	e.ArchivedBy = by
	e.ArchivedAt = at
	e.ArchivedReason = reason
}

// Restore returns an archived entry to the active set. Vectors may be
// stale or deleted by now, so sync state always resets to pending.
func (e *Entry) Restore() {
	e.Status = StatusActive
	e.ArchivedBy = domain.Actor{}
	e.ArchivedAt = time.Time{}
	e.ArchivedReason = ""
	e.VectorStatus = VectorPending
	e.LastSyncedAt = nil
	e.SyncError = ""
}
