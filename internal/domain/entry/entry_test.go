package entry

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEntry(t *testing.T) Entry {
	t.Helper()
	e, err := New(
		DefinitionForm{Term: "Escrow", Definition: "Held funds."},
		"Escrow", "Term: Escrow",
		Metadata{UserType: "homeowner", Product: "mobile_app"},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.ID = "kb-1"
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEntry(t)
	if e.Status != StatusActive {
		t.Errorf("status = %q", e.Status)
	}
	if e.VectorStatus != VectorPending {
		t.Errorf("vector status = %q", e.VectorStatus)
	}
	if e.Type != TypeDefinition {
		t.Errorf("type = %q", e.Type)
	}
}

func TestNew_RequiresForm(t *testing.T) {
	_, err := New(nil, "t", "c", Metadata{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMetadata_CategoryRequiredForPropertyEngine(t *testing.T) {
	err := Metadata{Product: ProductPropertyEngine}.Validate()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := (Metadata{Product: ProductPropertyEngine, Category: "valuation"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Metadata{Product: "mobile_app"}).Validate(); err != nil {
		t.Fatalf("category must be optional for other products: %v", err)
	}
}

func TestRecordSynced(t *testing.T) {
	e := newTestEntry(t)
	e.SyncError = "previous failure"

	e.RecordSynced(testTime)

	if e.VectorStatus != VectorSynced {
		t.Errorf("vector status = %q", e.VectorStatus)
	}
	if e.LastSyncedAt == nil || !e.LastSyncedAt.Equal(testTime) {
		t.Errorf("last synced at = %v", e.LastSyncedAt)
	}
	if e.SyncError != "" {
		t.Errorf("sync error not cleared: %q", e.SyncError)
	}
	last, ok := e.SyncLog.Last()
	if !ok || last.Action != ActionVectorSynced {
		t.Errorf("last event = %+v", last)
	}
}

func TestRecordSyncFailure_KeepsHistory(t *testing.T) {
	e := newTestEntry(t)
	e.RecordSynced(testTime)

	e.RecordSyncFailure(testTime.Add(time.Hour), "backend down")

	if e.VectorStatus != VectorFailed {
		t.Errorf("vector status = %q", e.VectorStatus)
	}
	if e.SyncError != "backend down" {
		t.Errorf("sync error = %q", e.SyncError)
	}
	if e.SyncLog.Len() != 2 {
		t.Errorf("history length = %d, want 2", e.SyncLog.Len())
	}
	events := e.SyncLog.Events()
	if events[0].Action != ActionVectorSynced {
		t.Errorf("prior event mutated: %+v", events[0])
	}
}

func TestRecordVectorDeleted(t *testing.T) {
	e := newTestEntry(t)
	e.RecordSynced(testTime)

	e.RecordVectorDeleted(testTime.Add(time.Hour), "entry archived")

	if e.VectorStatus != VectorPending {
		t.Errorf("vector status = %q", e.VectorStatus)
	}
	if e.LastSyncedAt != nil {
		t.Errorf("last synced at not cleared: %v", e.LastSyncedAt)
	}
	last, _ := e.SyncLog.Last()
	if last.Action != ActionVectorDeleted || last.Reason != "entry archived" {
		t.Errorf("last event = %+v", last)
	}
}

func TestMarkStale_DoesNotTouchHistory(t *testing.T) {
	e := newTestEntry(t)
	e.RecordSynced(testTime)

	e.MarkStale()

	if e.VectorStatus != VectorPending {
		t.Errorf("vector status = %q", e.VectorStatus)
	}
	if e.SyncLog.Len() != 1 {
		t.Errorf("history length = %d, want 1", e.SyncLog.Len())
	}
}

func TestArchiveAndRestore(t *testing.T) {
	e := newTestEntry(t)
	e.RecordSynced(testTime)
	by := domain.Actor{ID: "u-1", Email: "a@example.com", Name: "A"}

	e.Archive(by, testTime, "outdated")
	if !e.IsArchived() {
		t.Fatal("entry not archived")
	}
	if e.ArchivedBy != by || e.ArchivedReason != "outdated" {
		t.Errorf("archive fields = %+v %q", e.ArchivedBy, e.ArchivedReason)
	}

	e.Restore()
	if e.IsArchived() {
		t.Fatal("entry still archived")
	}
	if !e.ArchivedAt.IsZero() || e.ArchivedReason != "" {
		t.Errorf("archive fields not cleared: %v %q", e.ArchivedAt, e.ArchivedReason)
	}
	// Vectors may be stale or deleted by now.
	if e.VectorStatus != VectorPending {
		t.Errorf("vector status after restore = %q", e.VectorStatus)
	}
	if e.LastSyncedAt != nil {
		t.Errorf("last synced at after restore = %v", e.LastSyncedAt)
	}
}
