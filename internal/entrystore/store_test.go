package entrystore

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

const (
	testPrefix = "kb:entry:"
	testIndex  = "kb-entries-idx"
)

const activeDoc = `{
	"id": "kb-1",
	"type": "definition",
	"title": "Escrow",
	"content": "Term: Escrow",
	"formData": {"term": "Escrow", "definition": "Held funds."},
	"userType": "homeowner",
	"product": "mobile_app",
	"createdBy": "u-1",
	"createdAt": "2025-06-01T12:00:00Z",
	"status": "active",
	"vectorStatus": "synced",
	"lastSyncedAt": "2025-06-01T13:00:00Z",
	"syncHistory": [{"action": "vector_synced", "timestamp": "2025-06-01T13:00:00Z"}]
}`

// legacyArchivedDoc predates the status field: only the archived flag
// marks it, and vectorStatus is absent entirely.
const legacyArchivedDoc = `{
	"id": "kb-2",
	"type": "error",
	"title": "Login fails",
	"archived": true,
	"archivedBy": "u-2",
	"archivedAt": "2025-06-02T09:00:00Z",
	"archivedReason": "duplicate"
}`

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c, testPrefix, testIndex)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "kb:entry:kb-1", "$")).
		Return(mock.Result(mock.RedisString("[" + activeDoc + "]")))

	s := NewStoreForTest(c, testPrefix, testIndex)
	e, err := s.Get(context.Background(), "kb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.ID != "kb-1" || e.Type != entry.TypeDefinition {
		t.Errorf("entry = %+v", e)
	}
	if e.VectorStatus != entry.VectorSynced || e.LastSyncedAt == nil {
		t.Errorf("vector state = %q %v", e.VectorStatus, e.LastSyncedAt)
	}
	def, ok := e.Form.(entry.DefinitionForm)
	if !ok || def.Term != "Escrow" {
		t.Errorf("form = %+v", e.Form)
	}
	if e.SyncLog.Len() != 1 {
		t.Errorf("history = %d", e.SyncLog.Len())
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "kb:entry:missing", "$")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c, testPrefix, testIndex)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "@status:{active}"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("kb:entry:kb-1"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(activeDoc),
			),
		)))

	s := NewStoreForTest(c, testPrefix, testIndex)
	entries, err := s.ListActive(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "kb-1" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Status != entry.StatusActive {
		t.Errorf("status = %q", entries[0].Status)
	}
}

func TestListActive_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c, testPrefix, testIndex)
	entries, err := s.ListActive(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d", len(entries))
	}
}

func TestListByCategory_EscapesTagValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" &&
				cmd[2] == `@status:{active} @category:{closing\-costs}`
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("kb:entry:kb-1"),
			mock.RedisArray(
				mock.RedisString("$"),
				mock.RedisString(activeDoc),
			),
		)))

	s := NewStoreForTest(c, testPrefix, testIndex)
	entries, err := s.ListByCategory(context.Background(), "closing-costs", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "kb-1" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestListArchived_MergesMarkersAndSorts(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	statusArchivedDoc := `{
		"id": "kb-3", "type": "how_to", "title": "Old guide",
		"status": "archived", "archivedAt": "2025-06-03T09:00:00Z"
	}`

	// The union query can return the same key twice; the duplicate
	// must collapse.
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "@status:{archived} | @archived:{true}"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(3),
			mock.RedisString("kb:entry:kb-2"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(legacyArchivedDoc)),
			mock.RedisString("kb:entry:kb-3"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(statusArchivedDoc)),
			mock.RedisString("kb:entry:kb-2"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(legacyArchivedDoc)),
		)))

	s := NewStoreForTest(c, testPrefix, testIndex)
	entries, err := s.ListArchived(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want deduplicated 2", len(entries))
	}
	// Most recently archived first.
	if entries[0].ID != "kb-3" || entries[1].ID != "kb-2" {
		t.Errorf("order = %s %s", entries[0].ID, entries[1].ID)
	}
	if !entries[1].IsArchived() {
		t.Error("legacy archived flag not honored")
	}
	// Absent vectorStatus means vectors were never confirmed.
	if entries[1].VectorStatus != entry.VectorPending {
		t.Errorf("vector status = %q", entries[1].VectorStatus)
	}
}

func TestListActive_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, testPrefix, testIndex)
	if _, err := s.ListActive(context.Background(), 100); err == nil {
		t.Fatal("expected error")
	}
}
