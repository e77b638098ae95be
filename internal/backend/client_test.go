package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// fakeBackend is an in-memory stand-in for the KB backend API.
type fakeBackend struct {
	mu sync.Mutex

	lastCreate  map[string]any
	lastUpdate  map[string]any
	lastArchive map[string]any
	lastPath    string
	requestIDs  []string

	failStatus int // when set, every handler responds with this status
}

func (f *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.capture)

	r.Post("/api/kb/entries", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		_ = json.NewDecoder(req.Body).Decode(&f.lastCreate)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"success": true, "entry_id": "kb-42"})
	})
	r.Put("/api/kb/entries/{id}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		_ = json.NewDecoder(req.Body).Decode(&f.lastUpdate)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"success": true})
	})
	r.Post("/api/kb/entries/{id}/archive", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		_ = json.NewDecoder(req.Body).Decode(&f.lastArchive)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"success": true})
	})
	r.Post("/api/kb/entries/{id}/restore", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"success": true})
	})
	r.Delete("/api/kb/entries/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"success": true})
	})
	r.Post("/api/kb/entries/{id}/sync", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"success": true, "chunks_created": 3})
	})
	r.Get("/api/kb/vectors", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"success": true,
			"entries": []map[string]any{
				{
					"entry_id":        "kb-1_chunk_0",
					"title":           "Escrow",
					"content_preview": "Term: Escrow",
					"metadata": map[string]any{
						"is_chunk":       true,
						"chunk_section":  "Definition",
						"chunk_position": "0",
						"parent_title":   "Escrow",
						"total_chunks":   2,
					},
				},
				{
					"entry_id": "kb-2",
					"title":    "Standalone",
					"metadata": map[string]any{"chunk_position": "not-a-number"},
				},
			},
		})
	})
	r.Delete("/api/kb/vectors/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"success": true, "chunks_deleted": 2})
	})
	r.Post("/api/kb/check-duplicates", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"has_duplicates": true,
			"similar_entries": []map[string]any{
				{
					"id": "kb-9", "title": "Escrow", "similarity_score": 0.91,
					"type": "definition", "category": "payments",
					"content_snippet": "Term: Escrow",
					"created_at":      "2025-05-01T10:00:00Z",
				},
			},
		})
	})
	return r
}

func (f *fakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.lastPath = req.URL.Path
		f.requestIDs = append(f.requestIDs, req.Header.Get("X-Request-ID"))
		fail := f.failStatus
		f.mu.Unlock()
		if fail != 0 {
			http.Error(w, "backend exploded", fail)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, f *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client())
}

// --- Tests ---

func TestCreate_SendsContractualPayload(t *testing.T) {
	f := &fakeBackend{}
	c := newTestClient(t, f)

	e := entry.Entry{
		Type:    entry.TypeError,
		Title:   "Login fails",
		Content: "Error: Login fails",
		Form: entry.ErrorForm{
			IssueTitle: "Login fails",
			ErrorCode:  "AUTH-401",
			Causes:     []entry.Cause{{RelatedHelp: "Session FAQ"}},
		},
		Metadata: entry.Metadata{UserType: "homeowner", Product: "mobile_app"},
	}

	id, err := c.Create(context.Background(), &e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "kb-42" {
		t.Errorf("id = %q", id)
	}

	meta, _ := f.lastCreate["metadata"].(map[string]any)
	if meta["entryType"] != "error" {
		t.Errorf("entryType = %v", meta["entryType"])
	}
	if meta["error_code"] != "AUTH-401" {
		t.Errorf("error_code not auto-populated: %v", meta["error_code"])
	}
	docs, _ := meta["related_documents"].([]any)
	if len(docs) != 1 || docs[0] != "Session FAQ" {
		t.Errorf("related_documents = %v", docs)
	}
	if len(f.requestIDs) != 1 || f.requestIDs[0] == "" {
		t.Errorf("request id header missing: %v", f.requestIDs)
	}
}

func TestCreate_HowToStepCount(t *testing.T) {
	f := &fakeBackend{}
	c := newTestClient(t, f)

	e := entry.Entry{
		Type:  entry.TypeHowTo,
		Title: "Reset a password",
		Form: entry.HowToForm{
			StepType: entry.StepTypeMulti,
			Steps:    []entry.Step{{Title: "a"}, {Title: "b"}, {Title: "c"}},
		},
	}
	if _, err := c.Create(context.Background(), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta, _ := f.lastCreate["metadata"].(map[string]any)
	if meta["process_type"] != "multi" {
		t.Errorf("process_type = %v", meta["process_type"])
	}
	if meta["step_count"] != float64(3) {
		t.Errorf("step_count = %v", meta["step_count"])
	}
}

func TestUpdate_StampsModifier(t *testing.T) {
	f := &fakeBackend{}
	c := newTestClient(t, f)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := c.Update(context.Background(), "kb-1", entry.Update{
		Title:      "Escrow",
		Content:    "Term: Escrow",
		Form:       entry.DefinitionForm{Term: "Escrow"},
		ModifiedBy: domain.Actor{ID: "u-1", Email: "a@example.com", Name: "A"},
		ModifiedAt: at,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.lastUpdate["lastModifiedBy"] != "u-1" {
		t.Errorf("lastModifiedBy = %v", f.lastUpdate["lastModifiedBy"])
	}
	if f.lastUpdate["lastModifiedAt"] != "2025-06-01T12:00:00Z" {
		t.Errorf("lastModifiedAt = %v", f.lastUpdate["lastModifiedAt"])
	}
}

func TestArchive_SendsAuditTrail(t *testing.T) {
	f := &fakeBackend{}
	c := newTestClient(t, f)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	by := domain.Actor{ID: "u-1", Email: "a@example.com", Name: "A"}
	if err := c.Archive(context.Background(), "kb-1", by, at, "outdated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.lastPath != "/api/kb/entries/kb-1/archive" {
		t.Errorf("path = %q", f.lastPath)
	}
	if f.lastArchive["archivedBy"] != "u-1" || f.lastArchive["archivedReason"] != "outdated" {
		t.Errorf("payload = %v", f.lastArchive)
	}
}

func TestSyncEntry(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	chunks, err := c.SyncEntry(context.Background(), "kb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != 3 {
		t.Errorf("chunks = %d", chunks)
	}
}

func TestListVectors_ResolvesParents(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	chunks, err := c.ListVectors(context.Background(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d", len(chunks))
	}
	if chunks[0].ParentID != "kb-1" || chunks[0].Position != 0 || chunks[0].TotalChunks != 2 {
		t.Errorf("chunk = %+v", chunks[0])
	}
	// A standalone row is its own parent, and a malformed position
	// degrades to zero instead of failing the listing.
	if chunks[1].ParentID != "kb-2" || chunks[1].Position != 0 {
		t.Errorf("chunk = %+v", chunks[1])
	}
}

func TestDeleteVector(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	deleted, err := c.DeleteVector(context.Background(), "kb-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d", deleted)
	}
}

func TestCheckDuplicates(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	cands, err := c.CheckDuplicates(context.Background(), "Escrow", "Term: Escrow", entry.TypeDefinition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("candidates = %d", len(cands))
	}
	if cands[0].ID != "kb-9" || cands[0].Score != 0.91 {
		t.Errorf("candidate = %+v", cands[0])
	}
	if cands[0].CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
}

func TestNon2xx_IsBackendError(t *testing.T) {
	c := newTestClient(t, &fakeBackend{failStatus: http.StatusBadGateway})

	_, err := c.SyncEntry(context.Background(), "kb-1")
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Status != http.StatusBadGateway {
		t.Fatalf("backend error = %v", err)
	}
}

func TestTransportFailure_IsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	c := New(url, &http.Client{Timeout: time.Second})
	_, err := c.SyncEntry(context.Background(), "kb-1")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestEnvelopeFailure_IsBackendError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/kb/entries", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"success": false, "error": "store unavailable"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	e := entry.Entry{Type: entry.TypeDefinition, Form: entry.DefinitionForm{Term: "X"}}
	_, err := c.Create(context.Background(), &e)
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}
