package entrystore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// entryDoc mirrors the JSON document the backend writes to the store.
// Older documents predate the status field and carry only the
// archived flag; both shapes are accepted.
type entryDoc struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	FormData json.RawMessage `json:"formData"`

	UserType    string   `json:"userType"`
	Product     string   `json:"product"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Tags        []string `json:"tags"`

	CreatedBy           string `json:"createdBy"`
	CreatedByEmail      string `json:"createdByEmail"`
	CreatedByName       string `json:"createdByName"`
	CreatedAt           string `json:"createdAt"`
	LastModifiedBy      string `json:"lastModifiedBy"`
	LastModifiedByEmail string `json:"lastModifiedByEmail"`
	LastModifiedByName  string `json:"lastModifiedByName"`
	LastModifiedAt      string `json:"lastModifiedAt"`

	Status         string `json:"status"`
	Archived       bool   `json:"archived"`
	ArchivedBy     string `json:"archivedBy"`
	ArchivedAt     string `json:"archivedAt"`
	ArchivedReason string `json:"archivedReason"`

	VectorStatus string            `json:"vectorStatus"`
	LastSyncedAt string            `json:"lastSyncedAt"`
	SyncError    string            `json:"syncError"`
	SyncHistory  []entry.SyncEvent `json:"syncHistory"`
}

// parseJSONGetResult unwraps a JSON.GET $ reply, which returns the
// document wrapped in a one-element array.
func parseJSONGetResult(id, raw string) (entry.Entry, error) {
	var docs []entryDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		// Some server versions return the bare document.
		var doc entryDoc
		if err2 := json.Unmarshal([]byte(raw), &doc); err2 != nil {
			return entry.Entry{}, fmt.Errorf("decode entry %s: %w", id, err)
		}
		return docToEntry(id, doc)
	}
	if len(docs) == 0 {
		return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, domain.ErrNotFound)
	}
	return docToEntry(id, docs[0])
}

// parseEntryJSON decodes a single document from an FT.SEARCH row.
func parseEntryJSON(id, raw string) (entry.Entry, error) {
	var doc entryDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return entry.Entry{}, fmt.Errorf("decode entry %s: %w", id, err)
	}
	return docToEntry(id, doc)
}

func docToEntry(id string, doc entryDoc) (entry.Entry, error) {
	if doc.ID == "" {
		doc.ID = id
	}

	t, err := entry.ParseType(doc.Type)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("entry %s: %w", doc.ID, err)
	}

	e := entry.Entry{
		ID:      doc.ID,
		Type:    t,
		Title:   doc.Title,
		Content: doc.Content,
		Metadata: entry.Metadata{
			UserType:    doc.UserType,
			Product:     doc.Product,
			Category:    doc.Category,
			Subcategory: doc.Subcategory,
			Tags:        doc.Tags,
		},
		CreatedBy: domain.Actor{
			ID:    doc.CreatedBy,
			Email: doc.CreatedByEmail,
			Name:  doc.CreatedByName,
		},
		LastModifiedBy: domain.Actor{
			ID:    doc.LastModifiedBy,
			Email: doc.LastModifiedByEmail,
			Name:  doc.LastModifiedByName,
		},
		ArchivedReason: doc.ArchivedReason,
		SyncError:      doc.SyncError,
		SyncLog:        entry.ReconstructLog(doc.SyncHistory),
	}

	if len(doc.FormData) > 0 {
		form, err := entry.ParseForm(t, doc.FormData)
		if err != nil {
			return entry.Entry{}, fmt.Errorf("entry %s: %w", doc.ID, err)
		}
		e.Form = form
	}

	e.CreatedAt = parseTime(doc.CreatedAt)
	e.LastModifiedAt = parseTime(doc.LastModifiedAt)

	// Either archive marker counts as archived.
	if doc.Status == string(entry.StatusArchived) || doc.Archived {
		e.Status = entry.StatusArchived
		e.ArchivedBy = domain.Actor{ID: doc.ArchivedBy}
		e.ArchivedAt = parseTime(doc.ArchivedAt)
	} else {
		e.Status = entry.StatusActive
	}

	switch entry.VectorStatus(doc.VectorStatus) {
	case entry.VectorSynced:
		e.VectorStatus = entry.VectorSynced
	case entry.VectorFailed:
		e.VectorStatus = entry.VectorFailed
	default:
		// Missing or unknown status means vectors were never confirmed.
		e.VectorStatus = entry.VectorPending
	}

	if ts := parseTime(doc.LastSyncedAt); !ts.IsZero() {
		e.LastSyncedAt = &ts
	}

	return e, nil
}

// parseTime accepts RFC3339 with or without sub-second precision and
// returns the zero time for anything else. Listing should not fail
// because one document carries a malformed timestamp.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
