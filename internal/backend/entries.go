package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// metadataPayload is the contractual metadata shape of the entries API.
type metadataPayload struct {
	EntryType        string   `json:"entryType"`
	UserType         string   `json:"userType"`
	Product          string   `json:"product"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	RelatedDocuments []string `json:"related_documents,omitempty"`

	// Auto-populated per entry type.
	ErrorCode   string `json:"error_code,omitempty"`
	ProcessType string `json:"process_type,omitempty"`
	StepCount   int    `json:"step_count,omitempty"`
}

// buildMetadataPayload assembles the wire metadata, copying
// type-specific fields out of the form so the backend can filter and
// route without parsing raw form data.
func buildMetadataPayload(t entry.Type, m entry.Metadata, form entry.FormData) metadataPayload {
	p := metadataPayload{
		EntryType:        string(t),
		UserType:         m.UserType,
		Product:          m.Product,
		Category:         m.Category,
		Subcategory:      m.Subcategory,
		Tags:             m.Tags,
		RelatedDocuments: entry.RelatedDocuments(form),
	}
	switch f := form.(type) {
	case entry.ErrorForm:
		p.ErrorCode = f.ErrorCode
	case entry.HowToForm:
		p.ProcessType = f.StepType
		if f.StepType == entry.StepTypeMulti {
			p.StepCount = len(f.Steps)
		}
	}
	return p
}

type createEntryRequest struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Metadata    metadataPayload `json:"metadata"`
	RawFormData entry.FormData  `json:"rawFormData,omitempty"`
}

type createEntryResponse struct {
	Success bool   `json:"success"`
	EntryID string `json:"entry_id"`
	Error   string `json:"error"`
}

// Create stores a new entry and returns the ID assigned by the store.
func (c *Client) Create(ctx context.Context, e *entry.Entry) (string, error) {
	req := createEntryRequest{
		Type:        string(e.Type),
		Title:       e.Title,
		Content:     e.Content,
		Metadata:    buildMetadataPayload(e.Type, e.Metadata, e.Form),
		RawFormData: e.Form,
	}

	var resp createEntryResponse
	if err := c.doJSON(ctx, "create_entry", http.MethodPost, "/api/kb/entries", req, &resp); err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("create entry: %w", domain.NewBackendError(0, resp.Error))
	}
	if resp.EntryID == "" {
		return "", fmt.Errorf("create entry: %w", domain.NewBackendError(0, "missing entry_id in response"))
	}
	return resp.EntryID, nil
}

type updateEntryRequest struct {
	Title       string           `json:"title,omitempty"`
	Content     string           `json:"content,omitempty"`
	RawFormData entry.FormData   `json:"rawFormData,omitempty"`
	Metadata    *metadataPayload `json:"metadata,omitempty"`

	LastModifiedBy      string `json:"lastModifiedBy,omitempty"`
	LastModifiedByEmail string `json:"lastModifiedByEmail,omitempty"`
	LastModifiedByName  string `json:"lastModifiedByName,omitempty"`
	LastModifiedAt      string `json:"lastModifiedAt,omitempty"`
}

// Update applies a partial entry update. Fields merge at field level
// on the backend; absent fields stay untouched.
func (c *Client) Update(ctx context.Context, id string, u entry.Update) error {
	req := updateEntryRequest{
		Title:               u.Title,
		Content:             u.Content,
		RawFormData:         u.Form,
		LastModifiedBy:      u.ModifiedBy.ID,
		LastModifiedByEmail: u.ModifiedBy.Email,
		LastModifiedByName:  u.ModifiedBy.Name,
	}
	if !u.ModifiedAt.IsZero() {
		req.LastModifiedAt = u.ModifiedAt.UTC().Format(time.RFC3339)
	}
	if u.Metadata != nil && u.Form != nil {
		p := buildMetadataPayload(u.Form.FormType(), *u.Metadata, u.Form)
		req.Metadata = &p
	}

	var resp statusResponse
	path := "/api/kb/entries/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "update_entry", http.MethodPut, path, req, &resp); err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}
	if err := resp.check(); err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}
	return nil
}

type archiveEntryRequest struct {
	ArchivedBy      string `json:"archivedBy,omitempty"`
	ArchivedByEmail string `json:"archivedByEmail,omitempty"`
	ArchivedByName  string `json:"archivedByName,omitempty"`
	ArchivedAt      string `json:"archivedAt,omitempty"`
	ArchivedReason  string `json:"archivedReason,omitempty"`
}

// Archive soft-deletes an entry, stamping the audit trail.
func (c *Client) Archive(ctx context.Context, id string, by domain.Actor, at time.Time, reason string) error {
	req := archiveEntryRequest{
		ArchivedBy:      by.ID,
		ArchivedByEmail: by.Email,
		ArchivedByName:  by.Name,
		ArchivedReason:  reason,
	}
	if !at.IsZero() {
		req.ArchivedAt = at.UTC().Format(time.RFC3339)
	}

	var resp statusResponse
	path := "/api/kb/entries/" + url.PathEscape(id) + "/archive"
	if err := c.doJSON(ctx, "archive_entry", http.MethodPost, path, req, &resp); err != nil {
		return fmt.Errorf("archive entry %s: %w", id, err)
	}
	if err := resp.check(); err != nil {
		return fmt.Errorf("archive entry %s: %w", id, err)
	}
	return nil
}

// Restore returns an archived entry to the active set.
func (c *Client) Restore(ctx context.Context, id string) error {
	var resp statusResponse
	path := "/api/kb/entries/" + url.PathEscape(id) + "/restore"
	if err := c.doJSON(ctx, "restore_entry", http.MethodPost, path, nil, &resp); err != nil {
		return fmt.Errorf("restore entry %s: %w", id, err)
	}
	if err := resp.check(); err != nil {
		return fmt.Errorf("restore entry %s: %w", id, err)
	}
	return nil
}

// Delete permanently removes an entry row from the store.
// The vector index is not touched; that is a separate operation.
func (c *Client) Delete(ctx context.Context, id string) error {
	var resp statusResponse
	path := "/api/kb/entries/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "delete_entry", http.MethodDelete, path, nil, &resp); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if err := resp.check(); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}
