package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/kbadmin/internal/domain"
)

type syncEntryResponse struct {
	Success       bool   `json:"success"`
	ChunksCreated int    `json:"chunks_created"`
	Error         string `json:"error"`
}

// SyncEntry regenerates all vector chunks for an entry. The backend
// removes any previous chunk generation as part of this call, so old
// and new chunks are never simultaneously queryable.
func (c *Client) SyncEntry(ctx context.Context, id string) (int, error) {
	var resp syncEntryResponse
	path := "/api/kb/entries/" + url.PathEscape(id) + "/sync"
	if err := c.doJSON(ctx, "sync_entry", http.MethodPost, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("sync entry %s: %w", id, err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("sync entry %s: %w", id, domain.NewBackendError(0, resp.Error))
	}
	return resp.ChunksCreated, nil
}
