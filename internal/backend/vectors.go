package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/chunk"
)

// vectorEntryDTO mirrors one row of GET /api/kb/vectors.
type vectorEntryDTO struct {
	EntryID        string        `json:"entry_id"`
	Title          string        `json:"title"`
	ContentPreview string        `json:"content_preview"`
	Metadata       vectorMetaDTO `json:"metadata"`
}

type vectorMetaDTO struct {
	IsChunk       bool   `json:"is_chunk"`
	ChunkSection  string `json:"chunk_section"`
	ChunkPosition string `json:"chunk_position"`
	ParentTitle   string `json:"parent_title"`
	TotalChunks   int    `json:"total_chunks"`
}

type listVectorsResponse struct {
	Success bool             `json:"success"`
	Entries []vectorEntryDTO `json:"entries"`
	Error   string           `json:"error"`
}

// ListVectors returns up to limit chunks currently in the vector index.
func (c *Client) ListVectors(ctx context.Context, limit int) ([]chunk.Chunk, error) {
	var resp listVectorsResponse
	path := "/api/kb/vectors?limit=" + strconv.Itoa(limit)
	if err := c.doJSON(ctx, "list_vectors", http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list vectors: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list vectors: %w", domain.NewBackendError(0, resp.Error))
	}

	chunks := make([]chunk.Chunk, 0, len(resp.Entries))
	for _, dto := range resp.Entries {
		chunks = append(chunks, chunk.Chunk{
			ID:             dto.EntryID,
			ParentID:       chunk.ParentID(dto.EntryID),
			ParentTitle:    firstNonEmpty(dto.Metadata.ParentTitle, dto.Title),
			Section:        dto.Metadata.ChunkSection,
			Position:       parsePosition(dto.Metadata.ChunkPosition),
			TotalChunks:    dto.Metadata.TotalChunks,
			ContentPreview: dto.ContentPreview,
		})
	}
	return chunks, nil
}

type deleteVectorResponse struct {
	Success       bool   `json:"success"`
	ChunksDeleted int    `json:"chunks_deleted"`
	Error         string `json:"error"`
}

// DeleteVector removes an entry and every chunk under it from the
// vector index, returning the removed chunk count.
func (c *Client) DeleteVector(ctx context.Context, id string) (int, error) {
	var resp deleteVectorResponse
	path := "/api/kb/vectors/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "delete_vector", http.MethodDelete, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("delete vector %s: %w", id, err)
	}
	if !resp.Success {
		return 0, fmt.Errorf("delete vector %s: %w", id, domain.NewBackendError(0, resp.Error))
	}
	return resp.ChunksDeleted, nil
}

// parsePosition reads a chunk position reported as a bare ordinal
// string. Unparseable positions degrade to zero rather than failing
// the listing.
func parsePosition(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
