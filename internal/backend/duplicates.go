package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain/duplicate"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

type duplicateCheckRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type similarEntryDTO struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	ContentSnippet  string  `json:"content_snippet"`
	CreatedAt       string  `json:"created_at"`
}

type duplicateCheckResponse struct {
	HasDuplicates  bool              `json:"has_duplicates"`
	SimilarEntries []similarEntryDTO `json:"similar_entries"`
}

// CheckDuplicates asks the backend for entries similar to the one
// about to be created. Errors propagate; the fail-open policy lives
// in the detector, not in the transport.
func (c *Client) CheckDuplicates(
	ctx context.Context, title, content string, t entry.Type,
) ([]duplicate.Candidate, error) {
	req := duplicateCheckRequest{Title: title, Content: content, Type: string(t)}

	var resp duplicateCheckResponse
	if err := c.doJSON(ctx, "check_duplicates", http.MethodPost, "/api/kb/check-duplicates", req, &resp); err != nil {
		return nil, fmt.Errorf("check duplicates: %w", err)
	}

	candidates := make([]duplicate.Candidate, 0, len(resp.SimilarEntries))
	for _, dto := range resp.SimilarEntries {
		cand := duplicate.Candidate{
			ID:             dto.ID,
			Title:          dto.Title,
			Type:           entry.Type(dto.Type),
			Category:       dto.Category,
			ContentSnippet: dto.ContentSnippet,
			Score:          dto.SimilarityScore,
		}
		if dto.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
				cand.CreatedAt = ts
			}
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}
