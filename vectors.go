package kbadmin

import (
	"context"
	"time"
)

// VectorService inspects and prunes the vector index directly.
type VectorService struct {
	c *Client
}

// List returns indexed chunks, up to limit. Zero means the default
// limit of 100.
func (s *VectorService) List(ctx context.Context, limit int) (out []VectorChunk, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("vector.list", start, err) }()

	chunks, err := s.c.vectorSvc.List(s.c.opCtx(ctx), limit)
	if err != nil {
		return nil, err
	}
	return fromDomainChunks(chunks), nil
}

// Delete removes all chunks of the given vector. A chunk ID resolves
// to its parent entry first, so the whole group goes at once.
func (s *VectorService) Delete(ctx context.Context, id string) (deleted int, err error) {
	start := time.Now()
	defer func() { s.c.obs.observe("vector.delete", start, err) }()

	return s.c.vectorSvc.Delete(s.c.opCtx(ctx), id)
}
