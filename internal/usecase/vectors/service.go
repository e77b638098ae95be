// Package vectors inspects and prunes the vector index directly,
// without going through an entry.
package vectors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/domain/chunk"
	"github.com/kailas-cloud/kbadmin/internal/logger"
)

// Index is the backend's vector index surface.
type Index interface {
	ListVectors(ctx context.Context, limit int) ([]chunk.Chunk, error)
	DeleteVector(ctx context.Context, id string) (chunksDeleted int, err error)
}

// Service lists index contents and deletes vector groups.
type Service struct {
	index        Index
	defaultLimit int
	maxLimit     int
}

// New creates a vector index service.
func New(index Index) *Service {
	return &Service{index: index, defaultLimit: 100, maxLimit: 1000}
}

// WithLimits configures listing limits.
func (s *Service) WithLimits(def, max int) *Service {
	if def > 0 {
		s.defaultLimit = def
	}
	if max > 0 {
		s.maxLimit = max
	}
	return s
}

// List returns indexed chunks, up to limit. Zero means the default
// limit; anything above the maximum is clamped.
func (s *Service) List(ctx context.Context, limit int) ([]chunk.Chunk, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	chunks, err := s.index.ListVectors(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list vectors: %w", err)
	}
	return chunks, nil
}

// Delete removes all chunks belonging to the given vector ID. Chunk
// IDs are resolved to their parent first, so deleting one chunk
// removes the whole group, never a partial set.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	parent := chunk.ParentID(id)
	deleted, err := s.index.DeleteVector(ctx, parent)
	if err != nil {
		return 0, fmt.Errorf("delete vector %s: %w", parent, err)
	}

	logger.FromContext(ctx).Info("vector deleted",
		zap.String("vector_id", parent),
		zap.Int("chunks", deleted))
	return deleted, nil
}
