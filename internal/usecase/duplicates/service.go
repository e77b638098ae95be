// Package duplicates runs the pre-create similarity check. The check
// is advisory: when the backend cannot answer, creation proceeds.
package duplicates

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/domain/duplicate"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
	"github.com/kailas-cloud/kbadmin/internal/logger"
	"github.com/kailas-cloud/kbadmin/internal/metrics"
)

// Checker asks the backend for entries similar to the given draft.
type Checker interface {
	CheckDuplicates(ctx context.Context, title, content string, t entry.Type) ([]duplicate.Candidate, error)
}

// Service wraps the backend duplicate check with fail-open semantics.
type Service struct {
	checker Checker
}

// New creates a duplicate detection service.
func New(checker Checker) *Service {
	return &Service{checker: checker}
}

// Check returns candidates sorted by similarity, best match first.
// A backend failure is logged and swallowed: a broken similarity
// service must never block entry creation.
func (s *Service) Check(ctx context.Context, title, content string, t entry.Type) []duplicate.Candidate {
	candidates, err := s.checker.CheckDuplicates(ctx, title, content, t)
	if err != nil {
		metrics.DuplicateChecksTotal.WithLabelValues("unavailable").Inc()
		logger.FromContext(ctx).Warn("duplicate check unavailable",
			zap.String("title", title),
			zap.Error(err))
		return nil
	}

	if len(candidates) == 0 {
		metrics.DuplicateChecksTotal.WithLabelValues("clean").Inc()
		return nil
	}

	duplicate.SortByScore(candidates)
	metrics.DuplicateChecksTotal.WithLabelValues("duplicates").Inc()
	return candidates
}
