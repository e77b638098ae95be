// Package duplicate models transient similarity-check results.
package duplicate

import (
	"sort"
	"time"

	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Candidate is one similar existing entry found before a create.
// Candidates are advisory and never persisted.
type Candidate struct {
	ID             string
	Title          string
	Type           entry.Type
	Category       string
	ContentSnippet string
	Score          float64 // similarity in [0,1]
	CreatedAt      time.Time
}

// SortByScore orders candidates by similarity descending, stable for
// equal scores.
func SortByScore(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Score > cs[j].Score
	})
}
