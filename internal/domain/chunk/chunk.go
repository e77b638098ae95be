// Package chunk models vector-index fragments of knowledge entries.
package chunk

import "strings"

// idSeparator joins a parent entry ID and a chunk ordinal in a chunk ID,
// e.g. "abc123_chunk_2".
const idSeparator = "_chunk_"

// Chunk is one embeddable fragment of an entry's canonical content
// held in the vector index.
type Chunk struct {
	ID             string
	ParentID       string
	ParentTitle    string
	Section        string
	Position       int
	TotalChunks    int
	ContentPreview string
}

// IsChunkID reports whether id names a chunk rather than a parent entry.
func IsChunkID(id string) bool {
	return strings.Contains(id, idSeparator)
}

// ParentID resolves either a parent entry ID or a chunk ID to the
// parent entry ID. Parent IDs pass through unchanged.
func ParentID(id string) string {
	if i := strings.Index(id, idSeparator); i >= 0 {
		return id[:i]
	}
	return id
}

// Parents collapses a selection of parent-or-chunk IDs to the unique
// parent IDs, preserving first-seen order. Bulk UIs routinely select
// several chunks of one entry; the entry must still be addressed once.
func Parents(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	parents := make([]string, 0, len(ids))
	for _, id := range ids {
		p := ParentID(id)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		parents = append(parents, p)
	}
	return parents
}
