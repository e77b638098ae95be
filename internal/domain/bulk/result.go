// Package bulk models per-item outcomes of fan-out operations.
package bulk

// Result is the settled outcome of one item in a bulk operation.
// Items are keyed by ID, not by position: deduplication may collapse
// the caller's selection before dispatch.
type Result struct {
	ID  string
	OK  bool
	Err error
}

// NewOK creates a successful result.
func NewOK(id string) Result {
	return Result{ID: id, OK: true}
}

// NewError creates a failed result.
func NewError(id string, err error) Result {
	return Result{ID: id, Err: err}
}

// Summary aggregates settled results. Cascade vector deletions are
// counted separately from the primary operation.
type Summary struct {
	Succeeded      int
	Failed         int
	VectorsDeleted int
	VectorsFailed  int
}

// FailedIDs returns the IDs of failed items in dispatch order. These
// stay visible in the caller's active set rather than being dropped.
func FailedIDs(results []Result) []string {
	var ids []string
	for _, r := range results {
		if !r.OK {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// SucceededIDs returns the IDs of successful items in dispatch order.
func SucceededIDs(results []Result) []string {
	var ids []string
	for _, r := range results {
		if r.OK {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Summarize counts settled results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.OK {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
