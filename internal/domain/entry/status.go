package entry

// Status is the entry lifecycle state in the document store.
type Status string

// Lifecycle states. Archived entries are excluded from live queries
// by construction; permanent deletion removes the row entirely.
const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// VectorStatus tracks consistency between the entry store and the
// vector index for one entry.
type VectorStatus string

// Vector sync states. No other value is ever observable.
const (
	VectorPending VectorStatus = "pending"
	VectorSynced  VectorStatus = "synced"
	VectorFailed  VectorStatus = "failed"
)
