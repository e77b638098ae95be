package kbadmin

import "time"

// EntryType discriminates the three entry kinds.
type EntryType string

const (
	TypeDefinition EntryType = "definition"
	TypeHowTo      EntryType = "how_to"
	TypeError      EntryType = "error"
)

// Entry statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Vector sync states.
const (
	VectorPending = "pending"
	VectorSynced  = "synced"
	VectorFailed  = "failed"
)

// Form is the structured payload of an entry. Implemented by
// DefinitionForm, HowToForm and ErrorForm; the set is closed.
type Form interface {
	formType() EntryType
}

// DefinitionForm is the payload of a definition entry.
type DefinitionForm struct {
	Term         string
	Definition   string
	Examples     string
	AlsoKnownAs  string
	RelatedLinks []string
}

func (DefinitionForm) formType() EntryType { return TypeDefinition }

// Step process kinds for how-to entries.
const (
	StepTypeSingle = "single"
	StepTypeMulti  = "multi"
)

// Step is one step of a multi-step how-to guide.
type Step struct {
	Title           string
	Description     string
	Action          string
	ExpectedOutcome string
}

// HowToForm is the payload of a how-to entry.
type HowToForm struct {
	Title                 string
	Overview              string
	EstimatedTime         string
	Prerequisites         string
	StepType              string
	SingleStepDescription string
	Steps                 []Step
	CommonIssues          string
	Tips                  string
	RelatedLinks          []string
}

func (HowToForm) formType() EntryType { return TypeHowTo }

// Cause is one troubleshooting cause of an error entry.
type Cause struct {
	Description string
	Solution    string
	RelatedHelp string
}

// ErrorForm is the payload of an error entry.
type ErrorForm struct {
	IssueTitle       string
	IssueDescription string
	ErrorCode        string
	Causes           []Cause
}

func (ErrorForm) formType() EntryType { return TypeError }

// Metadata classifies an entry.
type Metadata struct {
	UserType    string
	Product     string
	Category    string
	Subcategory string
	Tags        []string
}

// Actor identifies who performed an operation.
type Actor struct {
	ID    string
	Email string
	Name  string
}

// SyncEvent is one record in an entry's sync history.
type SyncEvent struct {
	Action    string
	Timestamp time.Time
	Reason    string
	Error     string
}

// Entry is a knowledge-base record as seen by the client.
type Entry struct {
	ID      string
	Type    EntryType
	Title   string
	Content string
	Form    Form

	Metadata Metadata

	CreatedBy      Actor
	CreatedAt      time.Time
	LastModifiedBy Actor
	LastModifiedAt time.Time

	Status         string
	ArchivedBy     Actor
	ArchivedAt     time.Time
	ArchivedReason string

	VectorStatus string
	LastSyncedAt *time.Time
	SyncError    string
	SyncHistory  []SyncEvent
}

// Archived reports whether the entry is out of the active set.
func (e Entry) Archived() bool { return e.Status == StatusArchived }

// DuplicateCandidate is an existing entry similar to a draft.
type DuplicateCandidate struct {
	ID             string
	Title          string
	Type           EntryType
	Category       string
	ContentSnippet string
	Score          float64
	CreatedAt      time.Time
}

// VectorChunk is one indexed chunk of an entry.
type VectorChunk struct {
	ID             string
	ParentID       string
	ParentTitle    string
	Section        string
	Position       int
	TotalChunks    int
	ContentPreview string
}

// BulkResult is the outcome for one entry of a bulk operation.
type BulkResult struct {
	ID  string
	OK  bool
	Err error
}

// BulkSummary aggregates a bulk run.
type BulkSummary struct {
	Succeeded      int
	Failed         int
	VectorsDeleted int
	VectorsFailed  int
}

// SyncResult reports a completed vector sync.
type SyncResult struct {
	EntryID       string
	ChunksCreated int
}
