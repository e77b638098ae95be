// Package session holds the in-memory working set of entries loaded
// from the store. Local state changes only after the backend confirms
// a write, so the workspace never shows an entry in a state the
// backend did not accept.
package session

import (
	"sort"
	"sync"

	dombulk "github.com/kailas-cloud/kbadmin/internal/domain/bulk"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Workspace is a concurrency-safe view over the loaded entries. The
// active and archived sets are disjoint: applying an archive moves
// the entry between them.
type Workspace struct {
	mu         sync.RWMutex
	active     map[string]entry.Entry
	archived   map[string]entry.Entry
	submitting map[string]struct{}
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		active:     make(map[string]entry.Entry),
		archived:   make(map[string]entry.Entry),
		submitting: make(map[string]struct{}),
	}
}

// LoadActive replaces the active set.
func (w *Workspace) LoadActive(entries []entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = make(map[string]entry.Entry, len(entries))
	for _, e := range entries {
		w.active[e.ID] = e
	}
}

// LoadArchived replaces the archived set.
func (w *Workspace) LoadArchived(entries []entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.archived = make(map[string]entry.Entry, len(entries))
	for _, e := range entries {
		w.archived[e.ID] = e
	}
}

// Active returns active entries, newest first.
func (w *Workspace) Active() []entry.Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]entry.Entry, 0, len(w.active))
	for _, e := range w.active {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Archived returns archived entries, most recently archived first.
func (w *Workspace) Archived() []entry.Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]entry.Entry, 0, len(w.archived))
	for _, e := range w.archived {
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ArchivedAt.After(out[j].ArchivedAt)
	})
	return out
}

// Get looks the entry up in either set.
func (w *Workspace) Get(id string) (entry.Entry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if e, ok := w.active[id]; ok {
		return e, true
	}
	if e, ok := w.archived[id]; ok {
		return e, true
	}
	return entry.Entry{}, false
}

// BeginSubmit marks the entry as having a write in flight. It returns
// false if one is already in flight, blocking double submission.
func (w *Workspace) BeginSubmit(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.submitting[id]; busy {
		return false
	}
	w.submitting[id] = struct{}{}
	return true
}

// EndSubmit clears the in-flight mark.
func (w *Workspace) EndSubmit(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.submitting, id)
}

// ApplyCreated adds a freshly created entry to the active set.
func (w *Workspace) ApplyCreated(e entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active[e.ID] = e
}

// ApplyUpdated replaces the entry in whichever set holds it.
func (w *Workspace) ApplyUpdated(e entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.archived[e.ID]; ok && e.IsArchived() {
		w.archived[e.ID] = e
		return
	}
	w.active[e.ID] = e
}

// ApplyArchived moves the entry from the active to the archived set.
func (w *Workspace) ApplyArchived(e entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.active, e.ID)
	w.archived[e.ID] = e
}

// ApplyRestored moves the entry from the archived to the active set.
func (w *Workspace) ApplyRestored(e entry.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.archived, e.ID)
	w.active[e.ID] = e
}

// ApplyDeleted removes the entry from both sets.
func (w *Workspace) ApplyDeleted(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.active, id)
	delete(w.archived, id)
}

// ApplySettled applies a bulk outcome: only the entries whose result
// succeeded are moved by apply; failed ones stay where they were.
func (w *Workspace) ApplySettled(results []dombulk.Result, apply func(id string)) {
	for _, r := range results {
		if r.OK {
			apply(r.ID)
		}
	}
}
