package entry

import (
	"encoding/json"
	"time"
)

// SyncAction labels one event in an entry's sync history.
type SyncAction string

// Sync history actions.
const (
	ActionVectorSynced     SyncAction = "vector_synced"
	ActionVectorDeleted    SyncAction = "vector_deleted"
	ActionVectorSyncFailed SyncAction = "vector_sync_failed"
)

// SyncEvent is one record in the sync history.
type SyncEvent struct {
	Action    SyncAction `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
	Reason    string     `json:"reason,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// SyncLog is the append-only sync history of an entry. Prior events
// are never mutated or removed; the only write operation is Append.
type SyncLog struct {
	events []SyncEvent
}

// ReconstructLog hydrates a log from stored events.
func ReconstructLog(events []SyncEvent) SyncLog {
	return SyncLog{events: append([]SyncEvent(nil), events...)}
}

// Append adds an event to the end of the log.
func (l *SyncLog) Append(e SyncEvent) {
	l.events = append(l.events, e)
}

// Events returns a copy of the recorded events in append order.
func (l *SyncLog) Events() []SyncEvent {
	return append([]SyncEvent(nil), l.events...)
}

// Len returns the number of recorded events.
func (l *SyncLog) Len() int { return len(l.events) }

// Last returns the most recent event, if any.
func (l *SyncLog) Last() (SyncEvent, bool) {
	if len(l.events) == 0 {
		return SyncEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// MarshalJSON serializes the log as a plain event array.
func (l SyncLog) MarshalJSON() ([]byte, error) {
	if l.events == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.events)
}

// UnmarshalJSON hydrates the log from a stored event array.
func (l *SyncLog) UnmarshalJSON(data []byte) error {
	var events []SyncEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return err
	}
	l.events = events
	return nil
}
