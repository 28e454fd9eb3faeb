package oced

import (
	"sync"
	"time"
)

// timeLayouts are the accepted shapes for caller-supplied event times.
// Ordering between committed events is plain string comparison, so a log
// should stick to one layout throughout.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Model is the OCED facade: an append-only event log plus the materialized
// current state derived from it.
//
// The core contract is single-writer, but Model serializes writers and
// allows concurrent readers so it is safe for shared use. Readers always
// see a fully committed state, never a partially applied batch.
type Model struct {
	mu    sync.RWMutex
	state *stateStore
	log   *eventLog
}

// New returns an empty model: no events, no entities.
func New() *Model {
	return &Model{
		state: newStateStore(),
		log:   &eventLog{},
	}
}

// InsertEvent validates and commits one event. The qualifier batch is
// applied in order against a working copy of the current state; on success
// the event receives the next id, is appended to the log, and the working
// copy becomes the current state. On failure the returned error is a
// *ValidationError naming the offending qualifier index and code, and the
// model is left exactly as it was. The returned id is meaningless when err
// is non-nil.
//
// qualifiers and attributes are copied on the way in; the caller keeps
// ownership of what it passed.
func (m *Model) InsertEvent(eventTime, eventType string, qualifiers []Qualifier, attributes map[string]string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if verr := m.validateTime(eventTime); verr != nil {
		return 0, verr
	}

	next, verr := applyBatch(m.state, qualifiers)
	if verr != nil {
		return 0, verr
	}

	ev := Event{
		Time:       eventTime,
		Type:       eventType,
		Attributes: copyAttributes(attributes),
		Qualifiers: copyQualifiers(qualifiers),
	}
	id := m.log.append(ev)
	m.state = next
	return id, nil
}

// validateTime enforces the event envelope rules: the time must parse
// under one of the accepted layouts and must sort strictly after the
// previous committed event's time as text.
func (m *Model) validateTime(eventTime string) *ValidationError {
	if !parseableTime(eventTime) {
		return newValidationError(ErrCodeInvalidTimestamp, EnvelopeIndex,
			"cannot parse event time %q", eventTime)
	}
	if last, ok := m.log.lastTime(); ok && eventTime <= last {
		return newValidationError(ErrCodeInvalidTimestamp, EnvelopeIndex,
			"event time %q is not after the previous event time %q", eventTime, last)
	}
	return nil
}

func parseableTime(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Events returns the committed history, oldest first, as a deep copy.
func (m *Model) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.log.history()
}

// CurrentState returns the materialized state as a deep copy.
func (m *Model) CurrentState() CurrentState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.snapshot()
}

// EventCount returns the number of committed events, which is also the id
// the next event will receive.
func (m *Model) EventCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.log.nextID()
}

func copyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func copyQualifiers(qs []Qualifier) []Qualifier {
	out := make([]Qualifier, len(qs))
	copy(out, qs)
	return out
}
