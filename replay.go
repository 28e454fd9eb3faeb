package oced

import (
	"fmt"
	"sort"
)

// ReplayEvents builds a model by inserting an exported event history in
// order. Ids must be contiguous from zero and every event must commit
// under the usual validation rules; a history that fails either check was
// not produced by this package, or was edited afterwards.
//
// Codecs and stores use this to rebuild a model from transported data
// instead of trusting the data's own bookkeeping.
func ReplayEvents(events []Event) (*Model, error) {
	m := New()
	for i, ev := range events {
		if ev.ID != int64(i) {
			return nil, fmt.Errorf("event at position %d has id %d, want %d", i, ev.ID, i)
		}
		if _, err := m.InsertEvent(ev.Time, ev.Type, ev.Qualifiers, ev.Attributes); err != nil {
			return nil, fmt.Errorf("event %d does not replay: %w", i, err)
		}
	}
	return m, nil
}

// VerifySnapshot compares a transported current-state snapshot against
// the state replay produced. Replay is the source of truth; the snapshot
// is a checksum of it. Returns the first mismatch, scanning entities in
// sorted id order so the report is deterministic.
func VerifySnapshot(snapshot, replayed CurrentState) error {
	if len(snapshot.Objects) != len(replayed.Objects) {
		return fmt.Errorf("snapshot carries %d objects, replay produced %d",
			len(snapshot.Objects), len(replayed.Objects))
	}
	for _, id := range sortedKeys(snapshot.Objects) {
		got, ok := replayed.Objects[id]
		if !ok || got != snapshot.Objects[id] {
			return fmt.Errorf("snapshot object %q does not match replayed state", id)
		}
	}

	if len(snapshot.AttributeValues) != len(replayed.AttributeValues) {
		return fmt.Errorf("snapshot carries %d attribute values, replay produced %d",
			len(snapshot.AttributeValues), len(replayed.AttributeValues))
	}
	for _, id := range sortedKeys(snapshot.AttributeValues) {
		got, ok := replayed.AttributeValues[id]
		if !ok || got != snapshot.AttributeValues[id] {
			return fmt.Errorf("snapshot attribute value %q does not match replayed state", id)
		}
	}

	if len(snapshot.Relations) != len(replayed.Relations) {
		return fmt.Errorf("snapshot carries %d relations, replay produced %d",
			len(snapshot.Relations), len(replayed.Relations))
	}
	for _, id := range sortedKeys(snapshot.Relations) {
		got, ok := replayed.Relations[id]
		if !ok || got != snapshot.Relations[id] {
			return fmt.Errorf("snapshot relation %q does not match replayed state", id)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
