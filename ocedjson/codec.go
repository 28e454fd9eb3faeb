// Package ocedjson encodes OCED models as a single JSON document and
// decodes them back.
//
// The document carries the full event history plus a current-state
// snapshot. Decode rebuilds the model by replaying the events through the
// transaction runner (application is deterministic) and then cross-checks
// the transported snapshot against the replayed state, so a corrupted or
// hand-edited file fails loudly instead of loading a state that history
// cannot produce. Decode is all-or-nothing: any inconsistency yields a
// *oced.FormatError and no model.
package ocedjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/internal/fsatomic"
)

const formatName = "json"

// Encode serializes the model. Output is indented, ends with a newline,
// and is deterministic: struct fields keep declaration order and Go sorts
// map keys.
func Encode(m *oced.Model) ([]byte, error) {
	doc := wireModel{
		FormatVersion: FormatVersion,
		Events:        eventsToWire(m.Events()),
		CurrentState:  stateToWire(m.CurrentState()),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "encode model", Err: err}
	}
	return append(data, '\n'), nil
}

// Decode parses data and rebuilds the model by replay.
func Decode(data []byte) (*oced.Model, error) {
	var doc wireModel
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "parse document", Err: err}
	}
	return rebuild(doc)
}

// Dump writes the encoded model to path atomically. The path must end in
// .json.
func Dump(path string, m *oced.Model) error {
	if err := checkExtension(path); err != nil {
		return err
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := fsatomic.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dump %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the model at path. The path must end in .json.
func Load(path string) (*oced.Model, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Decode(data)
}

// MarshalQualifiers encodes an ordered qualifier batch as a compact JSON
// array. The event store uses this for payload columns.
func MarshalQualifiers(qs []oced.Qualifier) ([]byte, error) {
	data, err := json.Marshal(qualifiersToWire(qs))
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "encode qualifiers", Err: err}
	}
	return data, nil
}

// UnmarshalQualifiers decodes a JSON array produced by MarshalQualifiers.
func UnmarshalQualifiers(data []byte) ([]oced.Qualifier, error) {
	var wires []wireQualifier
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "parse qualifiers", Err: err}
	}
	qs, err := qualifiersFromWire(wires)
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "decode qualifiers", Err: err}
	}
	return qs, nil
}

func checkExtension(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		return fmt.Errorf("path %q does not end in .json", path)
	}
	return nil
}

func eventsToWire(events []oced.Event) []wireEvent {
	out := make([]wireEvent, len(events))
	for i, ev := range events {
		out[i] = wireEvent{
			EventID:    ev.ID,
			EventTime:  ev.Time,
			EventType:  ev.Type,
			Attributes: ev.Attributes,
			Qualifiers: qualifiersToWire(ev.Qualifiers),
		}
	}
	return out
}

func qualifiersFromWire(wires []wireQualifier) ([]oced.Qualifier, error) {
	qs := make([]oced.Qualifier, len(wires))
	for i, w := range wires {
		q, err := qualifierFromWire(w)
		if err != nil {
			return nil, fmt.Errorf("qualifier %d: %w", i, err)
		}
		qs[i] = q
	}
	return qs, nil
}

func stateFromWire(ws wireState) oced.CurrentState {
	cs := oced.CurrentState{
		Objects:         make(map[string]oced.Object, len(ws.Objects)),
		AttributeValues: make(map[string]oced.AttributeValue, len(ws.AttributeValues)),
		Relations:       make(map[string]oced.Relation, len(ws.Relations)),
	}
	for id, o := range ws.Objects {
		cs.Objects[id] = oced.Object{ID: id, Type: o.Type, Alive: o.Alive}
	}
	for id, v := range ws.AttributeValues {
		cs.AttributeValues[id] = oced.AttributeValue{
			ID:       id,
			ObjectID: v.ObjectID,
			Name:     v.Name,
			Value:    v.Value,
			Alive:    v.Alive,
		}
	}
	for id, r := range ws.Relations {
		cs.Relations[id] = oced.Relation{
			ID:           id,
			FromObjectID: r.FromObjectID,
			ToObjectID:   r.ToObjectID,
			Type:         r.Type,
			Alive:        r.Alive,
		}
	}
	return cs
}

// rebuild replays the decoded events into a fresh model and verifies the
// transported snapshot against the replayed state.
func rebuild(doc wireModel) (*oced.Model, error) {
	if doc.FormatVersion != FormatVersion {
		return nil, formatErrorf("unsupported format_version %d (want %d)", doc.FormatVersion, FormatVersion)
	}

	events := make([]oced.Event, len(doc.Events))
	for i, we := range doc.Events {
		qs, err := qualifiersFromWire(we.Qualifiers)
		if err != nil {
			return nil, &oced.FormatError{Format: formatName, Message: fmt.Sprintf("event %d", i), Err: err}
		}
		events[i] = oced.Event{
			ID:         we.EventID,
			Time:       we.EventTime,
			Type:       we.EventType,
			Attributes: we.Attributes,
			Qualifiers: qs,
		}
	}

	m, err := oced.ReplayEvents(events)
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "rebuild model", Err: err}
	}
	if err := oced.VerifySnapshot(stateFromWire(doc.CurrentState), m.CurrentState()); err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "verify current_state", Err: err}
	}
	return m, nil
}

func formatErrorf(format string, args ...any) *oced.FormatError {
	return &oced.FormatError{Format: formatName, Message: fmt.Sprintf(format, args...)}
}
