// Package ocedxml encodes OCED models as a single XML document and
// decodes them back.
//
// The document mirrors the JSON layout: full event history plus a
// current-state snapshot, with the snapshot flattened into id-sorted
// element lists. Decode rebuilds the model by replaying the events and
// cross-checks the transported snapshot against the replayed state, the
// same all-or-nothing contract as the JSON codec: any inconsistency
// yields a *oced.FormatError and no model.
package ocedxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/internal/fsatomic"
)

const formatName = "xml"

// Encode serializes the model. Output starts with the standard XML
// header, is indented, ends with a newline, and is deterministic: event
// attributes are written name-sorted and snapshot entities id-sorted.
func Encode(m *oced.Model) ([]byte, error) {
	doc := xmlModel{
		Version: FormatVersion,
		Events:  eventsToXML(m.Events()),
		State:   stateToXML(m.CurrentState()),
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "encode model", Err: err}
	}
	data := make([]byte, 0, len(xml.Header)+len(body)+1)
	data = append(data, xml.Header...)
	data = append(data, body...)
	data = append(data, '\n')
	return data, nil
}

// Decode parses data and rebuilds the model by replay.
func Decode(data []byte) (*oced.Model, error) {
	var doc xmlModel
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "parse document", Err: err}
	}
	return rebuild(doc)
}

// Dump writes the encoded model to path atomically. The path must end in
// .xml.
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

// Load reads and decodes the model at path. The path must end in .xml.
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

func checkExtension(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".xml" {
		return fmt.Errorf("path %q does not end in .xml", path)
	}
	return nil
}

func eventsToXML(events []oced.Event) []xmlEvent {
	out := make([]xmlEvent, len(events))
	for i, ev := range events {
		out[i] = xmlEvent{
			ID:         ev.ID,
			Time:       ev.Time,
			Type:       ev.Type,
			Attributes: attributesToXML(ev.Attributes),
			Qualifiers: qualifiersToXML(ev.Qualifiers),
		}
	}
	return out
}

func qualifiersToXML(qs []oced.Qualifier) []xmlQualifier {
	out := make([]xmlQualifier, len(qs))
	for i, q := range qs {
		out[i] = qualifierToXML(q)
	}
	return out
}

func qualifiersFromXML(wires []xmlQualifier) ([]oced.Qualifier, error) {
	qs := make([]oced.Qualifier, len(wires))
	for i, w := range wires {
		q, err := qualifierFromXML(w)
		if err != nil {
			return nil, fmt.Errorf("qualifier %d: %w", i, err)
		}
		qs[i] = q
	}
	return qs, nil
}

// rebuild replays the decoded events into a fresh model and verifies the
// transported snapshot against the replayed state.
func rebuild(doc xmlModel) (*oced.Model, error) {
	if doc.Version != FormatVersion {
		return nil, formatErrorf("unsupported version %d (want %d)", doc.Version, FormatVersion)
	}

	events := make([]oced.Event, len(doc.Events))
	for i, we := range doc.Events {
		attrs, err := attributesFromXML(we.Attributes)
		if err != nil {
			return nil, &oced.FormatError{Format: formatName, Message: fmt.Sprintf("event %d", i), Err: err}
		}
		qs, err := qualifiersFromXML(we.Qualifiers)
		if err != nil {
			return nil, &oced.FormatError{Format: formatName, Message: fmt.Sprintf("event %d", i), Err: err}
		}
		events[i] = oced.Event{
			ID:         we.ID,
			Time:       we.Time,
			Type:       we.Type,
			Attributes: attrs,
			Qualifiers: qs,
		}
	}

	snapshot, err := stateFromXML(doc.State)
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "decode current_state", Err: err}
	}

	m, err := oced.ReplayEvents(events)
	if err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "rebuild model", Err: err}
	}
	if err := oced.VerifySnapshot(snapshot, m.CurrentState()); err != nil {
		return nil, &oced.FormatError{Format: formatName, Message: "verify current_state", Err: err}
	}
	return m, nil
}

func formatErrorf(format string, args ...any) *oced.FormatError {
	return &oced.FormatError{Format: formatName, Message: fmt.Sprintf(format, args...)}
}
