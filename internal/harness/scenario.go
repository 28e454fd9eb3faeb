package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/objectcentric/oced"
)

// Scenario defines a conformance test scenario.
// Scenarios insert a sequence of events into a fresh model and assert on
// per-event outcomes and the final state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Events lists the events to insert, in order.
	Events []EventStep `yaml:"events"`

	// FinalState, if present, must match the model's state exactly after
	// all events ran: every listed id must be in the stated condition and
	// no unlisted ids may exist.
	FinalState *FinalState `yaml:"final_state,omitempty"`

	// EventCount, if present, is the expected number of committed events.
	EventCount *int `yaml:"event_count,omitempty"`
}

// EventStep is one event insertion attempt.
type EventStep struct {
	// Time is the event timestamp.
	Time string `yaml:"time"`

	// Type is the event type label.
	Type string `yaml:"type"`

	// Attributes are the event payload attributes.
	Attributes map[string]string `yaml:"attributes,omitempty"`

	// Qualifiers is the ordered batch for this event.
	Qualifiers []QualifierStep `yaml:"qualifiers,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the event is expected to commit.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// QualifierStep is the YAML form of a qualifier. Kind decides which of
// the remaining fields are meaningful.
type QualifierStep struct {
	Kind         string `yaml:"kind"`
	ObjectID     string `yaml:"object_id,omitempty"`
	ObjectType   string `yaml:"object_type,omitempty"`
	ValueID      string `yaml:"value_id,omitempty"`
	Name         string `yaml:"name,omitempty"`
	Value        string `yaml:"value,omitempty"`
	NewValue     string `yaml:"new_value,omitempty"`
	RelationID   string `yaml:"relation_id,omitempty"`
	FromObjectID string `yaml:"from_object_id,omitempty"`
	ToObjectID   string `yaml:"to_object_id,omitempty"`
	RelationType string `yaml:"relation_type,omitempty"`
	NewType      string `yaml:"new_type,omitempty"`
}

// ExpectClause specifies the expected outcome of an event insertion.
// Exactly one of Committed or Error must be set.
type ExpectClause struct {
	// Committed, if true, expects the event to commit.
	Committed bool `yaml:"committed,omitempty"`

	// Error is the expected rejection code (e.g. "DUPLICATE_CREATE").
	Error string `yaml:"error,omitempty"`

	// Index is the expected offending qualifier index. -1 means the
	// event envelope was rejected. If nil, the index is not checked.
	Index *int `yaml:"index,omitempty"`
}

// FinalState describes the complete expected state, partitioned into
// alive and tombstoned id sets per entity kind. Omitted lists mean "none
// expected".
type FinalState struct {
	AliveObjects        []string `yaml:"alive_objects,omitempty"`
	TombstonedObjects   []string `yaml:"tombstoned_objects,omitempty"`
	AliveValues         []string `yaml:"alive_values,omitempty"`
	TombstonedValues    []string `yaml:"tombstoned_values,omitempty"`
	AliveRelations      []string `yaml:"alive_relations,omitempty"`
	TombstonedRelations []string `yaml:"tombstoned_relations,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict parsing catches typos like "qualifier:" vs "qualifiers:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	for i, step := range s.Events {
		if step.Time == "" {
			return fmt.Errorf("events[%d]: time is required", i)
		}
		if step.Type == "" {
			return fmt.Errorf("events[%d]: type is required", i)
		}
		for j, q := range step.Qualifiers {
			if q.Kind == "" {
				return fmt.Errorf("events[%d].qualifiers[%d]: kind is required", i, j)
			}
			if _, err := q.toQualifier(); err != nil {
				return fmt.Errorf("events[%d].qualifiers[%d]: %w", i, j, err)
			}
		}
		if step.Expect != nil {
			if err := validateExpect(i, step.Expect); err != nil {
				return err
			}
		}
	}

	if s.EventCount != nil && *s.EventCount < 0 {
		return fmt.Errorf("event_count must be non-negative")
	}

	return nil
}

// validateExpect checks that an expect clause names exactly one outcome.
func validateExpect(index int, e *ExpectClause) error {
	if e.Committed && e.Error != "" {
		return fmt.Errorf("events[%d].expect: committed and error are mutually exclusive", index)
	}
	if !e.Committed && e.Error == "" {
		return fmt.Errorf("events[%d].expect: either committed or error is required", index)
	}
	if e.Index != nil {
		if e.Error == "" {
			return fmt.Errorf("events[%d].expect: index requires error", index)
		}
		if *e.Index < -1 {
			return fmt.Errorf("events[%d].expect: index must be >= -1", index)
		}
	}
	return nil
}

// toQualifier converts the YAML form into a model qualifier.
func (q QualifierStep) toQualifier() (oced.Qualifier, error) {
	switch oced.Kind(q.Kind) {
	case oced.KindCreateObject:
		return oced.CreateObject{ObjectID: q.ObjectID, ObjectType: q.ObjectType}, nil
	case oced.KindModifyObject:
		return oced.ModifyObject{ObjectID: q.ObjectID, NewType: q.NewType}, nil
	case oced.KindDeleteObject:
		return oced.DeleteObject{ObjectID: q.ObjectID}, nil
	case oced.KindInvolveObject:
		return oced.InvolveObject{ObjectID: q.ObjectID}, nil
	case oced.KindCreateAttributeValue:
		return oced.CreateAttributeValue{ValueID: q.ValueID, ObjectID: q.ObjectID, Name: q.Name, Value: q.Value}, nil
	case oced.KindModifyAttributeValue:
		return oced.ModifyAttributeValue{ValueID: q.ValueID, NewValue: q.NewValue}, nil
	case oced.KindDeleteAttributeValue:
		return oced.DeleteAttributeValue{ValueID: q.ValueID}, nil
	case oced.KindInvolveAttributeValue:
		return oced.InvolveAttributeValue{ValueID: q.ValueID}, nil
	case oced.KindCreateRelation:
		return oced.CreateRelation{RelationID: q.RelationID, FromObjectID: q.FromObjectID, ToObjectID: q.ToObjectID, RelationType: q.RelationType}, nil
	case oced.KindModifyRelation:
		return oced.ModifyRelation{RelationID: q.RelationID, NewType: q.NewType}, nil
	case oced.KindDeleteRelation:
		return oced.DeleteRelation{RelationID: q.RelationID}, nil
	case oced.KindInvolveRelation:
		return oced.InvolveRelation{RelationID: q.RelationID}, nil
	default:
		return nil, fmt.Errorf("unknown qualifier kind %q", q.Kind)
	}
}
