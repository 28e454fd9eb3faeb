package ocedjson

import (
	"fmt"

	"github.com/objectcentric/oced"
)

// FormatVersion is the wire revision this package reads and writes.
// Decode rejects any other value.
const FormatVersion = 1

// Wire structs are deliberately separate from the domain structs so the
// file layout can evolve without touching the model API.

type wireModel struct {
	FormatVersion int         `json:"format_version"`
	Events        []wireEvent `json:"events"`
	CurrentState  wireState   `json:"current_state"`
}

type wireEvent struct {
	EventID    int64             `json:"event_id"`
	EventTime  string            `json:"event_time"`
	EventType  string            `json:"event_type"`
	Attributes map[string]string `json:"attributes"`
	Qualifiers []wireQualifier   `json:"qualifiers"`
}

// wireQualifier is the union of every variant's fields; kind decides which
// ones are meaningful. Empty strings and absent fields are equivalent on
// the wire (empty ids are legal).
type wireQualifier struct {
	Kind         string `json:"kind"`
	ObjectID     string `json:"object_id,omitempty"`
	ObjectType   string `json:"object_type,omitempty"`
	ValueID      string `json:"value_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Value        string `json:"value,omitempty"`
	NewValue     string `json:"new_value,omitempty"`
	RelationID   string `json:"relation_id,omitempty"`
	FromObjectID string `json:"from_object_id,omitempty"`
	ToObjectID   string `json:"to_object_id,omitempty"`
	RelationType string `json:"relation_type,omitempty"`
	NewType      string `json:"new_type,omitempty"`
}

type wireState struct {
	Objects         map[string]wireObject         `json:"objects"`
	AttributeValues map[string]wireAttributeValue `json:"attribute_values"`
	Relations       map[string]wireRelation       `json:"relations"`
}

type wireObject struct {
	Type  string `json:"type"`
	Alive bool   `json:"alive"`
}

type wireAttributeValue struct {
	ObjectID string `json:"object_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Alive    bool   `json:"alive"`
}

type wireRelation struct {
	FromObjectID string `json:"from_object_id"`
	ToObjectID   string `json:"to_object_id"`
	Type         string `json:"type"`
	Alive        bool   `json:"alive"`
}

func qualifierToWire(q oced.Qualifier) wireQualifier {
	w := wireQualifier{Kind: string(q.Kind())}
	switch q := q.(type) {
	case oced.CreateObject:
		w.ObjectID = q.ObjectID
		w.ObjectType = q.ObjectType
	case oced.ModifyObject:
		w.ObjectID = q.ObjectID
		w.NewType = q.NewType
	case oced.DeleteObject:
		w.ObjectID = q.ObjectID
	case oced.InvolveObject:
		w.ObjectID = q.ObjectID
	case oced.CreateAttributeValue:
		w.ObjectID = q.ObjectID
		w.ValueID = q.ValueID
		w.Name = q.Name
		w.Value = q.Value
	case oced.ModifyAttributeValue:
		w.ValueID = q.ValueID
		w.NewValue = q.NewValue
	case oced.DeleteAttributeValue:
		w.ValueID = q.ValueID
	case oced.InvolveAttributeValue:
		w.ValueID = q.ValueID
	case oced.CreateRelation:
		w.RelationID = q.RelationID
		w.FromObjectID = q.FromObjectID
		w.ToObjectID = q.ToObjectID
		w.RelationType = q.RelationType
	case oced.ModifyRelation:
		w.RelationID = q.RelationID
		w.NewType = q.NewType
	case oced.DeleteRelation:
		w.RelationID = q.RelationID
	case oced.InvolveRelation:
		w.RelationID = q.RelationID
	}
	return w
}

func qualifierFromWire(w wireQualifier) (oced.Qualifier, error) {
	switch oced.Kind(w.Kind) {
	case oced.KindCreateObject:
		return oced.CreateObject{ObjectID: w.ObjectID, ObjectType: w.ObjectType}, nil
	case oced.KindModifyObject:
		return oced.ModifyObject{ObjectID: w.ObjectID, NewType: w.NewType}, nil
	case oced.KindDeleteObject:
		return oced.DeleteObject{ObjectID: w.ObjectID}, nil
	case oced.KindInvolveObject:
		return oced.InvolveObject{ObjectID: w.ObjectID}, nil
	case oced.KindCreateAttributeValue:
		return oced.CreateAttributeValue{ValueID: w.ValueID, ObjectID: w.ObjectID, Name: w.Name, Value: w.Value}, nil
	case oced.KindModifyAttributeValue:
		return oced.ModifyAttributeValue{ValueID: w.ValueID, NewValue: w.NewValue}, nil
	case oced.KindDeleteAttributeValue:
		return oced.DeleteAttributeValue{ValueID: w.ValueID}, nil
	case oced.KindInvolveAttributeValue:
		return oced.InvolveAttributeValue{ValueID: w.ValueID}, nil
	case oced.KindCreateRelation:
		return oced.CreateRelation{RelationID: w.RelationID, FromObjectID: w.FromObjectID, ToObjectID: w.ToObjectID, RelationType: w.RelationType}, nil
	case oced.KindModifyRelation:
		return oced.ModifyRelation{RelationID: w.RelationID, NewType: w.NewType}, nil
	case oced.KindDeleteRelation:
		return oced.DeleteRelation{RelationID: w.RelationID}, nil
	case oced.KindInvolveRelation:
		return oced.InvolveRelation{RelationID: w.RelationID}, nil
	default:
		return nil, fmt.Errorf("unknown qualifier kind %q", w.Kind)
	}
}

func qualifiersToWire(qs []oced.Qualifier) []wireQualifier {
	out := make([]wireQualifier, len(qs))
	for i, q := range qs {
		out[i] = qualifierToWire(q)
	}
	return out
}

func stateToWire(cs oced.CurrentState) wireState {
	ws := wireState{
		Objects:         make(map[string]wireObject, len(cs.Objects)),
		AttributeValues: make(map[string]wireAttributeValue, len(cs.AttributeValues)),
		Relations:       make(map[string]wireRelation, len(cs.Relations)),
	}
	for id, o := range cs.Objects {
		ws.Objects[id] = wireObject{Type: o.Type, Alive: o.Alive}
	}
	for id, v := range cs.AttributeValues {
		ws.AttributeValues[id] = wireAttributeValue{
			ObjectID: v.ObjectID,
			Name:     v.Name,
			Value:    v.Value,
			Alive:    v.Alive,
		}
	}
	for id, r := range cs.Relations {
		ws.Relations[id] = wireRelation{
			FromObjectID: r.FromObjectID,
			ToObjectID:   r.ToObjectID,
			Type:         r.Type,
			Alive:        r.Alive,
		}
	}
	return ws
}
