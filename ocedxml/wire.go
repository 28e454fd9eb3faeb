package ocedxml

import (
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/objectcentric/oced"
)

// FormatVersion is the wire revision this package reads and writes.
// Decode rejects any other value.
const FormatVersion = 1

// Wire structs are deliberately separate from the domain structs so the
// file layout can evolve without touching the model API. Everything rides
// on XML attributes except event attribute text, which is character data.
// Empty wrapper elements are not written; absent and empty are equivalent
// on the wire.

type xmlModel struct {
	XMLName xml.Name   `xml:"oced"`
	Version int        `xml:"version,attr"`
	Events  []xmlEvent `xml:"event"`
	State   xmlState   `xml:"current_state"`
}

type xmlEvent struct {
	ID         int64          `xml:"id,attr"`
	Time       string         `xml:"time,attr"`
	Type       string         `xml:"type,attr"`
	Attributes []xmlAttribute `xml:"attributes>attribute"`
	Qualifiers []xmlQualifier `xml:"qualifiers>qualifier"`
}

type xmlAttribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// xmlQualifier is the union of every variant's fields; kind decides which
// ones are meaningful.
type xmlQualifier struct {
	Kind         string `xml:"kind,attr"`
	ObjectID     string `xml:"object_id,attr,omitempty"`
	ObjectType   string `xml:"object_type,attr,omitempty"`
	ValueID      string `xml:"value_id,attr,omitempty"`
	Name         string `xml:"name,attr,omitempty"`
	Value        string `xml:"value,attr,omitempty"`
	NewValue     string `xml:"new_value,attr,omitempty"`
	RelationID   string `xml:"relation_id,attr,omitempty"`
	FromObjectID string `xml:"from_object_id,attr,omitempty"`
	ToObjectID   string `xml:"to_object_id,attr,omitempty"`
	RelationType string `xml:"relation_type,attr,omitempty"`
	NewType      string `xml:"new_type,attr,omitempty"`
}

type xmlState struct {
	Objects         []xmlObject         `xml:"object"`
	AttributeValues []xmlAttributeValue `xml:"attribute_value"`
	Relations       []xmlRelation       `xml:"relation"`
}

type xmlObject struct {
	ID    string `xml:"id,attr"`
	Type  string `xml:"type,attr"`
	Alive bool   `xml:"alive,attr"`
}

type xmlAttributeValue struct {
	ID       string `xml:"id,attr"`
	ObjectID string `xml:"object_id,attr"`
	Name     string `xml:"name,attr"`
	Value    string `xml:"value,attr"`
	Alive    bool   `xml:"alive,attr"`
}

type xmlRelation struct {
	ID           string `xml:"id,attr"`
	FromObjectID string `xml:"from_object_id,attr"`
	ToObjectID   string `xml:"to_object_id,attr"`
	Type         string `xml:"type,attr"`
	Alive        bool   `xml:"alive,attr"`
}

func qualifierToXML(q oced.Qualifier) xmlQualifier {
	w := xmlQualifier{Kind: string(q.Kind())}
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

func qualifierFromXML(w xmlQualifier) (oced.Qualifier, error) {
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

func attributesToXML(attrs map[string]string) []xmlAttribute {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]xmlAttribute, len(names))
	for i, name := range names {
		out[i] = xmlAttribute{Name: name, Value: attrs[name]}
	}
	return out
}

func attributesFromXML(wires []xmlAttribute) (map[string]string, error) {
	attrs := make(map[string]string, len(wires))
	for _, a := range wires {
		if _, dup := attrs[a.Name]; dup {
			return nil, fmt.Errorf("duplicate attribute %q", a.Name)
		}
		attrs[a.Name] = a.Value
	}
	return attrs, nil
}

// stateToXML flattens the snapshot into id-sorted lists so output is
// deterministic.
func stateToXML(cs oced.CurrentState) xmlState {
	st := xmlState{
		Objects:         make([]xmlObject, 0, len(cs.Objects)),
		AttributeValues: make([]xmlAttributeValue, 0, len(cs.AttributeValues)),
		Relations:       make([]xmlRelation, 0, len(cs.Relations)),
	}
	for _, o := range cs.Objects {
		st.Objects = append(st.Objects, xmlObject{ID: o.ID, Type: o.Type, Alive: o.Alive})
	}
	for _, v := range cs.AttributeValues {
		st.AttributeValues = append(st.AttributeValues, xmlAttributeValue{
			ID:       v.ID,
			ObjectID: v.ObjectID,
			Name:     v.Name,
			Value:    v.Value,
			Alive:    v.Alive,
		})
	}
	for _, r := range cs.Relations {
		st.Relations = append(st.Relations, xmlRelation{
			ID:           r.ID,
			FromObjectID: r.FromObjectID,
			ToObjectID:   r.ToObjectID,
			Type:         r.Type,
			Alive:        r.Alive,
		})
	}
	sort.Slice(st.Objects, func(i, j int) bool { return st.Objects[i].ID < st.Objects[j].ID })
	sort.Slice(st.AttributeValues, func(i, j int) bool { return st.AttributeValues[i].ID < st.AttributeValues[j].ID })
	sort.Slice(st.Relations, func(i, j int) bool { return st.Relations[i].ID < st.Relations[j].ID })
	return st
}

func stateFromXML(st xmlState) (oced.CurrentState, error) {
	cs := oced.CurrentState{
		Objects:         make(map[string]oced.Object, len(st.Objects)),
		AttributeValues: make(map[string]oced.AttributeValue, len(st.AttributeValues)),
		Relations:       make(map[string]oced.Relation, len(st.Relations)),
	}
	for _, o := range st.Objects {
		if _, dup := cs.Objects[o.ID]; dup {
			return oced.CurrentState{}, fmt.Errorf("duplicate object id %q in current_state", o.ID)
		}
		cs.Objects[o.ID] = oced.Object{ID: o.ID, Type: o.Type, Alive: o.Alive}
	}
	for _, v := range st.AttributeValues {
		if _, dup := cs.AttributeValues[v.ID]; dup {
			return oced.CurrentState{}, fmt.Errorf("duplicate attribute value id %q in current_state", v.ID)
		}
		cs.AttributeValues[v.ID] = oced.AttributeValue{
			ID:       v.ID,
			ObjectID: v.ObjectID,
			Name:     v.Name,
			Value:    v.Value,
			Alive:    v.Alive,
		}
	}
	for _, r := range st.Relations {
		if _, dup := cs.Relations[r.ID]; dup {
			return oced.CurrentState{}, fmt.Errorf("duplicate relation id %q in current_state", r.ID)
		}
		cs.Relations[r.ID] = oced.Relation{
			ID:           r.ID,
			FromObjectID: r.FromObjectID,
			ToObjectID:   r.ToObjectID,
			Type:         r.Type,
			Alive:        r.Alive,
		}
	}
	return cs, nil
}
