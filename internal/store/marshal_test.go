package store

import (
	"reflect"
	"testing"

	"github.com/objectcentric/oced"
)

func TestMarshalAttributes_Canonical(t *testing.T) {
	got, err := marshalAttributes(map[string]string{
		"zebra": "z",
		"apple": "a",
	})
	if err != nil {
		t.Fatalf("marshalAttributes() failed: %v", err)
	}
	want := `{"apple":"a","zebra":"z"}`
	if got != want {
		t.Errorf("marshalAttributes() = %q, want %q", got, want)
	}
}

func TestMarshalAttributes_Empty(t *testing.T) {
	got, err := marshalAttributes(map[string]string{})
	if err != nil {
		t.Fatalf("marshalAttributes() failed: %v", err)
	}
	if got != "{}" {
		t.Errorf("marshalAttributes() = %q, want %q", got, "{}")
	}
}

func TestUnmarshalAttributes_RoundTrip(t *testing.T) {
	attrs := map[string]string{"channel": "web", "note": "a \"quoted\" value"}

	text, err := marshalAttributes(attrs)
	if err != nil {
		t.Fatalf("marshalAttributes() failed: %v", err)
	}
	got, err := unmarshalAttributes(text)
	if err != nil {
		t.Fatalf("unmarshalAttributes() failed: %v", err)
	}
	if !reflect.DeepEqual(got, attrs) {
		t.Errorf("round trip = %v, want %v", got, attrs)
	}
}

func TestUnmarshalAttributes_EmptyObjectNotNil(t *testing.T) {
	got, err := unmarshalAttributes("{}")
	if err != nil {
		t.Fatalf("unmarshalAttributes() failed: %v", err)
	}
	if got == nil {
		t.Error("unmarshalAttributes() returned nil map, want empty map")
	}
}

func TestMarshalQualifiers_Canonical(t *testing.T) {
	got, err := marshalQualifiers([]oced.Qualifier{
		oced.CreateRelation{RelationID: "r1", FromObjectID: "o1", ToObjectID: "o2", RelationType: "contains"},
	})
	if err != nil {
		t.Fatalf("marshalQualifiers() failed: %v", err)
	}
	// Keys sorted alphabetically within each qualifier object
	want := `[{"from_object_id":"o1","kind":"create_relation","relation_id":"r1","relation_type":"contains","to_object_id":"o2"}]`
	if got != want {
		t.Errorf("marshalQualifiers() = %q, want %q", got, want)
	}
}

func TestMarshalQualifiers_EmptyBatch(t *testing.T) {
	got, err := marshalQualifiers(nil)
	if err != nil {
		t.Fatalf("marshalQualifiers() failed: %v", err)
	}
	if got != "[]" {
		t.Errorf("marshalQualifiers() = %q, want %q", got, "[]")
	}
}

func TestUnmarshalQualifiers_RoundTrip(t *testing.T) {
	qs := []oced.Qualifier{
		oced.CreateObject{ObjectID: "o1", ObjectType: "order"},
		oced.InvolveObject{ObjectID: "o1"},
		oced.DeleteAttributeValue{ValueID: "v1"},
	}

	text, err := marshalQualifiers(qs)
	if err != nil {
		t.Fatalf("marshalQualifiers() failed: %v", err)
	}
	got, err := unmarshalQualifiers(text)
	if err != nil {
		t.Fatalf("unmarshalQualifiers() failed: %v", err)
	}
	if !reflect.DeepEqual(got, qs) {
		t.Errorf("round trip = %#v, want %#v", got, qs)
	}
}
