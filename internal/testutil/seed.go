package testutil

import (
	"path/filepath"
	"testing"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/ocedjson"
)

// SeedModel builds a small model shared by CLI and integration tests:
// an order o1 with a running total v1, an item o2 linked and unlinked
// through relation r1, and a trailing attribute-only audit event.
//
// The resulting state: o1 and o2 alive, v1 alive holding "95", r1
// tombstoned.
func SeedModel(t *testing.T) *oced.Model {
	t.Helper()

	seq := NewTimeSequence()
	m := oced.New()

	insert := func(eventType string, qs []oced.Qualifier, attrs map[string]string) {
		t.Helper()
		if _, err := m.InsertEvent(seq.Next(), eventType, qs, attrs); err != nil {
			t.Fatalf("InsertEvent(%s) failed: %v", eventType, err)
		}
	}

	insert("order_created", []oced.Qualifier{
		oced.CreateObject{ObjectID: "o1", ObjectType: "order"},
		oced.CreateAttributeValue{ValueID: "v1", ObjectID: "o1", Name: "total", Value: "90"},
	}, map[string]string{"channel": "web"})

	insert("item_added", []oced.Qualifier{
		oced.CreateObject{ObjectID: "o2", ObjectType: "item"},
		oced.CreateRelation{RelationID: "r1", FromObjectID: "o1", ToObjectID: "o2", RelationType: "contains"},
		oced.ModifyAttributeValue{ValueID: "v1", NewValue: "95"},
	}, nil)

	insert("item_removed", []oced.Qualifier{
		oced.DeleteRelation{RelationID: "r1"},
		oced.InvolveObject{ObjectID: "o2"},
	}, nil)

	insert("audit", nil, map[string]string{"auditor": "ops"})

	return m
}

// SeedModelFile writes the seed model to dir as JSON and returns the
// file path.
func SeedModelFile(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "model.json")
	if err := ocedjson.Dump(path, SeedModel(t)); err != nil {
		t.Fatalf("Dump() failed: %v", err)
	}
	return path
}
