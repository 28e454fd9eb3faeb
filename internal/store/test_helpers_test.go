package store

import (
	"path/filepath"
	"testing"

	"github.com/objectcentric/oced"
)

// createTestStore creates a store backed by a throwaway database file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEvent builds an event row with empty payloads.
func createTestEvent(id int64, eventTime, eventType string) oced.Event {
	return oced.Event{
		ID:         id,
		Time:       eventTime,
		Type:       eventType,
		Attributes: map[string]string{},
		Qualifiers: []oced.Qualifier{},
	}
}

// createTestModel commits a small history touching objects, values, and
// relations.
func createTestModel(t *testing.T) *oced.Model {
	t.Helper()
	m := oced.New()
	insert := func(ts, typ string, qs []oced.Qualifier, attrs map[string]string) {
		t.Helper()
		if _, err := m.InsertEvent(ts, typ, qs, attrs); err != nil {
			t.Fatalf("InsertEvent(%s) failed: %v", typ, err)
		}
	}

	insert("2024-01-01T00:00:00Z", "order_created", []oced.Qualifier{
		oced.CreateObject{ObjectID: "o1", ObjectType: "order"},
		oced.CreateAttributeValue{ValueID: "v1", ObjectID: "o1", Name: "total", Value: "90"},
	}, map[string]string{"channel": "web"})
	insert("2024-01-01T00:00:01Z", "item_added", []oced.Qualifier{
		oced.CreateObject{ObjectID: "o2", ObjectType: "item"},
		oced.CreateRelation{RelationID: "r1", FromObjectID: "o1", ToObjectID: "o2", RelationType: "contains"},
	}, nil)
	insert("2024-01-01T00:00:02Z", "item_removed", []oced.Qualifier{
		oced.DeleteRelation{RelationID: "r1"},
	}, nil)
	return m
}
