package store

import (
	"context"
	"strings"
	"testing"

	"github.com/objectcentric/oced"
)

func TestAppendEvent_Basic(t *testing.T) {
	s := createTestStore(t)

	ev := oced.Event{
		ID:         0,
		Time:       "2024-01-01T00:00:00Z",
		Type:       "order_created",
		Attributes: map[string]string{"channel": "web"},
		Qualifiers: []oced.Qualifier{
			oced.CreateObject{ObjectID: "o1", ObjectType: "order"},
		},
	}

	if err := s.AppendEvent(context.Background(), ev); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}

	// Verify stored correctly
	var eventTime, eventType, attrsJSON string
	err := s.db.QueryRow(`
		SELECT event_time, event_type, attributes
		FROM events
		WHERE event_id = ?
	`, ev.ID).Scan(&eventTime, &eventType, &attrsJSON)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if eventTime != ev.Time {
		t.Errorf("event_time = %q, want %q", eventTime, ev.Time)
	}
	if eventType != ev.Type {
		t.Errorf("event_type = %q, want %q", eventType, ev.Type)
	}
	if attrsJSON != `{"channel":"web"}` {
		t.Errorf("attributes = %q, want %q", attrsJSON, `{"channel":"web"}`)
	}
}

func TestAppendEvent_CanonicalJSON(t *testing.T) {
	s := createTestStore(t)

	ev := oced.Event{
		ID:   0,
		Time: "2024-01-01T00:00:00Z",
		Type: "t",
		Attributes: map[string]string{
			"zebra": "z",
			"apple": "a",
			"mango": "m",
		},
		Qualifiers: []oced.Qualifier{
			oced.ModifyAttributeValue{ValueID: "v1", NewValue: "95"},
		},
	}

	if err := s.AppendEvent(context.Background(), ev); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}

	var attrsJSON, qualsJSON string
	err := s.db.QueryRow(
		"SELECT attributes, qualifiers FROM events WHERE event_id = ?", ev.ID,
	).Scan(&attrsJSON, &qualsJSON)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	// Canonical JSON has keys sorted alphabetically
	wantAttrs := `{"apple":"a","mango":"m","zebra":"z"}`
	if attrsJSON != wantAttrs {
		t.Errorf("attributes = %q, want %q (canonical order)", attrsJSON, wantAttrs)
	}
	wantQuals := `[{"kind":"modify_attribute_value","new_value":"95","value_id":"v1"}]`
	if qualsJSON != wantQuals {
		t.Errorf("qualifiers = %q, want %q (canonical order)", qualsJSON, wantQuals)
	}
}

func TestAppendEvent_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ev := createTestEvent(0, "2024-01-01T00:00:00Z", "t")
	if err := s.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("first AppendEvent() failed: %v", err)
	}
	if err := s.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("second AppendEvent() failed: %v", err)
	}

	count, err := s.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestAppendEvent_DivergenceRejected(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.AppendEvent(ctx, createTestEvent(0, "2024-01-01T00:00:00Z", "t")); err != nil {
		t.Fatalf("AppendEvent() failed: %v", err)
	}

	// Same id, different type
	err := s.AppendEvent(ctx, createTestEvent(0, "2024-01-01T00:00:00Z", "other"))
	if err == nil {
		t.Fatal("AppendEvent() with diverging row succeeded, want error")
	}
	if !strings.Contains(err.Error(), "diverges") {
		t.Errorf("error = %q, want mention of divergence", err)
	}

	// Stored row is untouched
	var eventType string
	if err := s.db.QueryRow("SELECT event_type FROM events WHERE event_id = 0").Scan(&eventType); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if eventType != "t" {
		t.Errorf("event_type = %q, want %q", eventType, "t")
	}
}

func TestSyncModel_StoresAll(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestModel(t)

	appended, err := s.SyncModel(ctx, m)
	if err != nil {
		t.Fatalf("SyncModel() failed: %v", err)
	}
	if appended != 3 {
		t.Errorf("appended = %d, want 3", appended)
	}

	count, err := s.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents() failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestSyncModel_Incremental(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestModel(t)

	if _, err := s.SyncModel(ctx, m); err != nil {
		t.Fatalf("first SyncModel() failed: %v", err)
	}

	if _, err := m.InsertEvent("2024-01-01T00:00:03Z", "audit", nil, nil); err != nil {
		t.Fatalf("InsertEvent() failed: %v", err)
	}

	appended, err := s.SyncModel(ctx, m)
	if err != nil {
		t.Fatalf("second SyncModel() failed: %v", err)
	}
	if appended != 1 {
		t.Errorf("appended = %d, want 1", appended)
	}
}

func TestSyncModel_DivergedModelRejected(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.SyncModel(ctx, createTestModel(t)); err != nil {
		t.Fatalf("SyncModel() failed: %v", err)
	}

	// A different history claiming the same ids must not sync.
	other := oced.New()
	if _, err := other.InsertEvent("2024-01-01T00:00:00Z", "rewritten", nil, nil); err != nil {
		t.Fatalf("InsertEvent() failed: %v", err)
	}

	if _, err := s.SyncModel(ctx, other); err == nil {
		t.Fatal("SyncModel() with diverged model succeeded, want error")
	}

	// Store keeps the original history
	ev, err := s.ReadEvent(ctx, 0)
	if err != nil {
		t.Fatalf("ReadEvent() failed: %v", err)
	}
	if ev.Type != "order_created" {
		t.Errorf("event 0 type = %q, want %q", ev.Type, "order_created")
	}
}
