package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"foreign_keys": "1", // ON
	}
	for name, expected := range checks {
		if err := s.verifyPragma(name, expected); err != nil {
			t.Errorf("pragma check failed: %v", err)
		}
	}
}

func TestOpen_SchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version failed: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpen_TimeIndexExists(t *testing.T) {
	s := createTestStore(t)

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND name = 'idx_events_time'
	`).Scan(&count)
	if err != nil {
		t.Fatalf("query sqlite_master failed: %v", err)
	}
	if count != 1 {
		t.Errorf("idx_events_time count = %d, want 1", count)
	}
}

func TestStoreID_IsUUIDv7(t *testing.T) {
	s := createTestStore(t)

	id, err := s.StoreID(context.Background())
	if err != nil {
		t.Fatalf("StoreID() failed: %v", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("store id %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("store id version = %d, want 7", parsed.Version())
	}
}

func TestStoreID_StableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	first, err := s1.StoreID(ctx)
	if err != nil {
		t.Fatalf("StoreID() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()
	second, err := s2.StoreID(ctx)
	if err != nil {
		t.Fatalf("StoreID() failed: %v", err)
	}

	if first != second {
		t.Errorf("store id changed across reopen: %q then %q", first, second)
	}
}

func TestCreatedAt_Parseable(t *testing.T) {
	s := createTestStore(t)

	createdAt, err := s.CreatedAt(context.Background())
	if err != nil {
		t.Fatalf("CreatedAt() failed: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, createdAt); err != nil {
		t.Errorf("created_at %q is not RFC 3339: %v", createdAt, err)
	}
}
