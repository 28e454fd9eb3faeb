package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/objectcentric/oced"
)

// execQuerier is the subset of database/sql operations appendEvent
// needs, satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AppendEvent inserts a committed event row.
// Uses ON CONFLICT(event_id) DO NOTHING for idempotency - re-appending
// an already stored event is a no-op. The stored row is then verified
// against the event byte for byte; a mismatch means two different
// histories claim the same id, which is an error, never an overwrite.
//
// The event's attributes and qualifiers are serialized to canonical JSON
// per RFC 8785 so the verification is byte comparison.
func (s *Store) AppendEvent(ctx context.Context, ev oced.Event) error {
	if _, err := appendEvent(ctx, s.db, ev); err != nil {
		return err
	}
	return nil
}

// SyncModel stores every event of the model the store does not hold yet,
// in a single transaction. Overlapping events are verified instead of
// rewritten, so syncing a diverged model fails and the store keeps its
// history. Safe to call repeatedly.
//
// Returns the number of newly stored events.
func (s *Store) SyncModel(ctx context.Context, m *oced.Model) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sync model: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var appended int64
	for _, ev := range m.Events() {
		inserted, err := appendEvent(ctx, tx, ev)
		if err != nil {
			return 0, fmt.Errorf("sync model: %w", err)
		}
		if inserted {
			appended++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sync model: commit: %w", err)
	}
	return appended, nil
}

// appendEvent does the insert-or-verify dance against db, which may be a
// transaction. Reports whether a new row was inserted.
func appendEvent(ctx context.Context, db execQuerier, ev oced.Event) (bool, error) {
	attrsJSON, err := marshalAttributes(ev.Attributes)
	if err != nil {
		return false, fmt.Errorf("append event %d: %w", ev.ID, err)
	}
	qualsJSON, err := marshalQualifiers(ev.Qualifiers)
	if err != nil {
		return false, fmt.Errorf("append event %d: %w", ev.ID, err)
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO events
		(event_id, event_time, event_type, attributes, qualifiers)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(event_id) DO NOTHING
	`,
		ev.ID,
		ev.Time,
		ev.Type,
		attrsJSON,
		qualsJSON,
	)
	if err != nil {
		return false, fmt.Errorf("append event %d: %w", ev.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append event %d: rows affected: %w", ev.ID, err)
	}
	if rowsAffected > 0 {
		return true, nil
	}

	// Conflict - the id is already stored. Verify the row matches.
	var storedTime, storedType, storedAttrs, storedQuals string
	err = db.QueryRowContext(ctx, `
		SELECT event_time, event_type, attributes, qualifiers
		FROM events
		WHERE event_id = ?
	`, ev.ID).Scan(&storedTime, &storedType, &storedAttrs, &storedQuals)
	if err != nil {
		return false, fmt.Errorf("append event %d: read existing: %w", ev.ID, err)
	}
	if storedTime != ev.Time || storedType != ev.Type ||
		storedAttrs != attrsJSON || storedQuals != qualsJSON {
		return false, fmt.Errorf("append event %d: stored row diverges from event", ev.ID)
	}
	return false, nil
}
