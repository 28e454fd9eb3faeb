package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/objectcentric/oced"
)

// ReadAllEvents returns every stored event in log order (event_id ASC).
//
// Returns an empty slice (not nil) if the store holds no events.
func (s *Store) ReadAllEvents(ctx context.Context) ([]oced.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, event_time, event_type, attributes, qualifiers
		FROM events
		ORDER BY event_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// LoadModel rebuilds the model by replaying every stored event through
// the usual validation rules. The table contents are not trusted: a log
// that does not replay (tampered rows, an id gap) fails the load.
func (s *Store) LoadModel(ctx context.Context) (*oced.Model, error) {
	events, err := s.ReadAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	m, err := oced.ReplayEvents(events)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return m, nil
}

// ReadEvent retrieves a single event by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadEvent(ctx context.Context, id int64) (oced.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT event_id, event_time, event_type, attributes, qualifiers
		FROM events
		WHERE event_id = ?
	`, id)

	return scanEventRow(row)
}

// LastEventID returns the highest stored event id, or -1 when the store
// holds no events.
func (s *Store) LastEventID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(event_id), -1) FROM events
	`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("last event id: %w", err)
	}
	return id, nil
}

// CountEvents returns the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// Filter selects events for QueryEvents. Zero values match everything.
// Time bounds compare as text, which orders correctly for the accepted
// timestamp layouts.
type Filter struct {
	Type  string // exact event type
	Since string // inclusive lower bound on event_time
	Until string // exclusive upper bound on event_time
	Limit int    // maximum rows; 0 means unlimited
}

// QueryEvents returns stored events matching the filter in log order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) QueryEvents(ctx context.Context, f Filter) ([]oced.Event, error) {
	query := `
		SELECT event_id, event_time, event_type, attributes, qualifiers
		FROM events
	`
	var conds []string
	var args []any
	if f.Type != "" {
		conds = append(conds, "event_type = ?")
		args = append(args, f.Type)
	}
	if f.Since != "" {
		conds = append(conds, "event_time >= ?")
		args = append(args, f.Since)
	}
	if f.Until != "" {
		conds = append(conds, "event_time < ?")
		args = append(args, f.Until)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY event_id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// collectEvents drains rows into a slice.
func collectEvents(rows *sql.Rows) ([]oced.Event, error) {
	var events []oced.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	// Return empty slice instead of nil
	if events == nil {
		events = []oced.Event{}
	}

	return events, nil
}

// scanEvent scans a row into an Event.
func scanEvent(rows *sql.Rows) (oced.Event, error) {
	var ev oced.Event
	var attrsJSON, qualsJSON string

	if err := rows.Scan(&ev.ID, &ev.Time, &ev.Type, &attrsJSON, &qualsJSON); err != nil {
		return oced.Event{}, fmt.Errorf("scan event: %w", err)
	}

	attrs, err := unmarshalAttributes(attrsJSON)
	if err != nil {
		return oced.Event{}, err
	}
	ev.Attributes = attrs

	quals, err := unmarshalQualifiers(qualsJSON)
	if err != nil {
		return oced.Event{}, err
	}
	ev.Qualifiers = quals

	return ev, nil
}

// scanEventRow scans a single row into an Event.
func scanEventRow(row *sql.Row) (oced.Event, error) {
	var ev oced.Event
	var attrsJSON, qualsJSON string

	if err := row.Scan(&ev.ID, &ev.Time, &ev.Type, &attrsJSON, &qualsJSON); err != nil {
		return oced.Event{}, err
	}

	attrs, err := unmarshalAttributes(attrsJSON)
	if err != nil {
		return oced.Event{}, err
	}
	ev.Attributes = attrs

	quals, err := unmarshalQualifiers(qualsJSON)
	if err != nil {
		return oced.Event{}, err
	}
	ev.Qualifiers = quals

	return ev, nil
}
