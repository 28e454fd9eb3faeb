package oced

// Event is one committed entry in the history. Events are immutable once
// appended; the model only ever hands out copies.
type Event struct {
	// ID is assigned by the log on commit: 0 for the first event, then
	// strictly increasing by one.
	ID int64

	// Time is the caller-supplied timestamp text. Committed events sort
	// strictly increasing by Time under plain string comparison.
	Time string

	// Type is the caller-supplied event type tag.
	Type string

	// Attributes carries event-level string metadata. Never nil on a
	// committed event.
	Attributes map[string]string

	// Qualifiers is the ordered mutation batch. Order is semantically
	// significant and preserved exactly. Never nil on a committed event;
	// empty is valid.
	Qualifiers []Qualifier
}

// Clone returns a deep copy. Qualifier variants are value structs, so
// copying the slice copies the qualifiers themselves.
func (e Event) Clone() Event {
	c := e
	c.Attributes = make(map[string]string, len(e.Attributes))
	for k, v := range e.Attributes {
		c.Attributes[k] = v
	}
	c.Qualifiers = make([]Qualifier, len(e.Qualifiers))
	copy(c.Qualifiers, e.Qualifiers)
	return c
}

// eventLog is the append-only committed history. No update or delete
// operation exists on it.
type eventLog struct {
	events []Event
}

// nextID returns the id the next committed event will receive.
func (l *eventLog) nextID() int64 {
	return int64(len(l.events))
}

// lastTime returns the timestamp of the most recently committed event.
func (l *eventLog) lastTime() (string, bool) {
	if len(l.events) == 0 {
		return "", false
	}
	return l.events[len(l.events)-1].Time, true
}

// append assigns the next id, stores the event, and returns the id. The
// caller passes an event it no longer aliases.
func (l *eventLog) append(e Event) int64 {
	e.ID = l.nextID()
	l.events = append(l.events, e)
	return e.ID
}

// history returns the full ordered log as a deep copy.
func (l *eventLog) history() []Event {
	out := make([]Event, len(l.events))
	for i, e := range l.events {
		out[i] = e.Clone()
	}
	return out
}
