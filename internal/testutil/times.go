// Package testutil provides deterministic helpers shared by tests across
// packages.
package testutil

import (
	"sync"
	"time"
)

// TimeSequence produces strictly increasing RFC 3339 timestamps for tests.
//
// Event insertion requires each event time to sort strictly after the
// previous one; hand-writing timestamps gets error-prone past a few
// events. A TimeSequence with the same base and step always produces the
// same series, so golden files stay stable across runs.
//
// Thread-safety: all methods are safe for concurrent use.
type TimeSequence struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int64
}

// NewTimeSequence creates a sequence starting at 2024-01-01T00:00:00Z
// advancing one second per call.
func NewTimeSequence() *TimeSequence {
	return NewTimeSequenceAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
}

// NewTimeSequenceAt creates a sequence with an explicit base and step.
func NewTimeSequenceAt(base time.Time, step time.Duration) *TimeSequence {
	return &TimeSequence{base: base.UTC(), step: step}
}

// Next returns the next timestamp and advances the sequence.
// The first call returns the base time.
func (s *TimeSequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.base.Add(time.Duration(s.n) * s.step)
	s.n++
	return t.Format(time.RFC3339)
}

// Peek returns the timestamp the next call to Next will produce, without
// advancing.
func (s *TimeSequence) Peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Add(time.Duration(s.n) * s.step).Format(time.RFC3339)
}

// Reset rewinds the sequence to its base time.
func (s *TimeSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
