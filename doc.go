// Package oced models an object-centric event log: an append-only history
// of events, each carrying an ordered batch of elementary mutations
// ("qualifiers") over objects, their attribute values, and typed relations
// between objects, plus the materialized current state those events imply.
//
// ARCHITECTURE:
//
// Single-Writer Transactions:
// InsertEvent is the only mutating operation. Each call validates and
// applies its whole qualifier batch against a clone of the current state;
// the clone replaces the live state only if every qualifier succeeds.
// Validity of qualifier i is judged against the cumulative effect of
// qualifiers 0..i-1 of the same event, so an event may create an object
// and attach attribute values to it in one batch. On the first violation
// the clone is discarded and nothing is visible to readers.
//
// Tombstones:
// Deletion never removes an entry. It flips the entry's Alive flag, which
// keeps the id reserved forever: a Create on an id that was ever used is
// rejected even when the previous owner is deleted. History is the only
// record of how often an id changed; current state keeps latest values only.
//
// Determinism:
// Applying the same event sequence to an empty model always produces the
// same state. The codec packages rely on this to rebuild a model by replay
// and cross-check it against a transported snapshot.
//
// Readers (Events, CurrentState) return deep copies. Mutating a returned
// snapshot never affects the model.
package oced
