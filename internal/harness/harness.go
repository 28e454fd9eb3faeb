// Package harness provides a conformance testing framework for OCED
// models.
//
// Scenarios are YAML files that insert a sequence of events into a fresh
// model and assert on the outcome of each insertion and on the final
// state. The harness runs every event through the real validation path,
// so a scenario exercises exactly what library callers exercise.
//
// Golden trace files capture the full execution (per-event outcomes,
// final state partition, model digest) in canonical JSON for byte-stable
// comparison across runs.
package harness

import (
	"fmt"
	"slices"
	"sort"

	"github.com/objectcentric/oced"
)

// EventOutcome records what happened to one event insertion attempt.
type EventOutcome struct {
	// Committed reports whether the event was accepted.
	Committed bool

	// EventID is the assigned id. Valid only when Committed.
	EventID int64

	// Code is the rejection code. Valid only when not Committed.
	Code oced.ErrorCode

	// Index is the offending qualifier index, or oced.EnvelopeIndex.
	// Valid only when not Committed.
	Index int
}

// Result captures a scenario execution.
type Result struct {
	// Model is the final model holding every committed event.
	Model *oced.Model

	// Outcomes has one entry per scenario event, in order.
	Outcomes []EventOutcome

	// Failures lists expectation mismatches. Empty means the scenario
	// passed.
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Result) addFailure(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario against a fresh model.
//
// Expectation mismatches are collected in Result.Failures; an error is
// returned only for structural problems (an unknown qualifier kind or an
// unexpected rejection shape).
func Run(scenario *Scenario) (*Result, error) {
	m := oced.New()
	result := &Result{Model: m}

	for i, step := range scenario.Events {
		qs := make([]oced.Qualifier, len(step.Qualifiers))
		for j, qstep := range step.Qualifiers {
			q, err := qstep.toQualifier()
			if err != nil {
				return nil, fmt.Errorf("events[%d].qualifiers[%d]: %w", i, j, err)
			}
			qs[j] = q
		}

		outcome := EventOutcome{}
		id, err := m.InsertEvent(step.Time, step.Type, qs, step.Attributes)
		if err != nil {
			ve, ok := oced.AsValidationError(err)
			if !ok {
				return nil, fmt.Errorf("events[%d]: unexpected error shape: %w", i, err)
			}
			outcome.Code = ve.Code
			outcome.Index = ve.QualifierIndex
		} else {
			outcome.Committed = true
			outcome.EventID = id
		}
		result.Outcomes = append(result.Outcomes, outcome)

		checkExpect(result, i, step.Expect, outcome)
	}

	if scenario.EventCount != nil && m.EventCount() != int64(*scenario.EventCount) {
		result.addFailure("event count = %d, want %d", m.EventCount(), *scenario.EventCount)
	}
	if scenario.FinalState != nil {
		checkFinalState(result, scenario.FinalState, m.CurrentState())
	}

	return result, nil
}

// checkExpect compares one outcome against its expect clause.
// A missing clause means the event is expected to commit.
func checkExpect(result *Result, index int, expect *ExpectClause, outcome EventOutcome) {
	if expect == nil {
		expect = &ExpectClause{Committed: true}
	}

	if expect.Committed {
		if !outcome.Committed {
			result.addFailure("events[%d]: expected commit, got %s (index %d)",
				index, outcome.Code, outcome.Index)
		}
		return
	}

	if outcome.Committed {
		result.addFailure("events[%d]: expected %s, but event committed as id %d",
			index, expect.Error, outcome.EventID)
		return
	}
	if string(outcome.Code) != expect.Error {
		result.addFailure("events[%d]: expected code %s, got %s",
			index, expect.Error, outcome.Code)
	}
	if expect.Index != nil && outcome.Index != *expect.Index {
		result.addFailure("events[%d]: expected index %d, got %d",
			index, *expect.Index, outcome.Index)
	}
}

// checkFinalState compares the complete state partition against the
// expectation. Every listed id must be in the stated condition and no
// unlisted ids may exist.
func checkFinalState(result *Result, want *FinalState, got oced.CurrentState) {
	gotAliveObjects, gotDeadObjects := partitionObjects(got)
	gotAliveValues, gotDeadValues := partitionValues(got)
	gotAliveRelations, gotDeadRelations := partitionRelations(got)

	compareSet(result, "alive objects", want.AliveObjects, gotAliveObjects)
	compareSet(result, "tombstoned objects", want.TombstonedObjects, gotDeadObjects)
	compareSet(result, "alive attribute values", want.AliveValues, gotAliveValues)
	compareSet(result, "tombstoned attribute values", want.TombstonedValues, gotDeadValues)
	compareSet(result, "alive relations", want.AliveRelations, gotAliveRelations)
	compareSet(result, "tombstoned relations", want.TombstonedRelations, gotDeadRelations)
}

func compareSet(result *Result, label string, want, got []string) {
	wantSorted := sortedCopy(want)
	gotSorted := sortedCopy(got)
	if !slices.Equal(wantSorted, gotSorted) {
		result.addFailure("final state: %s = %v, want %v", label, gotSorted, wantSorted)
	}
}

func sortedCopy(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

func partitionObjects(cs oced.CurrentState) (alive, dead []string) {
	for id, o := range cs.Objects {
		if o.Alive {
			alive = append(alive, id)
		} else {
			dead = append(dead, id)
		}
	}
	return alive, dead
}

func partitionValues(cs oced.CurrentState) (alive, dead []string) {
	for id, v := range cs.AttributeValues {
		if v.Alive {
			alive = append(alive, id)
		} else {
			dead = append(dead, id)
		}
	}
	return alive, dead
}

func partitionRelations(cs oced.CurrentState) (alive, dead []string) {
	for id, r := range cs.Relations {
		if r.Alive {
			alive = append(alive, id)
		} else {
			dead = append(dead, id)
		}
	}
	return alive, dead
}
