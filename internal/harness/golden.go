package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/internal/canonical"
	"github.com/objectcentric/oced/ocedjson"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string
	Outcomes     []EventOutcome
	Model        *oced.Model
}

// toCanonicalMap converts the snapshot to a map[string]any so it can be
// serialized with canonical.Marshal, which only handles plain maps,
// slices and primitives.
func (s *TraceSnapshot) toCanonicalMap() (map[string]any, error) {
	events := make([]any, len(s.Outcomes))
	for i, outcome := range s.Outcomes {
		eventMap := map[string]any{
			"committed": outcome.Committed,
		}
		if outcome.Committed {
			eventMap["event_id"] = outcome.EventID
		} else {
			eventMap["code"] = string(outcome.Code)
			eventMap["index"] = outcome.Index
		}
		events[i] = eventMap
	}

	cs := s.Model.CurrentState()
	aliveObjects, deadObjects := partitionObjects(cs)
	aliveValues, deadValues := partitionValues(cs)
	aliveRelations, deadRelations := partitionRelations(cs)
	finalState := map[string]any{
		"alive_objects":               idList(aliveObjects),
		"tombstoned_objects":          idList(deadObjects),
		"alive_attribute_values":      idList(aliveValues),
		"tombstoned_attribute_values": idList(deadValues),
		"alive_relations":             idList(aliveRelations),
		"tombstoned_relations":        idList(deadRelations),
	}

	// The digest ties the trace to the full serialized model, so any
	// drift in replay behavior shows up even when the state partition
	// happens to match.
	encoded, err := ocedjson.Encode(s.Model)
	if err != nil {
		return nil, err
	}
	digest, err := canonical.DigestJSON(encoded)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"events":        events,
		"final_state":   finalState,
		"model_digest":  digest,
	}, nil
}

func idList(ids []string) []any {
	sorted := sortedCopy(ids)
	out := make([]any, len(sorted))
	for i, id := range sorted {
		out[i] = id
	}
	return out
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Expectation mismatches are reported through t; an error is returned
// only when the scenario cannot be executed or serialized.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		t.Errorf("%s: %s", scenario.Name, failure)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-executed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Outcomes:     result.Outcomes,
		Model:        result.Model,
	}
	canonicalMap, err := snapshot.toCanonicalMap()
	if err != nil {
		return err
	}
	traceJSON, err := canonical.Marshal(canonicalMap)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
