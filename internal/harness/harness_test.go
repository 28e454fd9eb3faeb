package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectcentric/oced"
)

// mustParse parses inline scenario YAML, failing the test on error.
func mustParse(t *testing.T, content string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	return scenario
}

func TestRun_AllCommitted(t *testing.T) {
	scenario := mustParse(t, `
name: all_committed
description: "Every event commits"
events:
  - time: "2024-01-01T00:00:00Z"
    type: order_created
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
  - time: "2024-01-01T00:00:01Z"
    type: annotated
    attributes:
      note: ok
event_count: 2
final_state:
  alive_objects: [o1]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)

	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Committed)
	assert.Equal(t, int64(0), result.Outcomes[0].EventID)
	assert.True(t, result.Outcomes[1].Committed)
	assert.Equal(t, int64(1), result.Outcomes[1].EventID)

	assert.Equal(t, int64(2), result.Model.EventCount())
}

func TestRun_ExpectedRejectionMatches(t *testing.T) {
	scenario := mustParse(t, `
name: expected_rejection
description: "A self relation bounces with the expected code and index"
events:
  - time: "2024-01-01T00:00:00Z"
    type: setup
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
  - time: "2024-01-01T00:00:01Z"
    type: bad_link
    qualifiers:
      - kind: involve_object
        object_id: o1
      - kind: create_relation
        relation_id: r1
        from_object_id: o1
        to_object_id: o1
        relation_type: loops
    expect:
      error: SELF_RELATION
      index: 1
event_count: 1
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)

	require.Len(t, result.Outcomes, 2)
	assert.False(t, result.Outcomes[1].Committed)
	assert.Equal(t, oced.ErrCodeSelfRelation, result.Outcomes[1].Code)
	assert.Equal(t, 1, result.Outcomes[1].Index)
}

func TestRun_UnexpectedRejection(t *testing.T) {
	scenario := mustParse(t, `
name: unexpected_rejection
description: "An event expected to commit is rejected"
events:
  - time: "2024-01-01T00:00:00Z"
    type: orphan_value
    qualifiers:
      - kind: create_attribute_value
        object_id: ghost
        value_id: v1
        name: total
        value: "90"
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "events[0]: expected commit")
	assert.Contains(t, result.Failures[0], "DEAD_OR_UNKNOWN_REFERENCE")
}

func TestRun_ExpectedRejectionButCommitted(t *testing.T) {
	scenario := mustParse(t, `
name: committed_anyway
description: "An event expected to fail commits"
events:
  - time: "2024-01-01T00:00:00Z"
    type: fine
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
    expect:
      error: DUPLICATE_CREATE
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected DUPLICATE_CREATE, but event committed as id 0")
}

func TestRun_CodeMismatch(t *testing.T) {
	scenario := mustParse(t, `
name: code_mismatch
description: "Rejection carries a different code than expected"
events:
  - time: "2024-01-01T00:00:00Z"
    type: setup
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
  - time: "2024-01-01T00:00:01Z"
    type: bad_link
    qualifiers:
      - kind: create_relation
        relation_id: r1
        from_object_id: o1
        to_object_id: o1
        relation_type: loops
    expect:
      error: DUPLICATE_CREATE
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected code DUPLICATE_CREATE, got SELF_RELATION")
}

func TestRun_IndexMismatch(t *testing.T) {
	scenario := mustParse(t, `
name: index_mismatch
description: "Rejection reported at a different qualifier index"
events:
  - time: "2024-01-01T00:00:00Z"
    type: bad_time_then_fine
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
      - kind: create_relation
        relation_id: r1
        from_object_id: o1
        to_object_id: o1
        relation_type: loops
    expect:
      error: SELF_RELATION
      index: 0
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected index 0, got 1")
}

func TestRun_RejectionLeavesNoTrace(t *testing.T) {
	scenario := mustParse(t, `
name: no_trace
description: "A rejected batch leaves earlier commits untouched"
events:
  - time: "2024-01-01T00:00:00Z"
    type: setup
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
  - time: "2024-01-01T00:00:01Z"
    type: partial
    qualifiers:
      - kind: create_object
        object_id: o2
        object_type: item
      - kind: create_object
        object_id: o1
        object_type: order
    expect:
      error: DUPLICATE_CREATE
      index: 1
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)

	// o2 from the rejected batch must not exist.
	cs := result.Model.CurrentState()
	assert.Len(t, cs.Objects, 1)
	assert.Contains(t, cs.Objects, "o1")
	assert.Equal(t, int64(1), result.Model.EventCount())
}

func TestRun_EventCountMismatch(t *testing.T) {
	scenario := mustParse(t, `
name: count_mismatch
description: "Committed event count differs from expectation"
events:
  - time: "2024-01-01T00:00:00Z"
    type: only_one
event_count: 5
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "event count = 1, want 5")
}

func TestRun_FinalStateMismatch(t *testing.T) {
	scenario := mustParse(t, `
name: state_mismatch
description: "Final state lists an object that never existed"
events:
  - time: "2024-01-01T00:00:00Z"
    type: setup
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
final_state:
  alive_objects: [o1, o2]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "final state: alive objects")
	assert.Contains(t, result.Failures[0], "want [o1 o2]")
}

func TestRun_FinalStateExhaustive(t *testing.T) {
	// Ids left unlisted must not exist in the stated condition: a scenario
	// claiming no tombstones fails when a relation was deleted.
	scenario := mustParse(t, `
name: exhaustive_state
description: "Unlisted tombstones count as a mismatch"
events:
  - time: "2024-01-01T00:00:00Z"
    type: setup
    qualifiers:
      - kind: create_object
        object_id: o1
        object_type: order
      - kind: create_object
        object_id: o2
        object_type: item
      - kind: create_relation
        relation_id: r1
        from_object_id: o1
        to_object_id: o2
        relation_type: contains
  - time: "2024-01-01T00:00:01Z"
    type: unlink
    qualifiers:
      - kind: delete_relation
        relation_id: r1
final_state:
  alive_objects: [o1, o2]
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "tombstoned relations = [r1], want []")
}

func TestRun_UnknownKindIsStructural(t *testing.T) {
	// Hand-built scenarios bypass loader validation; Run must still refuse
	// unknown kinds instead of recording a failure.
	scenario := &Scenario{
		Name:        "structural",
		Description: "Unknown qualifier kind",
		Events: []EventStep{
			{
				Time: "2024-01-01T00:00:00Z",
				Type: "bad",
				Qualifiers: []QualifierStep{
					{Kind: "merge_object", ObjectID: "o1"},
				},
			},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `events[0].qualifiers[0]: unknown qualifier kind "merge_object"`)
}
