package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

func TestScenarios(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRun_ReportsUnexpectedOutcomes(t *testing.T) {
	scenario, err := ParseScenario("inline.yaml", []byte(`
name: wrong_expectations
description: every expectation is off by one
setup:
  literals:
    name: Name
steps:
  - create:
      label: Results
      rows:
        - data: [$name]
    table: results
    expect:
      mutations:
        statements_created: 4
        things_created: 3
  - update:
      rows: []
    table: results
assertions:
  - type: dimensions
    table: results
    columns: 2
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "step 1: expected mutations")
	assert.Contains(t, result.Errors[1], `step 2: expected error "", got "MISSING_TABLE_ROWS"`)
	assert.Contains(t, result.Errors[2], "expected 2 columns, got 1 columns")

	require.Len(t, result.Steps, 2)
	assert.Equal(t, 3, result.Steps[0].Mutations.StatementsCreated)
	assert.Equal(t, graph.CodeMissingTableRows, result.Steps[1].Error)
}

func TestRun_UnknownAliasAborts(t *testing.T) {
	scenario, err := ParseScenario("inline.yaml", []byte(`
name: unknown_alias
description: references a setup thing that does not exist
steps:
  - create:
      label: Results
      rows:
        - data: [$missing]
    table: results
`))
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown alias "$missing"`)
}

func TestRun_AssertionOnMissingTable(t *testing.T) {
	scenario, err := ParseScenario("inline.yaml", []byte(`
name: never_created
description: the create fails so the table cannot be asserted on
steps:
  - create:
      label: Results
      rows: []
    table: results
    expect:
      error: MISSING_TABLE_ROWS
assertions:
  - type: dimensions
    table: results
    rows: 0
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `table "results" was never created`)
}

func TestSnapshot(t *testing.T) {
	scenario, err := ParseScenario("inline.yaml", []byte(`
name: snapshot
description: a single create
setup:
  literals:
    name: Name
steps:
  - create:
      label: Results
      rows:
        - data: [$name]
    table: results
`))
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)

	snapshot, err := Snapshot("snapshot", result)
	require.NoError(t, err)
	assert.Equal(t, `scenario: snapshot
step 1 create results: ok (statements +3 -0, things +3 ~0 -0)

[table results]
label: Results
modifiable: true
header: Name
`, string(snapshot))
}
