package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a scenario outcome as stable text: one line per step
// with its write counters, then every table in alias order.
func Snapshot(name string, result *Result) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", name)
	for i, s := range result.Steps {
		outcome := "ok"
		if s.Error != "" {
			outcome = string(s.Error)
		}
		fmt.Fprintf(&b, "step %d %s %s: %s", i+1, s.Kind, s.Table, outcome)
		if s.Kind != StepLock {
			m := s.Mutations
			fmt.Fprintf(&b, " (statements +%d -%d, things +%d ~%d -%d)",
				m.StatementsCreated, m.StatementsDeleted, m.ThingsCreated, m.ThingsUpdated, m.ThingsDeleted)
		}
		b.WriteString("\n")
	}

	for _, alias := range sortedKeys(result.Tables) {
		fmt.Fprintf(&b, "\n[table %s]\n", alias)
		if err := result.Tables[alias].WriteText(&b); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against a
// golden file without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
