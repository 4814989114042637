package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kgraph/internal/document"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

// Scenario defines a conformance test scenario: things to seed, a list of
// table commands with their expected outcome, and assertions on the final
// tables.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup seeds persisted things before the first step.
	Setup Setup `yaml:"setup,omitempty"`

	// Steps run in order against the same store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final tables.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Setup lists the things created before the steps, keyed by alias.
type Setup struct {
	Literals  map[string]string        `yaml:"literals,omitempty"`
	Resources map[string]SetupResource `yaml:"resources,omitempty"`
}

// SetupResource is a persisted resource. Classes are thing ids.
type SetupResource struct {
	Label   string   `yaml:"label"`
	Classes []string `yaml:"classes,omitempty"`
}

// Step is one table command. Exactly one of Create, Update and Lock is set.
type Step struct {
	Create *yaml.Node `yaml:"create,omitempty"`
	Update *yaml.Node `yaml:"update,omitempty"`

	// Lock marks the table as not modifiable.
	Lock bool `yaml:"lock,omitempty"`

	// Table is the alias the step creates or targets.
	Table string `yaml:"table"`

	// Expect describes the outcome. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`

	// Document is the decoded create or update document.
	Document *document.Document `yaml:"-"`
}

// Kind reports which command the step runs.
func (s *Step) Kind() string {
	switch {
	case s.Create != nil:
		return StepCreate
	case s.Update != nil:
		return StepUpdate
	default:
		return StepLock
	}
}

// Expect specifies the outcome of a step.
type Expect struct {
	// Error is the expected domain error code. Empty means success.
	Error graph.ErrorCode `yaml:"error,omitempty"`

	// Mutations, if set, must match the step's writes exactly; omitted
	// counters are zero.
	Mutations *Mutations `yaml:"mutations,omitempty"`
}

// Mutations are the expected write counters of a step.
type Mutations struct {
	StatementsCreated int `yaml:"statements_created"`
	StatementsDeleted int `yaml:"statements_deleted"`
	ThingsCreated     int `yaml:"things_created"`
	ThingsUpdated     int `yaml:"things_updated"`
	ThingsDeleted     int `yaml:"things_deleted"`
}

func (m Mutations) counters() testutil.Mutations {
	return testutil.Mutations{
		StatementsCreated: m.StatementsCreated,
		StatementsDeleted: m.StatementsDeleted,
		ThingsCreated:     m.ThingsCreated,
		ThingsUpdated:     m.ThingsUpdated,
		ThingsDeleted:     m.ThingsDeleted,
	}
}

// Assertion validates the final state of a table.
type Assertion struct {
	// Type specifies the assertion type:
	// - "cell": Row and Column select a cell, Value or Empty describe it
	// - "dimensions": Rows and Columns are the expected sizes
	// - "row_labels": Labels are the expected data row labels
	Type string `yaml:"type"`

	// Table is the alias of the table.
	Table string `yaml:"table"`

	Row    *int    `yaml:"row,omitempty"`
	Column *int    `yaml:"column,omitempty"`
	Value  *string `yaml:"value,omitempty"`
	Empty  bool    `yaml:"empty,omitempty"`

	Rows    *int `yaml:"rows,omitempty"`
	Columns *int `yaml:"columns,omitempty"`

	Labels []*string `yaml:"labels,omitempty"`
}

// Assertion type constants.
const (
	AssertCell       = "cell"
	AssertDimensions = "dimensions"
	AssertRowLabels  = "row_labels"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Step documents are checked against the document schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario parses scenario YAML. name is used in error messages.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	loader, err := document.NewLoader()
	if err != nil {
		return nil, err
	}
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		node := step.Create
		if node == nil {
			node = step.Update
		}
		if node == nil {
			continue
		}
		var raw any
		if err := node.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid scenario: steps[%d]: %w", i, err)
		}
		doc, err := loader.LoadData(fmt.Sprintf("%s#steps[%d]", name, i), raw)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: steps[%d]: %w", i, err)
		}
		step.Document = doc
	}

	return &scenario, nil
}

// FindScenarios returns the scenario files in dir, sorted by path.
func FindScenarios(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	aliases := map[string]bool{}
	for alias := range s.Setup.Literals {
		aliases[alias] = true
	}
	for alias := range s.Setup.Resources {
		if aliases[alias] {
			return fmt.Errorf("setup: alias %q is declared twice", alias)
		}
		aliases[alias] = true
	}

	for i, step := range s.Steps {
		kinds := 0
		for _, set := range []bool{step.Create != nil, step.Update != nil, step.Lock} {
			if set {
				kinds++
			}
		}
		if kinds != 1 {
			return fmt.Errorf("steps[%d]: exactly one of create, update and lock is required", i)
		}
		if step.Table == "" {
			return fmt.Errorf("steps[%d]: table is required", i)
		}
		if step.Create != nil && aliases[step.Table] {
			return fmt.Errorf("steps[%d]: alias %q is already in use", i, step.Table)
		}
		if step.Create != nil {
			aliases[step.Table] = true
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Table == "" {
		return fmt.Errorf("assertions[%d]: table is required", index)
	}

	switch a.Type {
	case AssertCell:
		if a.Row == nil || a.Column == nil {
			return fmt.Errorf("assertions[%d]: row and column are required for cell", index)
		}
		if (a.Value == nil) == !a.Empty {
			return fmt.Errorf("assertions[%d]: exactly one of value and empty is required for cell", index)
		}
	case AssertDimensions:
		if a.Rows == nil && a.Columns == nil {
			return fmt.Errorf("assertions[%d]: rows or columns is required for dimensions", index)
		}
	case AssertRowLabels:
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels is required for row_labels", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
