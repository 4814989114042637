package harness

import (
	"fmt"

	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

// Step kinds.
const (
	StepCreate = "create"
	StepUpdate = "update"
	StepLock   = "lock"
)

// StepResult records what one step did.
type StepResult struct {
	Kind  string
	Table string

	// Error is the domain error code the step failed with, empty on
	// success.
	Error graph.ErrorCode

	Mutations testutil.Mutations
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool

	Steps []StepResult

	// Tables holds the final state of every table created by the
	// scenario, keyed by alias.
	Tables map[string]tables.Table

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Tables: make(map[string]tables.Table),
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
