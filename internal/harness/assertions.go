package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/graph"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Index    int
	Type     string
	Table    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertions[%d] %s on %s: expected %v, got %v", e.Index, e.Type, e.Table, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion against the final tables and
// returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		table, ok := result.Tables[a.Table]
		if !ok {
			errs = append(errs, fmt.Sprintf("assertions[%d]: table %q was never created", i, a.Table))
			continue
		}

		var err error
		switch a.Type {
		case AssertCell:
			err = assertCell(table, a)
		case AssertDimensions:
			err = assertDimensions(table, a)
		case AssertRowLabels:
			err = assertRowLabels(table, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err == nil {
			continue
		}
		if ae, ok := err.(*AssertionError); ok {
			ae.Index = i
		}
		errs = append(errs, err.Error())
	}
	return errs
}

func assertCell(table tables.Table, a Assertion) error {
	row, col := *a.Row, *a.Column
	if row < 0 || row >= len(table.Rows) || col < 0 || col >= len(table.Rows[row].Data) {
		return &AssertionError{Type: a.Type, Table: a.Table,
			Expected: fmt.Sprintf("cell (%d, %d)", row, col),
			Actual:   fmt.Sprintf("%d rows", len(table.Rows)),
		}
	}

	actual := cellLabel(table.Rows[row].Data[col])
	var expected *string
	if !a.Empty {
		expected = a.Value
	}
	if !sameLabel(expected, actual) {
		return &AssertionError{Type: a.Type, Table: a.Table, Expected: show(expected), Actual: show(actual)}
	}
	return nil
}

func assertDimensions(table tables.Table, a Assertion) error {
	rows := len(table.Rows) - 1
	columns := len(table.Rows[0].Data)
	if a.Rows != nil && *a.Rows != rows {
		return &AssertionError{Type: a.Type, Table: a.Table, Expected: fmt.Sprintf("%d rows", *a.Rows), Actual: fmt.Sprintf("%d rows", rows)}
	}
	if a.Columns != nil && *a.Columns != columns {
		return &AssertionError{Type: a.Type, Table: a.Table, Expected: fmt.Sprintf("%d columns", *a.Columns), Actual: fmt.Sprintf("%d columns", columns)}
	}
	return nil
}

func assertRowLabels(table tables.Table, a Assertion) error {
	actual := make([]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		actual = append(actual, show(row.Label))
	}
	expected := make([]string, len(a.Labels))
	for i, l := range a.Labels {
		expected[i] = show(l)
	}
	if !slices.Equal(expected, actual) {
		return &AssertionError{Type: a.Type, Table: a.Table, Expected: expected, Actual: actual}
	}
	return nil
}

func cellLabel(thing graph.Thing) *string {
	if thing == nil {
		return nil
	}
	label := thing.Label()
	return &label
}

func sameLabel(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return graph.SameLabel(*a, *b)
}

// show renders an optional label; an absent one is shown as "-".
func show(label *string) string {
	if label == nil {
		return "-"
	}
	return *label
}
