package tables

import (
	"strconv"

	"github.com/roach88/kgraph/internal/graph"
)

// MissingTableRows is raised for a command without any row.
func MissingTableRows() *graph.Error {
	return graph.NewError(graph.CodeMissingTableRows, "Missing table rows. At least one row is required.")
}

// MissingTableHeaderValue is raised for a nil or blank header entry.
func MissingTableHeaderValue(index int) *graph.Error {
	return graph.NewError(graph.CodeMissingTableHeaderValue, "Missing table header value at index %d.", index).
		WithDetail("index", strconv.Itoa(index))
}

// TableHeaderValueMustBeLiteral is raised when a header entry resolves to
// anything but a literal.
func TableHeaderValueMustBeLiteral(index int) *graph.Error {
	return graph.NewError(graph.CodeTableHeaderValueMustBeLiteral, "Table header value at index %d must be a literal.", index).
		WithDetail("index", strconv.Itoa(index))
}

// TooManyTableRowValues is raised when row index is wider than the header.
func TooManyTableRowValues(index, expected int) *graph.Error {
	return graph.NewError(graph.CodeTooManyTableRowValues,
		"Row %d has more values than the header. Expected exactly %d values based on header.", index, expected).
		WithDetail("index", strconv.Itoa(index)).
		WithDetail("expected", strconv.Itoa(expected))
}

// MissingTableRowValues is raised when row index is narrower than the header.
func MissingTableRowValues(index, expected int) *graph.Error {
	return graph.NewError(graph.CodeMissingTableRowValues,
		"Row %d has less values than the header. Expected exactly %d values based on header.", index, expected).
		WithDetail("index", strconv.Itoa(index)).
		WithDetail("expected", strconv.Itoa(expected))
}

// TableNotFound is raised when id is not a table.
func TableNotFound(id graph.ThingID) *graph.Error {
	return graph.NewError(graph.CodeTableNotFound, "Table %q not found.", id).WithDetail("id", string(id))
}

// TableNotModifiable is raised when the table is write-protected.
func TableNotModifiable(id graph.ThingID) *graph.Error {
	return graph.NewError(graph.CodeTableNotModifiable, "Table %q is not modifiable.", id).WithDetail("id", string(id))
}
