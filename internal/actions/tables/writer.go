package tables

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/kgraph/internal/graph"
)

// partWriter creates columns, rows and cells. Both pipelines share it so a
// column created by an update is indistinguishable from one created with
// the table.
type partWriter struct {
	writer      graph.Writer
	contributor string
}

func (w partWriter) link(ctx context.Context, subject, predicate, object graph.ThingID) (graph.StatementID, error) {
	return w.writer.CreateStatement(ctx, graph.CreateStatement{
		Subject:     subject,
		Predicate:   predicate,
		Object:      object,
		Contributor: w.contributor,
	})
}

// number links subject to its 1-based position.
func (w partWriter) number(ctx context.Context, subject graph.ThingID, index int) error {
	literal, err := w.writer.CreateLiteral(ctx, graph.CreateLiteral{
		Label:       strconv.Itoa(index + 1),
		Datatype:    graph.DatatypeInteger,
		Contributor: w.contributor,
	})
	if err != nil {
		return err
	}
	_, err = w.link(ctx, subject, graph.PredicateCSVWNumber, literal)
	return err
}

func (w partWriter) createColumn(ctx context.Context, table graph.ThingID, index int, title graph.ThingID) (graph.ThingID, error) {
	column, err := w.writer.CreateResource(ctx, graph.CreateResource{
		Classes:     []graph.ThingID{graph.ClassColumn},
		Contributor: w.contributor,
	})
	if err != nil {
		return "", fmt.Errorf("create column %d: %w", index, err)
	}
	if _, err := w.link(ctx, table, graph.PredicateCSVWColumns, column); err != nil {
		return "", fmt.Errorf("create column %d: %w", index, err)
	}
	if err := w.number(ctx, column, index); err != nil {
		return "", fmt.Errorf("create column %d: %w", index, err)
	}
	if _, err := w.link(ctx, column, graph.PredicateCSVWTitles, title); err != nil {
		return "", fmt.Errorf("create column %d: %w", index, err)
	}
	return column, nil
}

func (w partWriter) createRow(ctx context.Context, table graph.ThingID, index int, label *string) (graph.ThingID, error) {
	row, err := w.writer.CreateResource(ctx, graph.CreateResource{
		Classes:     []graph.ThingID{graph.ClassRow},
		Contributor: w.contributor,
	})
	if err != nil {
		return "", fmt.Errorf("create row %d: %w", index, err)
	}
	if _, err := w.link(ctx, table, graph.PredicateCSVWRows, row); err != nil {
		return "", fmt.Errorf("create row %d: %w", index, err)
	}
	if err := w.number(ctx, row, index); err != nil {
		return "", fmt.Errorf("create row %d: %w", index, err)
	}
	if label == nil {
		return row, nil
	}
	title, err := w.writer.CreateLiteral(ctx, graph.CreateLiteral{Label: *label, Contributor: w.contributor})
	if err != nil {
		return "", fmt.Errorf("create row %d: %w", index, err)
	}
	if _, err := w.link(ctx, row, graph.PredicateCSVWTitles, title); err != nil {
		return "", fmt.Errorf("create row %d: %w", index, err)
	}
	return row, nil
}

func (w partWriter) createCell(ctx context.Context, row, column graph.ThingID, value *graph.ThingID) (graph.ThingID, error) {
	cell, err := w.writer.CreateResource(ctx, graph.CreateResource{
		Classes:     []graph.ThingID{graph.ClassCell},
		Contributor: w.contributor,
	})
	if err != nil {
		return "", fmt.Errorf("create cell: %w", err)
	}
	if _, err := w.link(ctx, row, graph.PredicateCSVWCells, cell); err != nil {
		return "", fmt.Errorf("create cell %s: %w", cell, err)
	}
	if _, err := w.link(ctx, cell, graph.PredicateCSVWColumn, column); err != nil {
		return "", fmt.Errorf("create cell %s: %w", cell, err)
	}
	if value == nil {
		return cell, nil
	}
	if _, err := w.link(ctx, cell, graph.PredicateCSVWValue, *value); err != nil {
		return "", fmt.Errorf("create cell %s: %w", cell, err)
	}
	return cell, nil
}
