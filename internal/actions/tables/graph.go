package tables

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/roach88/kgraph/internal/graph"
)

// ColumnGraph is a persisted column.
type ColumnGraph struct {
	ColumnID        graph.ThingID
	Number          int
	TitleStatements []graph.Statement

	// StatementIDs covers the table link and every statement of the column.
	StatementIDs []graph.StatementID
}

// RowGraph is a persisted row.
type RowGraph struct {
	RowID           graph.ThingID
	Number          int
	TitleStatements []graph.Statement

	// Cells is indexed by column position; a missing cell is nil.
	Cells []*CellGraph

	// StatementIDs covers the table link and every statement of the row.
	StatementIDs []graph.StatementID
}

// CellGraph is a persisted cell.
type CellGraph struct {
	CellID          graph.ThingID
	ValueStatements []graph.Statement

	// StatementIDs covers the row link and every statement of the cell.
	StatementIDs []graph.StatementID
}

// Title returns the first title statement's object, or nil.
func (c ColumnGraph) Title() graph.Thing {
	if len(c.TitleStatements) == 0 {
		return nil
	}
	return c.TitleStatements[0].Object
}

// Value returns the cell's value, or nil.
func (c *CellGraph) Value() graph.Thing {
	if c == nil || len(c.ValueStatements) == 0 {
		return nil
	}
	return c.ValueStatements[0].Object
}

// loadTableGraph reads the columns and rows of table ordered by their
// CSVW_Number.
func loadTableGraph(ctx context.Context, statements graph.StatementRepository, table graph.ThingID) ([]ColumnGraph, []RowGraph, error) {
	columnLinks, err := statements.FindStatements(ctx, graph.StatementQuery{Subject: table, Predicate: graph.PredicateCSVWColumns})
	if err != nil {
		return nil, nil, fmt.Errorf("load columns of %s: %w", table, err)
	}

	columns := make([]ColumnGraph, 0, len(columnLinks))
	for _, link := range columnLinks {
		own, err := statements.FindStatements(ctx, graph.StatementQuery{Subject: link.ObjectID()})
		if err != nil {
			return nil, nil, fmt.Errorf("load column %s: %w", link.ObjectID(), err)
		}
		col := ColumnGraph{
			ColumnID:     link.ObjectID(),
			StatementIDs: append([]graph.StatementID{link.ID}, graph.StatementIDs(own)...),
		}
		for _, st := range own {
			switch st.Predicate {
			case graph.PredicateCSVWNumber:
				col.Number = number(st)
			case graph.PredicateCSVWTitles:
				col.TitleStatements = append(col.TitleStatements, st)
			}
		}
		columns = append(columns, col)
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Number < columns[j].Number })

	position := make(map[graph.ThingID]int, len(columns))
	for i, col := range columns {
		position[col.ColumnID] = i
	}

	rowLinks, err := statements.FindStatements(ctx, graph.StatementQuery{Subject: table, Predicate: graph.PredicateCSVWRows})
	if err != nil {
		return nil, nil, fmt.Errorf("load rows of %s: %w", table, err)
	}

	rows := make([]RowGraph, 0, len(rowLinks))
	for _, link := range rowLinks {
		row, err := loadRow(ctx, statements, link, position, len(columns))
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })

	return columns, rows, nil
}

func loadRow(ctx context.Context, statements graph.StatementRepository, link graph.Statement, position map[graph.ThingID]int, width int) (RowGraph, error) {
	own, err := statements.FindStatements(ctx, graph.StatementQuery{Subject: link.ObjectID()})
	if err != nil {
		return RowGraph{}, fmt.Errorf("load row %s: %w", link.ObjectID(), err)
	}

	row := RowGraph{
		RowID:        link.ObjectID(),
		Cells:        make([]*CellGraph, width),
		StatementIDs: append([]graph.StatementID{link.ID}, graph.StatementIDs(own)...),
	}
	for _, st := range own {
		switch st.Predicate {
		case graph.PredicateCSVWNumber:
			row.Number = number(st)
		case graph.PredicateCSVWTitles:
			row.TitleStatements = append(row.TitleStatements, st)
		case graph.PredicateCSVWCells:
			cell, column, err := loadCell(ctx, statements, st)
			if err != nil {
				return RowGraph{}, err
			}
			i, ok := position[column]
			if !ok || row.Cells[i] != nil {
				continue
			}
			row.Cells[i] = cell
		}
	}
	return row, nil
}

func loadCell(ctx context.Context, statements graph.StatementRepository, link graph.Statement) (*CellGraph, graph.ThingID, error) {
	own, err := statements.FindStatements(ctx, graph.StatementQuery{Subject: link.ObjectID()})
	if err != nil {
		return nil, "", fmt.Errorf("load cell %s: %w", link.ObjectID(), err)
	}

	cell := &CellGraph{
		CellID:       link.ObjectID(),
		StatementIDs: append([]graph.StatementID{link.ID}, graph.StatementIDs(own)...),
	}
	var column graph.ThingID
	for _, st := range own {
		switch st.Predicate {
		case graph.PredicateCSVWColumn:
			column = st.ObjectID()
		case graph.PredicateCSVWValue:
			cell.ValueStatements = append(cell.ValueStatements, st)
		}
	}
	return cell, column, nil
}

// number parses a CSVW_Number literal. Unparsable numbers sort first.
func number(st graph.Statement) int {
	if st.Object == nil {
		return 0
	}
	n, err := strconv.Atoi(st.Object.Label())
	if err != nil {
		return 0
	}
	return n
}
