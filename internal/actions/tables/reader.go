package tables

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// Table is the assembled view of a persisted table. Rows[0] is the header:
// its Data holds the column titles and its Label is nil.
type Table struct {
	ID         graph.ThingID
	Label      string
	Modifiable bool
	Rows       []Row
}

// Row is one row of a Table. A nil entry in Data is an empty cell.
type Row struct {
	Label *string
	Data  []graph.Thing
}

// Reader assembles tables from the graph.
type Reader struct {
	graph graph.Reader
}

// NewReader creates a reader.
func NewReader(r graph.Reader) *Reader {
	return &Reader{graph: r}
}

// FindByID loads table id. It fails with TableNotFound if id is not a table.
func (r *Reader) FindByID(ctx context.Context, id graph.ThingID) (Table, error) {
	thing, ok, err := r.graph.FindThing(ctx, id)
	if err != nil {
		return Table{}, fmt.Errorf("load table %s: %w", id, err)
	}
	resource, isResource := thing.(graph.Resource)
	if !ok || !isResource || !resource.HasClass(graph.ClassTable) {
		return Table{}, TableNotFound(id)
	}

	columns, rows, err := loadTableGraph(ctx, r.graph, id)
	if err != nil {
		return Table{}, err
	}

	header := Row{Data: make([]graph.Thing, len(columns))}
	for i, col := range columns {
		header.Data[i] = col.Title()
	}

	table := Table{
		ID:         id,
		Label:      resource.Text,
		Modifiable: resource.Modifiable,
		Rows:       make([]Row, 0, len(rows)+1),
	}
	table.Rows = append(table.Rows, header)
	for _, row := range rows {
		out := Row{Data: make([]graph.Thing, len(columns))}
		if len(row.TitleStatements) > 0 && row.TitleStatements[0].Object != nil {
			label := row.TitleStatements[0].Object.Label()
			out.Label = &label
		}
		for i, cell := range row.Cells {
			out.Data[i] = cell.Value()
		}
		table.Rows = append(table.Rows, out)
	}
	return table, nil
}
