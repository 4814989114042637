package tables

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/kgraph/internal/graph"
)

// WriteText writes t as plain text, one line per row. Empty cells are
// shown as "-".
//
//	label: Results
//	modifiable: true
//	header: Model | Accuracy
//	row 1 [Run 1]: BERT | 0.91
//	row 2: BERT | -
func (t Table) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "label: %s\n", t.Label)
	fmt.Fprintf(&b, "modifiable: %t\n", t.Modifiable)
	if len(t.Rows) > 0 {
		fmt.Fprintf(&b, "header: %s\n", joinCells(t.Rows[0].Data))
		for i, row := range t.Rows[1:] {
			fmt.Fprintf(&b, "row %d", i+1)
			if row.Label != nil {
				fmt.Fprintf(&b, " [%s]", *row.Label)
			}
			fmt.Fprintf(&b, ": %s\n", joinCells(row.Data))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func joinCells(things []graph.Thing) string {
	labels := make([]string, len(things))
	for i, thing := range things {
		if thing == nil {
			labels[i] = "-"
			continue
		}
		labels[i] = thing.Label()
	}
	return strings.Join(labels, " | ")
}
