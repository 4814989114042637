package tables

import (
	"github.com/google/uuid"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

// RowCommand is one row of a table command. Data holds thing ids or temp
// ids; a nil entry is an empty cell. The label of the header row is
// ignored.
type RowCommand struct {
	Label *string
	Data  []*string
}

// CreateTableCommand creates a new table.
type CreateTableCommand struct {
	ContributorID    uuid.UUID
	Label            string
	ThingDefinitions actions.ThingDefinitions
	Rows             []RowCommand
}

// UpdateTableCommand updates an existing table. A nil Label keeps the
// current label and nil Rows keep the current contents.
type UpdateTableCommand struct {
	TableID          graph.ThingID
	ContributorID    uuid.UUID
	Label            *string
	ThingDefinitions actions.ThingDefinitions
	Rows             []RowCommand
}
