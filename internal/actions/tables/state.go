package tables

import (
	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

// CreateTableState is threaded through the create pipeline.
type CreateTableState struct {
	Cache           actions.ValidationCache
	TempIDToThingID map[string]graph.ThingID
	TableID         graph.ThingID

	// Columns and Rows hold the created resources by position. Rows
	// excludes the header.
	Columns []graph.ThingID
	Rows    []graph.ThingID
}

// NewCreateTableState returns the initial state of a create run.
func NewCreateTableState() CreateTableState {
	return CreateTableState{
		Cache:           actions.NewValidationCache(),
		TempIDToThingID: map[string]graph.ThingID{},
	}
}

// UpdateTableState is threaded through the update pipeline.
type UpdateTableState struct {
	Table           graph.Resource
	Cache           actions.ValidationCache
	TempIDToThingID map[string]graph.ThingID

	// ExistingColumns and ExistingRows are the persisted table, loaded
	// before any mutation.
	ExistingColumns []ColumnGraph
	ExistingRows    []RowGraph

	// Columns and Rows are the resources of the updated table by position.
	Columns []graph.ThingID
	Rows    []graph.ThingID

	// ThingsToDelete and StatementsToDelete are applied by the last step.
	ThingsToDelete     actions.Set[graph.ThingID]
	StatementsToDelete actions.Set[graph.StatementID]
}

// NewUpdateTableState returns the initial state of an update run.
func NewUpdateTableState() UpdateTableState {
	return UpdateTableState{
		Cache:              actions.NewValidationCache(),
		TempIDToThingID:    map[string]graph.ThingID{},
		ThingsToDelete:     actions.NewSet[graph.ThingID](),
		StatementsToDelete: actions.NewSet[graph.StatementID](),
	}
}

// resolvedID maps a validated reference to the id of the thing it denotes.
func resolvedID(ref string, cache actions.ValidationCache, created map[string]graph.ThingID) graph.ThingID {
	if actions.IsTempID(ref) {
		return created[ref]
	}
	if r, ok := cache[ref]; ok && r.Thing != nil {
		return r.Thing.ID()
	}
	return graph.ThingID(ref)
}
