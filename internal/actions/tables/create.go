package tables

import (
	"context"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

type createStep = actions.Step[CreateTableCommand, CreateTableState]

func (s *Service) createSteps() []createStep {
	return []createStep{
		actions.Validator("temp-ids", s.validateCreateTempIDs),
		actions.Validator("label", s.validateCreateLabel),
		actions.Validator("thing-definitions", s.validateCreateDefinitions),
		actions.Validator("rows", s.validateCreateRows),
		actions.Mutator("table", s.createTable),
		actions.Mutator("things", s.createThings),
		actions.Mutator("columns", s.createColumns),
		actions.Mutator("rows", s.createRows),
		actions.Mutator("cells", s.createCells),
	}
}

func (s *Service) validateCreateTempIDs(_ context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	return state, actions.ValidateTempIDs(cmd.ThingDefinitions.TempIDs())
}

func (s *Service) validateCreateLabel(_ context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	if !graph.IsValidLabel(cmd.Label) {
		return state, graph.InvalidLabel("label")
	}
	return state, nil
}

func (s *Service) validateCreateDefinitions(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	defs := cmd.ThingDefinitions
	return state, s.definitions.Validate(ctx, defs, defs.Declared(), state.Cache)
}

func (s *Service) validateCreateRows(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	return state, s.rows.validate(ctx, cmd.Rows, cmd.ThingDefinitions, state.Cache)
}

func (s *Service) createTable(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	id, err := s.repo.CreateResource(ctx, graph.CreateResource{
		Label:       cmd.Label,
		Classes:     []graph.ThingID{graph.ClassTable},
		Contributor: cmd.ContributorID.String(),
	})
	if err != nil {
		return state, err
	}
	state.TableID = id
	return state, nil
}

func (s *Service) createThings(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	created, err := s.subgraphs.Create(ctx, actions.Subgraph{
		Contributor: cmd.ContributorID.String(),
		Definitions: cmd.ThingDefinitions,
		Validated:   state.Cache,
	})
	if err != nil {
		return state, err
	}
	state.TempIDToThingID = created
	return state, nil
}

func (s *Service) createColumns(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	header := cmd.Rows[0].Data
	columns := make([]graph.ThingID, 0, len(header))
	for i, value := range header {
		title := resolvedID(*value, state.Cache, state.TempIDToThingID)
		id, err := w.createColumn(ctx, state.TableID, i, title)
		if err != nil {
			return state, err
		}
		columns = append(columns, id)
	}
	state.Columns = columns
	return state, nil
}

func (s *Service) createRows(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	data := cmd.Rows[1:]
	rows := make([]graph.ThingID, 0, len(data))
	for i, row := range data {
		id, err := w.createRow(ctx, state.TableID, i, row.Label)
		if err != nil {
			return state, err
		}
		rows = append(rows, id)
	}
	state.Rows = rows
	return state, nil
}

func (s *Service) createCells(ctx context.Context, cmd CreateTableCommand, state CreateTableState) (CreateTableState, error) {
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	for i, row := range cmd.Rows[1:] {
		for j, value := range row.Data {
			if _, err := w.createCell(ctx, state.Rows[i], state.Columns[j], valueID(value, state.Cache, state.TempIDToThingID)); err != nil {
				return state, err
			}
		}
	}
	return state, nil
}

// valueID resolves an optional cell value.
func valueID(value *string, cache actions.ValidationCache, created map[string]graph.ThingID) *graph.ThingID {
	if value == nil {
		return nil
	}
	id := resolvedID(*value, cache, created)
	return &id
}
