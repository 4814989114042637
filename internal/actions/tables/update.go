package tables

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

type updateStep = actions.Step[UpdateTableCommand, UpdateTableState]

func (s *Service) updateSteps() []updateStep {
	return []updateStep{
		actions.Validator("table", s.validateTable),
		actions.Validator("label", s.validateUpdateLabel),
		actions.Validator("temp-ids", s.validateUpdateTempIDs),
		actions.Validator("thing-definitions", s.validateUpdateDefinitions),
		actions.Validator("rows", s.validateUpdateRows),
		actions.Validator("existing-graph", s.loadExisting),
		actions.Mutator("label", s.updateLabel),
		actions.Mutator("things", s.updateThings),
		actions.Mutator("columns", s.updateColumns),
		actions.Mutator("rows", s.updateRows),
		actions.Mutator("cells", s.updateCells),
	}
}

func (s *Service) validateTable(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	thing, ok, err := s.repo.FindThing(ctx, cmd.TableID)
	if err != nil {
		return state, fmt.Errorf("load table %s: %w", cmd.TableID, err)
	}
	table, isResource := thing.(graph.Resource)
	if !ok || !isResource || !table.HasClass(graph.ClassTable) {
		return state, TableNotFound(cmd.TableID)
	}
	if !table.Modifiable {
		return state, TableNotModifiable(cmd.TableID)
	}
	state.Table = table
	return state, nil
}

func (s *Service) validateUpdateLabel(_ context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Label != nil && !graph.IsValidLabel(*cmd.Label) {
		return state, graph.InvalidLabel("label")
	}
	return state, nil
}

func (s *Service) validateUpdateTempIDs(_ context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	return state, actions.ValidateTempIDs(cmd.ThingDefinitions.TempIDs())
}

func (s *Service) validateUpdateDefinitions(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	defs := cmd.ThingDefinitions
	return state, s.definitions.Validate(ctx, defs, defs.Declared(), state.Cache)
}

func (s *Service) validateUpdateRows(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Rows == nil {
		return state, nil
	}
	return state, s.rows.validate(ctx, cmd.Rows, cmd.ThingDefinitions, state.Cache)
}

func (s *Service) loadExisting(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Rows == nil {
		return state, nil
	}
	columns, rows, err := loadTableGraph(ctx, s.repo, cmd.TableID)
	if err != nil {
		return state, err
	}
	state.ExistingColumns = columns
	state.ExistingRows = rows
	return state, nil
}

func (s *Service) updateLabel(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Label == nil || *cmd.Label == state.Table.Text {
		return state, nil
	}
	if err := s.repo.UpdateResourceLabel(ctx, cmd.TableID, *cmd.Label); err != nil {
		return state, err
	}
	state.Table.Text = *cmd.Label
	return state, nil
}

func (s *Service) updateThings(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.ThingDefinitions.IsEmpty() {
		return state, nil
	}
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

// updateColumns matches header entries to existing columns by position.
// A kept column whose title literal has a different label is relinked to
// the new title; surplus columns are scheduled for deletion.
func (s *Service) updateColumns(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Rows == nil {
		return state, nil
	}
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	header := cmd.Rows[0].Data
	existing := state.ExistingColumns

	columns := make([]graph.ThingID, 0, len(header))
	for i, value := range header {
		title := resolvedID(*value, state.Cache, state.TempIDToThingID)
		if i >= len(existing) {
			id, err := w.createColumn(ctx, cmd.TableID, i, title)
			if err != nil {
				return state, err
			}
			columns = append(columns, id)
			continue
		}

		col := existing[i]
		columns = append(columns, col.ColumnID)
		label, _ := labelOf(*value, cmd.ThingDefinitions, state.Cache)
		if sameTitle(col.TitleStatements, title, label) {
			continue
		}
		state.StatementsToDelete = state.StatementsToDelete.With(graph.StatementIDs(col.TitleStatements)...)
		if _, err := w.link(ctx, col.ColumnID, graph.PredicateCSVWTitles, title); err != nil {
			return state, fmt.Errorf("relink title of column %s: %w", col.ColumnID, err)
		}
	}

	for _, col := range existing[min(len(header), len(existing)):] {
		state.ThingsToDelete = state.ThingsToDelete.With(col.ColumnID)
		state.StatementsToDelete = state.StatementsToDelete.With(col.StatementIDs...)
	}

	state.Columns = columns
	return state, nil
}

// sameTitle reports whether titles already consist of one link to title
// or to a literal with the same label.
func sameTitle(titles []graph.Statement, title graph.ThingID, label string) bool {
	if len(titles) != 1 {
		return false
	}
	current := titles[0]
	if current.ObjectID() == title {
		return true
	}
	return current.Object != nil && graph.SameLabel(current.Object.Label(), label)
}

// updateRows matches data rows to existing rows by position. Row titles
// belong to the row and are updated in place.
func (s *Service) updateRows(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Rows == nil {
		return state, nil
	}
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	data := cmd.Rows[1:]
	existing := state.ExistingRows

	rows := make([]graph.ThingID, 0, len(data))
	for i, row := range data {
		if i >= len(existing) {
			id, err := w.createRow(ctx, cmd.TableID, i, row.Label)
			if err != nil {
				return state, err
			}
			rows = append(rows, id)
			continue
		}

		current := existing[i]
		rows = append(rows, current.RowID)
		target := actions.CollectionTarget{
			Contributor: cmd.ContributorID.String(),
			Subject:     current.RowID,
			Predicate:   graph.PredicateCSVWTitles,
		}
		if _, err := s.titles.UpdateLiteral(ctx, target, current.TitleStatements, row.Label, graph.DatatypeString); err != nil {
			return state, fmt.Errorf("update title of row %s: %w", current.RowID, err)
		}
	}

	for _, row := range existing[min(len(data), len(existing)):] {
		state.ThingsToDelete = state.ThingsToDelete.With(row.RowID)
		state.StatementsToDelete = state.StatementsToDelete.With(row.StatementIDs...)
	}

	state.Rows = rows
	return state, nil
}

// updateCells reconciles every cell of the updated table, cascades the
// deletion of rows and columns to their cells and finally applies every
// scheduled deletion.
func (s *Service) updateCells(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	if cmd.Rows != nil {
		var err error
		state, err = s.reconcileCells(ctx, cmd, state)
		if err != nil {
			return state, err
		}
	}
	return state, s.flush(ctx, state)
}

func (s *Service) reconcileCells(ctx context.Context, cmd UpdateTableCommand, state UpdateTableState) (UpdateTableState, error) {
	w := partWriter{writer: s.repo, contributor: cmd.ContributorID.String()}
	data := cmd.Rows[1:]

	for i, row := range data {
		var cells []*CellGraph
		if i < len(state.ExistingRows) {
			cells = state.ExistingRows[i].Cells
		}

		for j, value := range row.Data {
			desired := valueID(value, state.Cache, state.TempIDToThingID)
			var cell *CellGraph
			if j < len(cells) {
				cell = cells[j]
			}

			if cell == nil {
				if _, err := w.createCell(ctx, state.Rows[i], state.Columns[j], desired); err != nil {
					return state, err
				}
				continue
			}
			if sameValue(cell.ValueStatements, desired) {
				continue
			}

			state.StatementsToDelete = state.StatementsToDelete.With(graph.StatementIDs(cell.ValueStatements)...)
			if desired == nil {
				continue
			}
			if _, err := w.link(ctx, cell.CellID, graph.PredicateCSVWValue, *desired); err != nil {
				return state, fmt.Errorf("relink value of cell %s: %w", cell.CellID, err)
			}
		}

		for _, cell := range cells[min(len(row.Data), len(cells)):] {
			state = scheduleCell(state, cell)
		}
	}

	for _, row := range state.ExistingRows[min(len(data), len(state.ExistingRows)):] {
		for _, cell := range row.Cells {
			state = scheduleCell(state, cell)
		}
	}
	return state, nil
}

func sameValue(values []graph.Statement, desired *graph.ThingID) bool {
	if desired == nil {
		return len(values) == 0
	}
	return len(values) == 1 && values[0].ObjectID() == *desired
}

func scheduleCell(state UpdateTableState, cell *CellGraph) UpdateTableState {
	if cell == nil {
		return state
	}
	state.ThingsToDelete = state.ThingsToDelete.With(cell.CellID)
	state.StatementsToDelete = state.StatementsToDelete.With(cell.StatementIDs...)
	return state
}

// flush deletes every scheduled statement, then every scheduled resource.
func (s *Service) flush(ctx context.Context, state UpdateTableState) error {
	if len(state.StatementsToDelete) == 0 && len(state.ThingsToDelete) == 0 {
		return nil
	}
	slog.Debug("deleting table parts",
		"table", state.Table.ThingID,
		"statements", len(state.StatementsToDelete),
		"things", len(state.ThingsToDelete),
	)

	if len(state.StatementsToDelete) > 0 {
		if err := s.repo.DeleteStatements(ctx, state.StatementsToDelete.Sorted()); err != nil {
			return fmt.Errorf("delete table statements: %w", err)
		}
	}
	for _, id := range state.ThingsToDelete.Sorted() {
		if err := s.repo.DeleteResource(ctx, id); err != nil {
			return fmt.Errorf("delete table part %s: %w", id, err)
		}
	}
	return nil
}
