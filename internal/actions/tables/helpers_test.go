package tables

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
	"github.com/roach88/kgraph/internal/testutil"
)

var contributor = testutil.ContributorID(1)

type fixture struct {
	store   *store.Store
	repo    *testutil.CountingRepository
	service *Service
	reader  *Reader
}

func newFixture(t *testing.T, opts ...actions.PipelineOption) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithSequencer(testutil.NewDeterministicClock()),
		store.WithNow(testutil.FixedNow),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	repo := testutil.NewCountingRepository(s)
	return &fixture{
		store:   s,
		repo:    repo,
		service: NewService(repo, opts...),
		reader:  NewReader(repo),
	}
}

func str(s string) *string { return &s }

func (f *fixture) resource(t *testing.T, label string) graph.ThingID {
	t.Helper()
	id, err := f.store.CreateResource(context.Background(), graph.CreateResource{Label: label, Contributor: contributor.String()})
	require.NoError(t, err)
	return id
}

func (f *fixture) literal(t *testing.T, label string) graph.ThingID {
	t.Helper()
	id, err := f.store.CreateLiteral(context.Background(), graph.CreateLiteral{Label: label, Contributor: contributor.String()})
	require.NoError(t, err)
	return id
}

// sample is a 2x3 table: a titled first row with an empty last cell and an
// untitled, fully populated second row.
type sample struct {
	id     graph.ThingID
	values []graph.ThingID
}

func (f *fixture) createSample(t *testing.T) sample {
	t.Helper()
	values := []graph.ThingID{
		f.resource(t, "a"), f.resource(t, "b"),
		f.resource(t, "c"), f.resource(t, "d"), f.resource(t, "e"),
	}
	v := func(i int) *string { return str(string(values[i])) }

	id, err := f.service.Create(context.Background(), CreateTableCommand{
		ContributorID: contributor,
		Label:         "Measurements",
		ThingDefinitions: actions.ThingDefinitions{
			Literals: map[string]actions.LiteralDefinition{
				"#c1": {Label: "Column_1_Title"},
				"#c2": {Label: "Column_2_Title"},
				"#c3": {Label: "Column_3_Title"},
			},
		},
		Rows: []RowCommand{
			{Data: []*string{str("#c1"), str("#c2"), str("#c3")}},
			{Label: str("Row 1"), Data: []*string{v(0), v(1), nil}},
			{Data: []*string{v(2), v(3), v(4)}},
		},
	})
	require.NoError(t, err)
	f.repo.Reset()
	return sample{id: id, values: values}
}

// asUpdate turns a read table back into an update command referencing
// the persisted things.
func asUpdate(table Table) UpdateTableCommand {
	rows := make([]RowCommand, len(table.Rows))
	for i, row := range table.Rows {
		rows[i].Label = row.Label
		rows[i].Data = make([]*string, len(row.Data))
		for j, thing := range row.Data {
			if thing != nil {
				rows[i].Data[j] = str(string(thing.ID()))
			}
		}
	}
	return UpdateTableCommand{
		TableID:       table.ID,
		ContributorID: contributor,
		Rows:          rows,
	}
}

func (f *fixture) read(t *testing.T, id graph.ThingID) Table {
	t.Helper()
	table, err := f.reader.FindByID(context.Background(), id)
	require.NoError(t, err)
	return table
}

func (f *fixture) load(t *testing.T, id graph.ThingID) ([]ColumnGraph, []RowGraph) {
	t.Helper()
	columns, rows, err := loadTableGraph(context.Background(), f.store, id)
	require.NoError(t, err)
	return columns, rows
}

func labelsOf(things []graph.Thing) []string {
	out := make([]string, len(things))
	for i, th := range things {
		if th != nil {
			out[i] = th.Label()
		}
	}
	return out
}
