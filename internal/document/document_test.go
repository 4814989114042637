package document

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
	"github.com/roach88/kgraph/internal/testutil"
)

var contributor = testutil.ContributorID(1)

func str(s string) *string { return &s }

func loadResults(t *testing.T) *Document {
	t.Helper()
	doc, err := newTestLoader(t).LoadFile(filepath.Join("testdata", "results.yaml"))
	require.NoError(t, err)
	return doc
}

func TestCreateCommand(t *testing.T) {
	cmd := loadResults(t).CreateCommand(contributor)

	assert.Equal(t, contributor, cmd.ContributorID)
	assert.Equal(t, "Results", cmd.Label)
	assert.Equal(t, actions.ResourceDefinition{Label: "BERT", Classes: []string{"#model"}}, cmd.ThingDefinitions.Resources["#m1"])
	assert.Equal(t, actions.ClassDefinition{Label: "Model", URI: "https://example.org/Model"}, cmd.ThingDefinitions.Classes["#model"])
	assert.Nil(t, cmd.ThingDefinitions.Lists)
	require.Len(t, cmd.Rows, 3)
	assert.Equal(t, []*string{str("#m1"), str("#v1")}, cmd.Rows[1].Data)
}

func TestUpdateCommand_KeepsAbsentParts(t *testing.T) {
	doc := &Document{}
	cmd := doc.UpdateCommand("T1", contributor)

	assert.Equal(t, graph.ThingID("T1"), cmd.TableID)
	assert.Nil(t, cmd.Label)
	assert.Nil(t, cmd.Rows)
	assert.True(t, cmd.ThingDefinitions.IsEmpty())
}

func TestCheck(t *testing.T) {
	header := Row{Data: []*string{str("#c1")}}
	literals := map[string]Literal{"#c1": {Label: "A"}}

	cases := []struct {
		name string
		doc  Document
		mode Mode
		code graph.ErrorCode
	}{
		{name: "valid", doc: Document{Things: Things{Literals: literals}, Rows: []Row{header}}},
		{name: "update without rows", doc: Document{Label: str("Renamed")}, mode: ModeUpdate},
		{name: "create without rows", doc: Document{Label: str("T")}, code: graph.CodeMissingTableRows},
		{name: "update with empty rows", doc: Document{Rows: []Row{}}, mode: ModeUpdate, code: graph.CodeMissingTableRows},
		{
			name: "temp id without prefix",
			doc:  Document{Things: Things{Literals: map[string]Literal{"c1": {Label: "A"}}}, Rows: []Row{header}},
			code: graph.CodeInvalidTempID,
		},
		{
			name: "undeclared cell reference",
			doc: Document{Things: Things{Literals: literals}, Rows: []Row{
				header,
				{Data: []*string{str("#missing")}},
			}},
			code: graph.CodeThingNotDefined,
		},
		{
			name: "undeclared class reference",
			doc: Document{Things: Things{
				Literals:  literals,
				Resources: map[string]Resource{"#r": {Label: "R", Classes: []string{"#nope"}}},
			}, Rows: []Row{header}},
			code: graph.CodeThingNotDefined,
		},
		{
			name: "short row",
			doc:  Document{Things: Things{Literals: literals}, Rows: []Row{header, {Data: nil}}},
			code: graph.CodeMissingTableRowValues,
		},
		{name: "persisted ids are not checked", doc: Document{Rows: []Row{{Data: []*string{str("L1")}}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.doc.Check(tc.mode)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, graph.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestFromTable_RoundTripIsNoop(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithSequencer(testutil.NewDeterministicClock()),
		store.WithNow(testutil.FixedNow),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := testutil.NewCountingRepository(s)
	service := tables.NewService(repo)

	id, err := service.Create(ctx, loadResults(t).CreateCommand(contributor))
	require.NoError(t, err)
	table, err := tables.NewReader(repo).FindByID(ctx, id)
	require.NoError(t, err)

	doc := FromTable(table)
	require.NoError(t, doc.Check(ModeUpdate))
	assert.Equal(t, "Results", *doc.Label)
	require.Len(t, doc.Rows, 3)
	assert.Nil(t, doc.Rows[0].Label)
	assert.Equal(t, "Run 1", *doc.Rows[1].Label)
	assert.Nil(t, doc.Rows[2].Data[1])

	repo.Reset()
	_, err = service.Update(ctx, doc.UpdateCommand(id, contributor))
	require.NoError(t, err)
	assert.Zero(t, repo.Mutations().Total())
}
