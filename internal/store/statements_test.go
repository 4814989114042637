package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

func TestFindStatements_FiltersAndOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	table := mustResource(t, s, "table", graph.ClassTable)
	col1 := mustResource(t, s, "col 1", graph.ClassColumn)
	col2 := mustResource(t, s, "col 2", graph.ClassColumn)
	title := mustLiteral(t, s, "Title")

	s2 := mustStatement(t, s, table, graph.PredicateCSVWColumns, col2)
	s1 := mustStatement(t, s, table, graph.PredicateCSVWColumns, col1)
	mustStatement(t, s, col1, graph.PredicateCSVWTitles, title)

	got, err := s.FindStatements(ctx, graph.StatementQuery{Subject: table, Predicate: graph.PredicateCSVWColumns})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []graph.StatementID{s2, s1}, graph.StatementIDs(got), "creation order, not id order")
	assert.Equal(t, col2, got[0].ObjectID())
	assert.Equal(t, graph.KindResource, got[0].Object.Kind())
	assert.Equal(t, []graph.ThingID{graph.ClassColumn}, got[0].Object.(graph.Resource).Classes)

	byObject, err := s.FindStatements(ctx, graph.StatementQuery{Object: col1})
	require.NoError(t, err)
	assert.Equal(t, []graph.StatementID{s1}, graph.StatementIDs(byObject))

	byLabel, err := s.FindStatements(ctx, graph.StatementQuery{ObjectLabel: "Title"})
	require.NoError(t, err)
	require.Len(t, byLabel, 1)
	assert.Equal(t, graph.Literal{
		ThingID:   title,
		Text:      "Title",
		Datatype:  graph.DatatypeString,
		CreatedBy: "tester",
		CreatedAt: fixedNow,
	}, byLabel[0].Object)
}

func TestFindStatements_Paging(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	list := mustResource(t, s, "list", graph.ClassList)
	var ids []graph.StatementID
	for _, label := range []string{"a", "b", "c", "d"} {
		ids = append(ids, mustStatement(t, s, list, graph.PredicateHasListElement, mustLiteral(t, s, label)))
	}

	page, err := s.FindStatements(ctx, graph.StatementQuery{Subject: list, Page: graph.Page{Offset: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, ids[1:3], graph.StatementIDs(page))

	all, err := s.FindStatements(ctx, graph.StatementQuery{Subject: list, Page: graph.AllPages})
	require.NoError(t, err)
	assert.Equal(t, ids, graph.StatementIDs(all))
}

func TestFindStatements_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.FindStatements(context.Background(), graph.StatementQuery{Subject: "R404"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCreateStatement_RequiresExistingThings(t *testing.T) {
	s := createTestStore(t)

	_, err := s.CreateStatement(context.Background(), graph.CreateStatement{
		Subject:   "R404",
		Predicate: graph.PredicateCSVWRows,
		Object:    "R405",
	})
	assert.Error(t, err)
}

func TestDeleteStatements_Batch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	subject := mustResource(t, s, "s")
	var ids []graph.StatementID
	for i := 0; i < deleteBatchSize+3; i++ {
		ids = append(ids, mustStatement(t, s, subject, graph.PredicateDescription, mustLiteral(t, s, "x")))
	}

	require.NoError(t, s.DeleteStatements(ctx, append(ids, "S-unknown")))

	left, err := s.FindStatements(ctx, graph.StatementQuery{Subject: subject})
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.NoError(t, s.DeleteStatements(ctx, nil))
}
