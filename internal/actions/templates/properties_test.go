package templates

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
	"github.com/roach88/kgraph/internal/testutil"
)

var contributor = testutil.ContributorID(1)

type fixture struct {
	repo    *testutil.CountingRepository
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithSequencer(testutil.NewDeterministicClock()),
		store.WithNow(testutil.FixedNow),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := testutil.NewCountingRepository(s)
	return &fixture{repo: repo, service: NewService(repo)}
}

func (f *fixture) create(t *testing.T, label string, class graph.ThingID) graph.ThingID {
	t.Helper()
	id, err := f.repo.CreateResource(context.Background(), graph.CreateResource{
		Label:       label,
		Classes:     []graph.ThingID{class},
		Contributor: contributor.String(),
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) link(t *testing.T, subject, predicate, object graph.ThingID) {
	t.Helper()
	_, err := f.repo.CreateStatement(context.Background(), graph.CreateStatement{
		Subject: subject, Predicate: predicate, Object: object, Contributor: contributor.String(),
	})
	require.NoError(t, err)
}

// property creates a property shape with an sh:path.
func (f *fixture) property(t *testing.T, label string) graph.ThingID {
	t.Helper()
	id := f.create(t, label, graph.ClassPropertyShape)
	f.link(t, id, graph.PredicateSHPath, graph.PredicateDescription)
	return id
}

func (f *fixture) properties(t *testing.T, template graph.ThingID) []graph.ThingID {
	t.Helper()
	sts, err := f.repo.FindStatements(context.Background(), graph.StatementQuery{Subject: template, Predicate: graph.PredicateSHProperty})
	require.NoError(t, err)
	out := make([]graph.ThingID, 0, len(sts))
	for _, st := range sts {
		out = append(out, st.ObjectID())
	}
	return out
}

func (f *fixture) exists(t *testing.T, id graph.ThingID) bool {
	t.Helper()
	_, ok, err := f.repo.FindThing(context.Background(), id)
	require.NoError(t, err)
	return ok
}

func TestUpdateProperties_SharedPropertyIsOnlyUnlinked(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "template A", graph.ClassNodeShape)
	b := f.create(t, "template B", graph.ClassNodeShape)
	shared := f.property(t, "shared")
	own := f.property(t, "own")
	f.link(t, a, graph.PredicateSHProperty, shared)
	f.link(t, a, graph.PredicateSHProperty, own)
	f.link(t, b, graph.PredicateSHProperty, shared)

	state, err := f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{
		TemplateID:    a,
		ContributorID: contributor,
		Properties:    []graph.ThingID{own},
	})
	require.NoError(t, err)

	assert.Equal(t, []graph.ThingID{shared}, state.Removed)
	assert.Empty(t, state.Deleted)
	assert.True(t, f.exists(t, shared))
	assert.Equal(t, []graph.ThingID{own}, f.properties(t, a))
	assert.Equal(t, []graph.ThingID{shared}, f.properties(t, b))

	sts, err := f.repo.FindStatements(context.Background(), graph.StatementQuery{Subject: shared})
	require.NoError(t, err)
	assert.Len(t, sts, 1, "the shared property keeps its own statements")
}

func TestUpdateProperties_ExclusivePropertyIsDeleted(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "template A", graph.ClassNodeShape)
	first := f.property(t, "first")
	second := f.property(t, "second")
	f.link(t, a, graph.PredicateSHProperty, first)
	f.link(t, a, graph.PredicateSHProperty, second)

	state, err := f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{
		TemplateID:    a,
		ContributorID: contributor,
		Properties:    []graph.ThingID{second},
	})
	require.NoError(t, err)

	assert.Equal(t, []graph.ThingID{first}, state.Deleted)
	assert.False(t, f.exists(t, first))
	assert.Equal(t, []graph.ThingID{second}, f.properties(t, a))
}

func TestUpdateProperties_AppendsAndKeepsOrder(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "template", graph.ClassNodeShape)
	first := f.property(t, "first")
	second := f.property(t, "second")
	f.link(t, a, graph.PredicateSHProperty, first)
	f.repo.Reset()

	_, err := f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{
		TemplateID:    a,
		ContributorID: contributor,
		Properties:    []graph.ThingID{first, second},
	})
	require.NoError(t, err)

	assert.Equal(t, []graph.ThingID{first, second}, f.properties(t, a))
	assert.Equal(t, 1, f.repo.Mutations().Total())
}

func TestUpdateProperties_Validation(t *testing.T) {
	f := newFixture(t)
	template := f.create(t, "template", graph.ClassNodeShape)
	notAShape := f.create(t, "plain", graph.ClassTable)

	_, err := f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{TemplateID: notAShape})
	assert.True(t, graph.IsCode(err, graph.CodeTemplateNotFound))

	_, err = f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{TemplateID: template, Properties: []graph.ThingID{"R404"}})
	assert.True(t, graph.IsCode(err, graph.CodeThingNotFound))

	_, err = f.service.UpdateProperties(context.Background(), UpdatePropertiesCommand{TemplateID: template, Properties: []graph.ThingID{notAShape}})
	assert.True(t, graph.IsCode(err, graph.CodeThingIsNotAPropertyShape))
	assert.EqualError(t, err, `THING_IS_NOT_A_PROPERTY_SHAPE: Thing "`+string(notAShape)+`" is not a property shape.`)
}
