package actions

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

// existingObjects builds statements S1..Sn pointing at ids, in order.
func existingObjects(ids ...graph.ThingID) []graph.Statement {
	out := make([]graph.Statement, len(ids))
	for i, id := range ids {
		out[i] = graph.Statement{
			ID:     graph.StatementID(fmt.Sprintf("S%d", i+1)),
			Object: graph.Resource{ThingID: id},
			Seq:    int64(i + 1),
		}
	}
	return out
}

func planSequence(existing []graph.Statement, desired ...graph.ThingID) Plan[graph.ThingID] {
	return PlanSequence(existing, desired, objectKey, identity)
}

func planSet(existing []graph.Statement, desired ...graph.ThingID) Plan[graph.ThingID] {
	return PlanSet(existing, desired, objectKey, identity)
}

func TestPlanSequence_RemoveMiddleKeepsNeighbours(t *testing.T) {
	plan := planSequence(existingObjects("A", "B", "C"), "A", "C")

	assert.Equal(t, []graph.StatementID{"S1", "S3"}, plan.Keep)
	assert.Equal(t, []graph.StatementID{"S2"}, plan.Delete)
	assert.Empty(t, plan.Create)
}

func TestPlanSequence_ShiftedWindow(t *testing.T) {
	plan := planSequence(existingObjects("R1", "R2"), "R2", "R3")

	assert.Equal(t, []graph.StatementID{"S2"}, plan.Keep)
	assert.Equal(t, []graph.StatementID{"S1"}, plan.Delete)
	assert.Equal(t, []graph.ThingID{"R3"}, plan.Create)
}

func TestPlanSequence_Identical(t *testing.T) {
	plan := planSequence(existingObjects("A", "B"), "A", "B")

	assert.True(t, plan.IsNoop())
	assert.Equal(t, []graph.StatementID{"S1", "S2"}, plan.Keep)
}

func TestPlanSequence_TruncateAndExtend(t *testing.T) {
	shorter := planSequence(existingObjects("A", "B", "C"), "A")
	assert.Equal(t, []graph.StatementID{"S2", "S3"}, shorter.Delete)
	assert.Empty(t, shorter.Create)

	longer := planSequence(existingObjects("A"), "A", "B", "C")
	assert.Empty(t, longer.Delete)
	assert.Equal(t, []graph.ThingID{"B", "C"}, longer.Create)

	fromEmpty := planSequence(nil, "A", "B")
	assert.Equal(t, []graph.ThingID{"A", "B"}, fromEmpty.Create)

	toEmpty := planSequence(existingObjects("A", "B"))
	assert.Equal(t, []graph.StatementID{"S1", "S2"}, toEmpty.Delete)
}

func TestPlanSequence_InsertionRecreatesTail(t *testing.T) {
	plan := planSequence(existingObjects("A", "C"), "A", "B", "C")

	assert.Equal(t, []graph.StatementID{"S1"}, plan.Keep)
	assert.Equal(t, []graph.StatementID{"S2"}, plan.Delete, "C must follow the new B")
	assert.Equal(t, []graph.ThingID{"B", "C"}, plan.Create)
}

func TestPlanSequence_Reorder(t *testing.T) {
	plan := planSequence(existingObjects("A", "B", "C"), "C", "B", "A")

	assert.Equal(t, []graph.StatementID{"S3"}, plan.Keep)
	assert.Equal(t, []graph.StatementID{"S1", "S2"}, plan.Delete)
	assert.Equal(t, []graph.ThingID{"B", "A"}, plan.Create)
}

func TestPlanSet_Symmetry(t *testing.T) {
	cases := []struct {
		existing []graph.ThingID
		desired  []graph.ThingID
	}{
		{nil, nil},
		{nil, []graph.ThingID{"A", "B"}},
		{[]graph.ThingID{"A", "B"}, nil},
		{[]graph.ThingID{"A", "B", "C"}, []graph.ThingID{"C", "A"}},
		{[]graph.ThingID{"A", "B"}, []graph.ThingID{"B", "C", "D"}},
		{[]graph.ThingID{"A", "B", "C"}, []graph.ThingID{"D", "E"}},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v->%v", tc.existing, tc.desired), func(t *testing.T) {
			existing := existingObjects(tc.existing...)
			plan := planSet(existing, tc.desired...)

			onlyExisting := difference(tc.existing, tc.desired)
			onlyDesired := difference(tc.desired, tc.existing)
			assert.Equal(t, len(onlyExisting)+len(onlyDesired), len(plan.Delete)+len(plan.Create))

			result := map[graph.ThingID]struct{}{}
			byID := map[graph.StatementID]graph.ThingID{}
			for _, st := range existing {
				byID[st.ID] = st.ObjectID()
			}
			for _, id := range plan.Keep {
				result[byID[id]] = struct{}{}
			}
			for _, id := range plan.Create {
				result[id] = struct{}{}
			}
			assert.ElementsMatch(t, tc.desired, keys(result))
		})
	}
}

func TestPlanSet_DuplicateDesiredCreatedOnce(t *testing.T) {
	plan := planSet(existingObjects("A", "A"), "A", "B", "B")

	assert.Equal(t, []graph.StatementID{"S1"}, plan.Keep)
	assert.Equal(t, []graph.StatementID{"S2"}, plan.Delete)
	assert.Equal(t, []graph.ThingID{"B"}, plan.Create)
}

func TestUpdateLiteralSet_KeyedByLabel(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	subject := resource(t, repo, "template")
	keep := link(t, repo, subject, graph.PredicateDescription, literal(t, repo, "kept"))
	drop := link(t, repo, subject, graph.PredicateDescription, literal(t, repo, "dropped"))
	repo.Reset()

	u := NewStatementCollectionUpdater(repo, repo)
	change, err := u.UpdateLiteralSet(ctx, CollectionTarget{Contributor: contributor, Subject: subject, Predicate: graph.PredicateDescription},
		[]LiteralValue{{Label: "added"}, {Label: "kept"}})
	require.NoError(t, err)

	assert.Equal(t, []graph.StatementID{drop}, change.Deleted)
	assert.Len(t, change.Created, 1)
	assert.ElementsMatch(t, []string{"kept", "added"}, labels(t, repo, subject, graph.PredicateDescription))
	assert.NotContains(t, repo.DeletedStatements(), keep)
	assert.Equal(t, 1, repo.Mutations().StatementsDeleted)
}

func TestUpdateLiteralSequence_ExcessTrailingDeleted(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	subject := resource(t, repo, "subject")
	for _, l := range []string{"a", "b", "c", "d"} {
		link(t, repo, subject, graph.PredicateDescription, literal(t, repo, l))
	}
	repo.Reset()

	u := NewStatementCollectionUpdater(repo, repo)
	change, err := u.UpdateLiteralSequence(ctx, CollectionTarget{Contributor: contributor, Subject: subject, Predicate: graph.PredicateDescription},
		[]LiteralValue{{Label: "a"}, {Label: "b"}})
	require.NoError(t, err)

	assert.Len(t, change.Deleted, 2)
	assert.Empty(t, change.Created)
	assert.Equal(t, []string{"a", "b"}, labels(t, repo, subject, graph.PredicateDescription))
}

func TestUpdateObjectSequence_IdenticalIsNoop(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	subject := resource(t, repo, "subject")
	a := resource(t, repo, "a")
	b := resource(t, repo, "b")
	link(t, repo, subject, graph.PredicateSHProperty, a)
	link(t, repo, subject, graph.PredicateSHProperty, b)
	repo.Reset()

	u := NewStatementCollectionUpdater(repo, repo)
	change, err := u.UpdateObjectSequence(ctx, CollectionTarget{Subject: subject, Predicate: graph.PredicateSHProperty}, []graph.ThingID{a, b})
	require.NoError(t, err)

	assert.Empty(t, change.Created)
	assert.Empty(t, change.Deleted)
	assert.Zero(t, repo.Mutations().Total())
}

func TestUpdateObjectSet_AddsAndRemoves(t *testing.T) {
	repo := createTestRepo(t)
	ctx := context.Background()
	subject := resource(t, repo, "subject")
	a := resource(t, repo, "a")
	b := resource(t, repo, "b")
	c := resource(t, repo, "c")
	link(t, repo, subject, graph.PredicateSHProperty, a)
	link(t, repo, subject, graph.PredicateSHProperty, b)

	u := NewStatementCollectionUpdater(repo, repo)
	_, err := u.UpdateObjectSet(ctx, CollectionTarget{Subject: subject, Predicate: graph.PredicateSHProperty}, []graph.ThingID{c, a})
	require.NoError(t, err)

	assert.Equal(t, []graph.ThingID{a, c}, objects(t, repo, subject, graph.PredicateSHProperty))
}

func difference(a, b []graph.ThingID) []graph.ThingID {
	in := map[graph.ThingID]struct{}{}
	for _, x := range b {
		in[x] = struct{}{}
	}
	var out []graph.ThingID
	for _, x := range a {
		if _, ok := in[x]; !ok {
			out = append(out, x)
		}
	}
	return out
}

func keys(m map[graph.ThingID]struct{}) []graph.ThingID {
	out := make([]graph.ThingID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
