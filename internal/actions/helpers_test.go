package actions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
	"github.com/roach88/kgraph/internal/testutil"
)

const contributor = "00000000-0000-0000-0000-000000000001"

// createTestRepo opens a fresh store wrapped in a counting decorator.
func createTestRepo(t *testing.T) *testutil.CountingRepository {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithSequencer(testutil.NewDeterministicClock()),
		store.WithNow(testutil.FixedNow),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return testutil.NewCountingRepository(s)
}

func literal(t *testing.T, repo graph.Repository, label string) graph.ThingID {
	t.Helper()
	id, err := repo.CreateLiteral(context.Background(), graph.CreateLiteral{Label: label, Contributor: contributor})
	require.NoError(t, err)
	return id
}

func resource(t *testing.T, repo graph.Repository, label string, classes ...graph.ThingID) graph.ThingID {
	t.Helper()
	id, err := repo.CreateResource(context.Background(), graph.CreateResource{Label: label, Classes: classes, Contributor: contributor})
	require.NoError(t, err)
	return id
}

func link(t *testing.T, repo graph.Repository, subject, predicate, object graph.ThingID) graph.StatementID {
	t.Helper()
	id, err := repo.CreateStatement(context.Background(), graph.CreateStatement{
		Subject:     subject,
		Predicate:   predicate,
		Object:      object,
		Contributor: contributor,
	})
	require.NoError(t, err)
	return id
}

func objects(t *testing.T, repo graph.Repository, subject, predicate graph.ThingID) []graph.ThingID {
	t.Helper()
	sts, err := repo.FindStatements(context.Background(), graph.StatementQuery{Subject: subject, Predicate: predicate})
	require.NoError(t, err)
	ids := make([]graph.ThingID, 0, len(sts))
	for _, st := range sts {
		ids = append(ids, st.ObjectID())
	}
	return ids
}

func labels(t *testing.T, repo graph.Repository, subject, predicate graph.ThingID) []string {
	t.Helper()
	sts, err := repo.FindStatements(context.Background(), graph.StatementQuery{Subject: subject, Predicate: predicate})
	require.NoError(t, err)
	out := make([]string, 0, len(sts))
	for _, st := range sts {
		out = append(out, st.Object.Label())
	}
	return out
}
