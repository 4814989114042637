package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/testutil"
)

var fixedNow = testutil.FixedTime

// createTestStore creates a new store in a temp dir with deterministic
// ids and timestamps.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithSequencer(testutil.NewDeterministicClock()),
		WithNow(testutil.FixedNow),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustLiteral(t *testing.T, s *Store, label string) graph.ThingID {
	t.Helper()
	id, err := s.CreateLiteral(context.Background(), graph.CreateLiteral{Label: label, Contributor: "tester"})
	require.NoError(t, err)
	return id
}

func mustResource(t *testing.T, s *Store, label string, classes ...graph.ThingID) graph.ThingID {
	t.Helper()
	id, err := s.CreateResource(context.Background(), graph.CreateResource{Label: label, Classes: classes, Contributor: "tester"})
	require.NoError(t, err)
	return id
}

func mustStatement(t *testing.T, s *Store, subject, predicate, object graph.ThingID) graph.StatementID {
	t.Helper()
	id, err := s.CreateStatement(context.Background(), graph.CreateStatement{
		Subject:     subject,
		Predicate:   predicate,
		Object:      object,
		Contributor: "tester",
	})
	require.NoError(t, err)
	return id
}
