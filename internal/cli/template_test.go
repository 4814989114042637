package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
)

type templateFixture struct {
	db       string
	template graph.ThingID
	first    graph.ThingID
	second   graph.ThingID
}

// newTemplateFixture writes a database holding a node shape with two
// exclusively owned property shapes.
func newTemplateFixture(t *testing.T) templateFixture {
	t.Helper()
	ctx := context.Background()
	f := templateFixture{db: filepath.Join(t.TempDir(), "graph.db")}

	st, err := store.Open(f.db)
	require.NoError(t, err)
	defer st.Close()

	create := func(label string, class graph.ThingID) graph.ThingID {
		id, err := st.CreateResource(ctx, graph.CreateResource{Label: label, Classes: []graph.ThingID{class}, Contributor: "tests"})
		require.NoError(t, err)
		return id
	}
	link := func(subject, predicate, object graph.ThingID) {
		_, err := st.CreateStatement(ctx, graph.CreateStatement{Subject: subject, Predicate: predicate, Object: object, Contributor: "tests"})
		require.NoError(t, err)
	}

	f.template = create("Measurement", graph.ClassNodeShape)
	f.first = create("value", graph.ClassPropertyShape)
	f.second = create("unit", graph.ClassPropertyShape)
	link(f.first, graph.PredicateSHPath, graph.PredicateDescription)
	link(f.second, graph.PredicateSHPath, graph.PredicateDescription)
	link(f.template, graph.PredicateSHProperty, f.first)
	link(f.template, graph.PredicateSHProperty, f.second)
	return f
}

func TestTemplateProperties(t *testing.T) {
	f := newTemplateFixture(t)

	out, _, err := runCLI(t, "--db", f.db, "--format", "json", "template", "properties", string(f.template), string(f.second))
	require.NoError(t, err, out)

	var result PropertiesResult
	require.NoError(t, json.Unmarshal(decodeResponse(t, out).Data, &result))
	assert.Equal(t, f.template, result.TemplateID)
	assert.Equal(t, []graph.ThingID{f.second}, result.Properties)
	assert.Equal(t, []graph.ThingID{f.first}, result.Removed)
	assert.Equal(t, []graph.ThingID{f.first}, result.Deleted)
}

func TestTemplatePropertiesText(t *testing.T) {
	f := newTemplateFixture(t)

	out, _, err := runCLI(t, "--db", f.db, "template", "properties", string(f.template), string(f.second), string(f.first))
	require.NoError(t, err)
	assert.Contains(t, out, "has 2 property shape(s); 0 removed, 0 deleted")
}

func TestTemplatePropertiesRejected(t *testing.T) {
	f := newTemplateFixture(t)

	out, _, err := runCLI(t, "--db", f.db, "--format", "json", "template", "properties", string(f.first))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "TEMPLATE_NOT_FOUND", decodeResponse(t, out).Error.Code)

	out, _, err = runCLI(t, "--db", f.db, "--format", "json", "template", "properties", string(f.template), string(f.template))
	require.Error(t, err)
	assert.Equal(t, "THING_IS_NOT_A_PROPERTY_SHAPE", decodeResponse(t, out).Error.Code)
}

func TestTemplatePropertiesRequiresTemplateID(t *testing.T) {
	_, _, err := runCLI(t, "template", "properties")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
