package actions

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

func validate(t *testing.T, repo graph.Repository, defs ThingDefinitions) (ValidationCache, error) {
	t.Helper()
	v := NewThingDefinitionValidator(NewResolver(repo), repo)
	cache := NewValidationCache()
	err := v.Validate(context.Background(), defs, defs.Declared(), cache)
	return cache, err
}

func TestThingDefinitionValidator_Valid(t *testing.T) {
	repo := createTestRepo(t)
	class, err := repo.CreateClass(context.Background(), graph.CreateClass{Label: "Paper"})
	require.NoError(t, err)
	element := literal(t, repo, "existing")

	defs := ThingDefinitions{
		Resources: map[string]ResourceDefinition{
			"#r1": {Label: "first", Classes: []string{string(class), "#c1"}},
			"#r2": {Label: "second", Classes: []string{string(class)}},
		},
		Literals:   map[string]LiteralDefinition{"#l1": {Label: "3.14", Datatype: graph.DatatypeDecimal}},
		Predicates: map[string]PredicateDefinition{"#p1": {Label: "has", Description: "multi\nline"}},
		Classes:    map[string]ClassDefinition{"#c1": {Label: "Thing class", URI: "https://example.org/new"}},
		Lists:      map[string]ListDefinition{"#list": {Label: "elements", Elements: []string{"#l1", string(element), "#list"}}},
	}

	cache, err := validate(t, repo, defs)
	require.NoError(t, err)

	for _, id := range []string{"#r1", "#r2", "#l1", "#p1", "#c1", "#list"} {
		assert.Equal(t, Ref{TempID: id}, cache[id], id)
	}
	assert.Equal(t, class, cache[string(class)].Thing.ID())
	assert.Equal(t, element, cache[string(element)].Thing.ID())
	assert.Equal(t, 1, repo.Lookups(class), "class referenced twice is looked up once")
	assert.Equal(t, 1, repo.URILookups("https://example.org/new"))
}

func TestThingDefinitionValidator_Errors(t *testing.T) {
	repo := createTestRepo(t)
	notAClass := resource(t, repo, "plain resource")
	taken, err := repo.CreateClass(context.Background(), graph.CreateClass{Label: "Taken", URI: "https://example.org/taken"})
	require.NoError(t, err)

	tests := []struct {
		name string
		defs ThingDefinitions
		code graph.ErrorCode
	}{
		{
			name: "resource class not found",
			defs: ThingDefinitions{Resources: map[string]ResourceDefinition{"#r": {Label: "r", Classes: []string{"C404"}}}},
			code: graph.CodeThingNotFound,
		},
		{
			name: "resource class is not a class",
			defs: ThingDefinitions{Resources: map[string]ResourceDefinition{"#r": {Label: "r", Classes: []string{string(notAClass)}}}},
			code: graph.CodeThingIsNotAClass,
		},
		{
			name: "temp class reference to a literal",
			defs: ThingDefinitions{
				Resources: map[string]ResourceDefinition{"#r": {Label: "r", Classes: []string{"#l"}}},
				Literals:  map[string]LiteralDefinition{"#l": {Label: "x"}},
			},
			code: graph.CodeThingIsNotAClass,
		},
		{
			name: "reserved class",
			defs: ThingDefinitions{Resources: map[string]ResourceDefinition{"#r": {Label: "r", Classes: []string{string(graph.ClassList)}}}},
			code: graph.CodeReservedClass,
		},
		{
			name: "resource label with newline",
			defs: ThingDefinitions{Resources: map[string]ResourceDefinition{"#r": {Label: "\n"}}},
			code: graph.CodeInvalidLabel,
		},
		{
			name: "predicate label with newline",
			defs: ThingDefinitions{Predicates: map[string]PredicateDefinition{"#p": {Label: "\n"}}},
			code: graph.CodeInvalidLabel,
		},
		{
			name: "class label with newline",
			defs: ThingDefinitions{Classes: map[string]ClassDefinition{"#c": {Label: "\n"}}},
			code: graph.CodeInvalidLabel,
		},
		{
			name: "list label with newline",
			defs: ThingDefinitions{Lists: map[string]ListDefinition{"#l": {Label: "\n"}}},
			code: graph.CodeInvalidLabel,
		},
		{
			name: "literal too long",
			defs: ThingDefinitions{Literals: map[string]LiteralDefinition{"#l": {Label: strings.Repeat("x", graph.MaxLabelLength+1)}}},
			code: graph.CodeInvalidLiteralLabel,
		},
		{
			name: "literal does not parse as datatype",
			defs: ThingDefinitions{Literals: map[string]LiteralDefinition{"#l": {Label: "not a number", Datatype: graph.DatatypeDecimal}}},
			code: graph.CodeInvalidLiteralLabel,
		},
		{
			name: "invalid datatype",
			defs: ThingDefinitions{Literals: map[string]LiteralDefinition{"#l": {Label: "x", Datatype: "foo_bar:string"}}},
			code: graph.CodeInvalidLiteralDatatype,
		},
		{
			name: "class uri not absolute",
			defs: ThingDefinitions{Classes: map[string]ClassDefinition{"#c": {Label: "c", URI: "relative/path"}}},
			code: graph.CodeURINotAbsolute,
		},
		{
			name: "class uri already in use",
			defs: ThingDefinitions{Classes: map[string]ClassDefinition{"#c": {Label: "c", URI: "https://example.org/taken"}}},
			code: graph.CodeURIAlreadyInUse,
		},
		{
			name: "list element not defined",
			defs: ThingDefinitions{Lists: map[string]ListDefinition{"#l": {Label: "l", Elements: []string{"#nope"}}}},
			code: graph.CodeThingNotDefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(t, repo, tt.defs)
			require.Error(t, err)
			code, _ := graph.CodeOf(err)
			assert.Equal(t, tt.code, code, err.Error())
		})
	}

	_, err = validate(t, repo, ThingDefinitions{Classes: map[string]ClassDefinition{"#c": {Label: "c", URI: "https://example.org/taken"}}})
	var ge *graph.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, string(taken), ge.Details["id"])
}

func TestThingDefinitionValidator_ReservedClassSkipsLookup(t *testing.T) {
	repo := createTestRepo(t)

	_, err := validate(t, repo, ThingDefinitions{
		Resources: map[string]ResourceDefinition{"#r": {Label: "r", Classes: []string{string(graph.ClassResource)}}},
	})
	require.Error(t, err)
	assert.Equal(t, 0, repo.Lookups(graph.ClassResource))
}
