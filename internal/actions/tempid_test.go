package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kgraph/internal/graph"
)

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID("#temp1"))
	assert.True(t, IsTempID("^0"))
	assert.False(t, IsTempID("#"))
	assert.False(t, IsTempID("R123"))
	assert.False(t, IsTempID(""))
}

func TestValidateTempIDs_Valid(t *testing.T) {
	assert.NoError(t, ValidateTempIDs([]string{"#a", "#temp1", "#temp2"}))
	assert.NoError(t, ValidateTempIDs(nil))
}

func TestValidateTempIDs_InvalidPrefixOrLength(t *testing.T) {
	for _, id := range []string{"temp1", "#", "^ref", ""} {
		t.Run(id, func(t *testing.T) {
			err := ValidateTempIDs([]string{"#ok", id})
			require.Error(t, err)
			assert.True(t, graph.IsCode(err, graph.CodeInvalidTempID))
		})
	}
}

func TestValidateTempIDs_DuplicateAcrossKinds(t *testing.T) {
	defs := ThingDefinitions{
		Resources: map[string]ResourceDefinition{"#temp1": {Label: "r"}},
		Literals:  map[string]LiteralDefinition{"#temp1": {Label: "l"}, "#temp2": {Label: "x"}},
	}

	err := ValidateTempIDs(defs.TempIDs())
	require.Error(t, err)

	var ge *graph.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, graph.CodeDuplicateTempIDs, ge.Code)
	assert.Equal(t, map[string]string{"#temp1": "2"}, ge.Details)
}

func TestThingDefinitions_KindOf(t *testing.T) {
	defs := ThingDefinitions{
		Literals: map[string]LiteralDefinition{"#l": {Label: "x"}},
		Lists:    map[string]ListDefinition{"#list": {Label: "y"}},
	}

	kind, ok := defs.KindOf("#l")
	assert.True(t, ok)
	assert.Equal(t, graph.KindLiteral, kind)

	kind, ok = defs.KindOf("#list")
	assert.True(t, ok)
	assert.Equal(t, graph.KindResource, kind)

	_, ok = defs.KindOf("#missing")
	assert.False(t, ok)
	assert.False(t, defs.IsEmpty())
	assert.True(t, ThingDefinitions{}.IsEmpty())
}
