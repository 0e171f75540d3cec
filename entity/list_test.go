package entity

import (
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cityDef(fuzzyEnabled bool) core.EntityDefinition {
	return core.EntityDefinition{
		Name: "city",
		Kind: core.EntityKindList,
		Occurrences: []core.EntityOccurrence{
			{Name: "new york", Synonyms: []string{"nyc", "big apple"}},
			{Name: "paris"},
		},
		Fuzzy: fuzzyEnabled,
	}
}

func TestExtractLists_ExactSingleWord(t *testing.T) {
	entities, err := ExtractLists("fly me to Paris tomorrow", []core.EntityDefinition{cityDef(false)})

	require.NoError(t, err)
	require.Len(t, entities, 1)

	e := entities[0]
	assert.Equal(t, core.EntityKindList, e.Kind)
	assert.Equal(t, "city", e.Name)
	assert.Equal(t, "paris", e.Value)
	assert.Equal(t, "Paris", "fly me to Paris tomorrow"[e.Start:e.End])
	assert.Equal(t, 1.0, e.Confidence)
}

func TestExtractLists_MultiWordOccurrence(t *testing.T) {
	entities, err := ExtractLists("i love New York in spring", []core.EntityDefinition{cityDef(false)})

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "new york", entities[0].Value)
}

func TestExtractLists_SynonymResolvesToOccurrenceName(t *testing.T) {
	entities, err := ExtractLists("take me to the big apple", []core.EntityDefinition{cityDef(false)})

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "new york", entities[0].Value)
}

func TestExtractLists_FuzzyMatchScoresLower(t *testing.T) {
	entities, err := ExtractLists("book a trip to pariz", []core.EntityDefinition{cityDef(true)})

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "paris", entities[0].Value)
	assert.Equal(t, fuzzyListConfidence, entities[0].Confidence)
}

func TestExtractLists_NoFuzzyWithoutFlag(t *testing.T) {
	entities, err := ExtractLists("book a trip to pariz", []core.EntityDefinition{cityDef(false)})

	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestExtractLists_IgnoresPatternKinds(t *testing.T) {
	defs := []core.EntityDefinition{
		{Name: "code", Kind: core.EntityKindPattern, Pattern: `\d+`},
	}

	entities, err := ExtractLists("42", defs)

	require.NoError(t, err)
	assert.Empty(t, entities)
}
