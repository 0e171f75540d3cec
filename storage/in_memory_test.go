package storage

import (
	"context"
	"testing"
	"time"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreIntents(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	intents, err := store.Intents(ctx)
	require.NoError(t, err)
	assert.Empty(t, intents)

	greet := core.IntentDefinition{Name: "greet", Utterances: []string{"hello", "hi"}}
	book := core.IntentDefinition{Name: "book_flight", Utterances: []string{"book a flight"}}
	require.NoError(t, store.SaveIntent(ctx, greet))
	require.NoError(t, store.SaveIntent(ctx, book))

	intents, err = store.Intents(ctx)
	require.NoError(t, err)
	require.Len(t, intents, 2)
	assert.Equal(t, "greet", intents[0].Name)
	assert.Equal(t, "book_flight", intents[1].Name)

	got, err := store.Intent(ctx, "greet")
	require.NoError(t, err)
	assert.Equal(t, greet.Utterances, got.Utterances)

	_, err = store.Intent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreSaveIntentOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.SaveIntent(ctx, core.IntentDefinition{Name: "greet", Utterances: []string{"hello"}}))
	require.NoError(t, store.SaveIntent(ctx, core.IntentDefinition{Name: "greet", Utterances: []string{"hello", "hey"}}))

	intents, err := store.Intents(ctx)
	require.NoError(t, err)
	require.Len(t, intents, 1)
	assert.Equal(t, []string{"hello", "hey"}, intents[0].Utterances)
}

func TestInMemoryStoreDeleteIntent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.SaveIntent(ctx, core.IntentDefinition{Name: "greet"}))
	require.NoError(t, store.DeleteIntent(ctx, "greet"))

	_, err := store.Intent(ctx, "greet")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.DeleteIntent(ctx, "greet")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreCustomEntities(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	def := core.EntityDefinition{
		Name: "city",
		Kind: core.EntityKindList,
		Occurrences: []core.EntityOccurrence{
			{Name: "paris", Synonyms: []string{"city of light"}},
		},
	}
	require.NoError(t, store.SaveCustomEntity(ctx, def))

	defs, err := store.CustomEntities(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "city", defs[0].Name)
	assert.Equal(t, core.EntityKindList, defs[0].Kind)
}

func TestInMemoryStoreModels(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const fp = "0123456789abcdef"

	exists, err := store.ModelExists(ctx, fp)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.ModelBuffer(ctx, fp)
	assert.ErrorIs(t, err, ErrNotFound)

	name := ModelName(time.UnixMilli(1700000000000), fp)
	require.NoError(t, store.PersistModel(ctx, []byte("old"), name))

	exists, err = store.ModelExists(ctx, fp)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.ModelBuffer(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), data)

	// A later artifact for the same fingerprint wins.
	newer := ModelName(time.UnixMilli(1700000099000), fp)
	require.NoError(t, store.PersistModel(ctx, []byte("new"), newer))

	data, err = store.ModelBuffer(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)

	// Other fingerprints stay invisible.
	exists, err = store.ModelExists(ctx, "feedfacefeedface")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInMemoryStoreCopiesModelData(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const fp = "0123456789abcdef"
	payload := []byte("artifact")
	require.NoError(t, store.PersistModel(ctx, payload, ModelName(time.Now(), fp)))
	payload[0] = 'X'

	data, err := store.ModelBuffer(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact"), data)
}

func TestModelName(t *testing.T) {
	name := ModelName(time.UnixMilli(1700000000000), "0123456789abcdef")
	assert.Equal(t, "1700000000000__0123456789abcdef.bin", name)
	assert.True(t, matchesFingerprint(name, "0123456789abcdef"))
	assert.False(t, matchesFingerprint(name, "abcdef0123456789"))
}
