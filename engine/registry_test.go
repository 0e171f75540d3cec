package engine

import (
	"context"
	"testing"

	"github.com/parlex-ai/parlex/classifier"
	"github.com/parlex-ai/parlex/language"
	"github.com/parlex-ai/parlex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountable(t *testing.T, botID string) *Engine {
	t.Helper()
	e, err := New(context.Background(), botID, storage.NewInMemoryStore(), func(o *Options) {
		o.Classifier = classifier.NewMock()
		o.Language = language.Fixed("en")
	})
	require.NoError(t, err)
	return e
}

func TestRegistryMountAndGet(t *testing.T) {
	r := NewRegistry()
	e := mountable(t, "bot-1")

	r.Mount(e)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get("bot-1")
	require.NoError(t, err)
	assert.Same(t, e, got)

	_, err = r.Get("bot-2")
	assert.Error(t, err)
}

func TestRegistryMountReplaces(t *testing.T) {
	r := NewRegistry()
	first := mountable(t, "bot-1")
	second := mountable(t, "bot-1")

	r.Mount(first)
	r.Mount(second)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get("bot-1")
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestRegistryUnmount(t *testing.T) {
	r := NewRegistry()
	r.Mount(mountable(t, "bot-1"))

	require.NoError(t, r.Unmount("bot-1"))
	assert.Equal(t, 0, r.Len())
	assert.Error(t, r.Unmount("bot-1"))
}

func TestRegistryBotIDs(t *testing.T) {
	r := NewRegistry()
	r.Mount(mountable(t, "beta"))
	r.Mount(mountable(t, "alpha"))

	assert.Equal(t, []string{"alpha", "beta"}, r.BotIDs())
}
