package parlex

import (
	"context"
	"testing"

	"github.com/parlex-ai/parlex/classifier"
	"github.com/parlex-ai/parlex/core"
	"github.com/parlex-ai/parlex/internal/testutil"
	"github.com/parlex-ai/parlex/language"
	"github.com/parlex-ai/parlex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountAndUnderstand(t *testing.T) {
	ctx := context.Background()

	stores := storage.NewMultiStore()
	require.NoError(t, stores.Bot("support").SaveIntent(ctx,
		testutil.NewIntentBuilder("greet").Utterances("hello there", "hi", "good morning").Build()))
	require.NoError(t, stores.Bot("support").SaveIntent(ctx,
		testutil.NewIntentBuilder("goodbye").Utterances("bye", "see you later", "good night").Build()))

	mock := classifier.NewMock()
	mock.AddResponse("hello there",
		testutil.Predictions("greet", 0.95, "goodbye", 0.05)...)

	p := New(func(o *Options) {
		o.StorageProvider = stores.Provider()
		o.Language = language.Fixed("en")
		o.NewClassifier = func() core.IntentClassifier { return mock }
	})

	_, err := p.Mount(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, []string{"support"}, p.Bots())

	u, err := p.Understand(ctx, "support", "hello there")
	require.NoError(t, err)
	assert.False(t, u.Errored)
	assert.Equal(t, "greet", u.Intent.Name)
	assert.Equal(t, "en", u.Language)
}

func TestUnderstandUnmountedBot(t *testing.T) {
	p := New()
	_, err := p.Understand(context.Background(), "ghost", "hello")
	assert.Error(t, err)
}

func TestUnmount(t *testing.T) {
	ctx := context.Background()
	p := New(func(o *Options) {
		o.Language = language.Fixed("en")
	})

	_, err := p.Mount(ctx, "support")
	require.NoError(t, err)
	require.NoError(t, p.Unmount("support"))
	assert.Empty(t, p.Bots())
	assert.Error(t, p.Unmount("support"))
}

func TestSyncAfterAuthoring(t *testing.T) {
	ctx := context.Background()

	stores := storage.NewMultiStore()
	p := New(func(o *Options) {
		o.StorageProvider = stores.Provider()
		o.Language = language.Fixed("en")
		o.NewClassifier = func() core.IntentClassifier { return classifier.NewMock() }
	})

	e, err := p.Mount(ctx, "support")
	require.NoError(t, err)

	require.NoError(t, stores.Bot("support").SaveIntent(ctx,
		testutil.NewIntentBuilder("greet").Utterances("hello").Build()))

	needed, err := e.NeedsSync(ctx)
	require.NoError(t, err)
	assert.True(t, needed)

	require.NoError(t, p.Sync(ctx, "support"))

	needed, err = e.NeedsSync(ctx)
	require.NoError(t, err)
	assert.False(t, needed)
}
