package language

import (
	"context"
	"testing"

	"github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	lang, err := Fixed("de").Identify(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Equal(t, "de", lang)
}

func TestIdentifierDetects(t *testing.T) {
	id := NewIdentifier(func(o *Options) {
		o.Languages = []lingua.Language{lingua.English, lingua.French}
	})

	lang, err := id.Identify(context.Background(), "could you please book me a table for tomorrow evening")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	lang, err = id.Identify(context.Background(), "pourriez-vous me réserver une table pour demain soir")
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}

func TestIdentifierFallback(t *testing.T) {
	id := NewIdentifier(func(o *Options) {
		o.Languages = []lingua.Language{lingua.English, lingua.French}
		o.Fallback = "en"
	})

	lang, err := id.Identify(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}
