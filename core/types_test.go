package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonePrediction(t *testing.T) {
	p := NonePrediction()
	assert.Equal(t, NoneIntentName, p.Name)
	assert.Equal(t, 1.0, p.Confidence)
}

func TestIntentIs(t *testing.T) {
	exact := NewIntent(Prediction{Name: "greet", Confidence: 0.9}, nil)
	assert.True(t, exact.Is("greet"))
	assert.False(t, exact.Is("GREET"))
	assert.False(t, exact.IsNone())

	custom := NewIntent(Prediction{Name: "greet", Confidence: 0.9}, func(candidate string) bool {
		return candidate == "greet" || candidate == "hello"
	})
	assert.True(t, custom.Is("hello"))
	assert.False(t, custom.Is("bye"))

	none := NewIntent(NonePrediction(), nil)
	assert.True(t, none.IsNone())
}
