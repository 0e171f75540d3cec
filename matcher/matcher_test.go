package matcher

import (
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
)

func TestFor_ExactMatch(t *testing.T) {
	is := NewFactory().For("book_flight")

	assert.True(t, is("book_flight"))
	assert.False(t, is("greet"))
}

func TestFor_NormalizedMatch(t *testing.T) {
	is := NewFactory().For("Book_Flight")

	assert.True(t, is(" book_flight "))
}

func TestFor_AliasMatch(t *testing.T) {
	f := NewFactory(func(o *Options) {
		o.Aliases = map[string][]string{"book_flight": {"flight_booking"}}
	})
	is := f.For("book_flight")

	assert.True(t, is("flight_booking"))
	assert.False(t, is("hotel_booking"))
}

func TestFor_FuzzyMatch(t *testing.T) {
	f := NewFactory(func(o *Options) { o.Fuzzy = true })
	is := f.For("book_flight")

	// Subsequence match: candidate letters appear in order in the name.
	assert.True(t, is("bookflight"))
}

func TestFor_NoneOnlyMatchesItself(t *testing.T) {
	is := NewFactory(func(o *Options) { o.Fuzzy = true }).For(core.NoneIntentName)

	assert.True(t, is("none"))
	assert.False(t, is("n"))
	assert.False(t, is("greet"))
}
