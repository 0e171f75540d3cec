// Package language provides LanguageIdentifier implementations: a statistical
// detector backed by lingua and a fixed identifier for single-language bots
// and tests.
package language

import (
	"context"
	"strings"

	"github.com/parlex-ai/parlex/core"
	"github.com/pemistahl/lingua-go"
)

// Options configures the lingua-backed identifier.
type Options struct {
	// Languages restricts detection to the given candidates. Restricting the
	// set improves both accuracy and startup time; empty means all spoken
	// languages.
	Languages []lingua.Language

	// Fallback is returned when detection is inconclusive.
	Fallback string
}

// Identifier detects the language of free text using lingua's statistical
// models and reports it as a lowercase ISO 639-1 code.
type Identifier struct {
	detector lingua.LanguageDetector
	fallback string
}

var _ core.LanguageIdentifier = (*Identifier)(nil)

// NewIdentifier builds a lingua-backed identifier. Model loading is deferred
// to the first detection by the underlying library.
func NewIdentifier(optFns ...func(o *Options)) *Identifier {
	opts := Options{Fallback: "en"}
	for _, fn := range optFns {
		fn(&opts)
	}

	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(opts.Languages) > 0 {
		detector = builder.FromLanguages(opts.Languages...).Build()
	} else {
		detector = builder.FromAllSpokenLanguages().Build()
	}

	return &Identifier{detector: detector, fallback: opts.Fallback}
}

// Identify implements core.LanguageIdentifier. Inconclusive input (empty
// text, digits, very short fragments) yields the configured fallback rather
// than an error.
func (i *Identifier) Identify(_ context.Context, text string) (string, error) {
	lang, ok := i.detector.DetectLanguageOf(text)
	if !ok {
		return i.fallback, nil
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}

// Fixed is a LanguageIdentifier that always reports the same code. Useful for
// single-language bots and tests.
type Fixed string

// Identify implements core.LanguageIdentifier.
func (f Fixed) Identify(context.Context, string) (string, error) {
	return string(f), nil
}
