// Package matcher builds the match predicates attached to selected intents.
// A predicate answers "does this candidate name refer to the selected
// intent?" under a configurable policy: exact match, normalized comparison,
// author-defined aliases and optional fuzzy matching.
package matcher

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/parlex-ai/parlex/core"
)

// Options configures a Factory.
type Options struct {
	// Aliases maps an intent name to alternative names treated as a match.
	Aliases map[string][]string

	// Fuzzy enables subsequence fuzzy matching as a last resort.
	Fuzzy bool
}

// Factory produces match predicates for intent names.
type Factory struct {
	opts Options
}

// NewFactory creates a matcher factory.
func NewFactory(optFns ...func(o *Options)) *Factory {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Factory{opts: opts}
}

// For returns the match predicate for the given intent name. The sentinel
// "none" intent only ever matches itself exactly.
func (f *Factory) For(intentName string) core.MatchFunc {
	if intentName == core.NoneIntentName {
		return func(candidate string) bool { return candidate == core.NoneIntentName }
	}

	aliases := f.opts.Aliases[intentName]
	fuzzyEnabled := f.opts.Fuzzy

	return func(candidate string) bool {
		if candidate == intentName {
			return true
		}
		if normalize(candidate) == normalize(intentName) {
			return true
		}
		for _, alias := range aliases {
			if normalize(candidate) == normalize(alias) {
				return true
			}
		}
		if fuzzyEnabled && fuzzy.MatchFold(candidate, intentName) {
			return true
		}
		return false
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
