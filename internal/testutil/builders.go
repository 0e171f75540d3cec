package testutil

import "github.com/parlex-ai/parlex/core"

// IntentBuilder provides a fluent helper for constructing intent definitions
// in tests. Example:
//
//	in := NewIntentBuilder("book_flight").
//		Utterances("book a flight to paris").
//		Slot("destination", "city").
//		Build()
//
// Chain only the parts you need.
type IntentBuilder struct {
	def core.IntentDefinition
}

// NewIntentBuilder creates a builder for the named intent.
func NewIntentBuilder(name string) *IntentBuilder {
	return &IntentBuilder{def: core.IntentDefinition{Name: name}}
}

// Utterances appends example utterances (chainable).
func (b *IntentBuilder) Utterances(utterances ...string) *IntentBuilder {
	b.def.Utterances = append(b.def.Utterances, utterances...)
	return b
}

// Slot appends a slot definition fed by the given entity names (chainable).
func (b *IntentBuilder) Slot(name string, entities ...string) *IntentBuilder {
	b.def.Slots = append(b.def.Slots, core.SlotDefinition{Name: name, Entities: entities})
	return b
}

// Build returns the assembled definition.
func (b *IntentBuilder) Build() core.IntentDefinition { return b.def }

// ListEntity builds a list entity definition from occurrence names without
// synonyms.
func ListEntity(name string, occurrences ...string) core.EntityDefinition {
	def := core.EntityDefinition{Name: name, Kind: core.EntityKindList}
	for _, o := range occurrences {
		def.Occurrences = append(def.Occurrences, core.EntityOccurrence{Name: o})
	}
	return def
}

// PatternEntity builds a pattern entity definition.
func PatternEntity(name, pattern string) core.EntityDefinition {
	return core.EntityDefinition{Name: name, Kind: core.EntityKindPattern, Pattern: pattern}
}

// Predictions builds a ranked prediction list from alternating name and
// confidence pairs, preserving order.
func Predictions(pairs ...any) []core.Prediction {
	out := make([]core.Prediction, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, core.Prediction{
			Name:       pairs[i].(string),
			Confidence: pairs[i+1].(float64),
		})
	}
	return out
}
