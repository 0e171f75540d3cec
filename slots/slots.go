// Package slots provides the slot extraction backend. The extractor fills an
// intent's slot schema by aligning already-extracted entities with each
// slot's accepted entity names; training rebuilds a per-intent schema prior
// from tagged utterances so extraction can fall back to it when the pipeline
// passes a partial definition.
package slots

import (
	"context"
	"sync"

	"github.com/parlex-ai/parlex/core"
)

// Extractor is a deterministic, entity-alignment slot extractor. The active
// model (the per-intent slot schemas learned at training time) is guarded by
// a read-write lock so retraining never races in-flight extractions.
type Extractor struct {
	mu      sync.RWMutex
	schemas map[string][]core.SlotDefinition
}

var _ core.SlotExtractor = (*Extractor)(nil)

// NewExtractor returns an untrained extractor. Extraction works without
// training as long as the caller supplies the intent definition.
func NewExtractor() *Extractor {
	return &Extractor{schemas: make(map[string][]core.SlotDefinition)}
}

// Train implements core.SlotExtractor: it rebuilds the per-intent schema
// index from the expanded training sequences, replacing the previous model
// wholesale.
func (e *Extractor) Train(_ context.Context, sequences []core.TrainingSequence) error {
	schemas := make(map[string][]core.SlotDefinition)
	for _, seq := range sequences {
		if _, ok := schemas[seq.Intent]; ok {
			continue
		}
		defs := make([]core.SlotDefinition, len(seq.Slots))
		copy(defs, seq.Slots)
		schemas[seq.Intent] = defs
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.schemas = schemas
	return nil
}

// Extract implements core.SlotExtractor. For each slot in the intent's
// schema the first entity (in input order) whose name is accepted by the
// slot wins; a slot with no matching entity stays unfilled. The passed
// definition takes precedence over the trained schema.
func (e *Extractor) Extract(_ context.Context, _ string, intent core.IntentDefinition, entities []core.Entity) (map[string]core.Slot, error) {
	defs := intent.Slots
	if len(defs) == 0 {
		e.mu.RLock()
		defs = e.schemas[intent.Name]
		e.mu.RUnlock()
	}
	if len(defs) == 0 {
		return map[string]core.Slot{}, nil
	}

	claimed := make([]bool, len(entities))
	filled := make(map[string]core.Slot, len(defs))

	for _, def := range defs {
		for i, ent := range entities {
			if claimed[i] || !accepts(def, ent.Name) {
				continue
			}
			filled[def.Name] = core.Slot{
				Name:       def.Name,
				Entity:     ent.Name,
				Value:      ent.Value,
				Start:      ent.Start,
				End:        ent.End,
				Confidence: ent.Confidence,
			}
			claimed[i] = true
			break
		}
	}

	return filled, nil
}

func accepts(def core.SlotDefinition, entityName string) bool {
	for _, name := range def.Entities {
		if name == entityName {
			return true
		}
	}
	return false
}

// Expand turns intent definitions into the tagged training sequences fed to
// Train: one sequence per utterance, annotated with the owning intent's name
// and slot schema.
func Expand(intents []core.IntentDefinition) []core.TrainingSequence {
	var sequences []core.TrainingSequence
	for _, in := range intents {
		for _, u := range in.Utterances {
			sequences = append(sequences, core.TrainingSequence{
				Intent:    in.Name,
				Utterance: u,
				Slots:     in.Slots,
			})
		}
	}
	return sequences
}
