package fingerprint

import (
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
)

func sampleIntents() []core.IntentDefinition {
	return []core.IntentDefinition{
		{
			Name:       "book_flight",
			Utterances: []string{"book a flight to paris", "fly me to berlin"},
			Slots:      []core.SlotDefinition{{Name: "city", Entities: []string{"city"}}},
		},
		{
			Name:       "greet",
			Utterances: []string{"hello", "hi there"},
		},
	}
}

func TestOf_Deterministic(t *testing.T) {
	a := Of(sampleIntents())
	b := Of(sampleIntents())

	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestOf_ContentChangeChangesFingerprint(t *testing.T) {
	base := Of(sampleIntents())

	changed := sampleIntents()
	changed[0].Utterances[1] = "fly me to rome"

	assert.NotEqual(t, base, Of(changed))
}

func TestOf_SlotChangeChangesFingerprint(t *testing.T) {
	base := Of(sampleIntents())

	changed := sampleIntents()
	changed[0].Slots[0].Entities = append(changed[0].Slots[0].Entities, "airport")

	assert.NotEqual(t, base, Of(changed))
}

func TestOf_OrderInsensitiveAcrossIntents(t *testing.T) {
	intents := sampleIntents()
	reversed := []core.IntentDefinition{intents[1], intents[0]}

	assert.Equal(t, Of(intents), Of(reversed))
}

func TestOf_EmptySetIsStable(t *testing.T) {
	assert.Equal(t, Of(nil), Of([]core.IntentDefinition{}))
	assert.NotEmpty(t, Of(nil))
}

func TestOf_DoesNotMutateInput(t *testing.T) {
	intents := sampleIntents()
	reversed := []core.IntentDefinition{intents[1], intents[0]}

	Of(reversed)

	assert.Equal(t, "greet", reversed[0].Name)
}
