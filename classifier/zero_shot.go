package classifier

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/parlex-ai/parlex/core"
)

// zeroShotModel is the "artifact" of an LLM-backed classifier: the label set
// the prompt is built from, tagged with the fingerprint the labels were
// derived from. There is nothing to train; persisting the label set keeps the
// sync controller's train/persist/load cycle uniform across backends.
type zeroShotModel struct {
	Fingerprint string   `json:"fingerprint"`
	Intents     []string `json:"intents"`
}

// labelSet holds the mutable active-model state shared by the LLM-backed
// classifiers, guarded the same way as BagOfWords.
type labelSet struct {
	mu      sync.RWMutex
	intents []string
	modelID string
}

func (l *labelSet) train(intents []core.IntentDefinition, fp string) ([]byte, error) {
	names := make([]string, 0, len(intents))
	for _, in := range intents {
		names = append(names, in.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no intents to classify against")
	}
	return json.Marshal(zeroShotModel{Fingerprint: fp, Intents: names})
}

func (l *labelSet) load(data []byte, fp string) error {
	var m zeroShotModel
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse model artifact: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intents = m.Intents
	l.modelID = fp
	return nil
}

func (l *labelSet) id() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelID
}

func (l *labelSet) labels() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.intents))
	copy(out, l.intents)
	return out
}

// zeroShotSystemPrompt instructs the model to emit a strict JSON ranking.
const zeroShotSystemPrompt = "You are an intent classification engine. " +
	"Given a user utterance and a list of intent names, respond with ONLY a JSON array " +
	"of objects {\"name\": string, \"confidence\": number between 0 and 1}, ranked by " +
	"descending confidence, covering every listed intent. No prose, no code fences."

// zeroShotUserPrompt renders the classify request for one utterance.
func zeroShotUserPrompt(labels []string, text string) string {
	return fmt.Sprintf("Intents: %s\nUtterance: %q", strings.Join(labels, ", "), text)
}

// parseRanking decodes the model's JSON ranking, tolerating surrounding prose
// or code fences, and re-sorts defensively since the ranking order is load
// bearing for selection.
func parseRanking(content string, labels []string) ([]core.Prediction, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in classifier response")
	}

	var preds []core.Prediction
	if err := json.Unmarshal([]byte(content[start:end+1]), &preds); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		known[l] = true
	}

	out := preds[:0]
	for _, p := range preds {
		if !known[p.Name] {
			continue
		}
		if p.Confidence < 0 {
			p.Confidence = 0
		}
		if p.Confidence > 1 {
			p.Confidence = 1
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out, nil
}
