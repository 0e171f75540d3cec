package classifier

import (
	"context"
	"sync"

	"github.com/parlex-ai/parlex/core"
)

// Mock is a lightweight in-memory IntentClassifier useful for tests and
// examples. Canned rankings are returned per input text; unknown text yields
// an empty ranking.
type Mock struct {
	mu        sync.RWMutex
	modelID   string
	responses map[string][]core.Prediction

	// TrainErr, when set, is returned by Train to simulate backend failures.
	TrainErr error

	// PredictErr, when set, is returned by Predict to simulate backend
	// failures.
	PredictErr error

	// TrainCalls counts Train invocations.
	TrainCalls int

	// PredictCalls counts Predict invocations.
	PredictCalls int
}

var _ core.IntentClassifier = (*Mock)(nil)

// NewMock constructs an empty mock classifier.
func NewMock() *Mock {
	return &Mock{responses: make(map[string][]core.Prediction)}
}

// AddResponse registers a deterministic canned ranking for an input text.
func (m *Mock) AddResponse(text string, preds ...core.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[text] = preds
}

// Train implements core.IntentClassifier; the artifact is the fingerprint itself.
func (m *Mock) Train(_ context.Context, _ []core.IntentDefinition, fp string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TrainCalls++
	if m.TrainErr != nil {
		return nil, m.TrainErr
	}
	return []byte(fp), nil
}

// LoadModel implements core.IntentClassifier.
func (m *Mock) LoadModel(_ []byte, fp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modelID = fp
	return nil
}

// CurrentModelID implements core.IntentClassifier.
func (m *Mock) CurrentModelID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modelID
}

// Predict implements core.IntentClassifier.
func (m *Mock) Predict(_ context.Context, text string) ([]core.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PredictCalls++
	if m.PredictErr != nil {
		return nil, m.PredictErr
	}
	return m.responses[text], nil
}
