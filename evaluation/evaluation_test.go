package evaluation

import (
	"context"
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
)

type stubUnderstander map[string]core.Understanding

func (s stubUnderstander) Understand(_ context.Context, text string) core.Understanding {
	return s[text]
}

func TestEvaluate(t *testing.T) {
	stub := stubUnderstander{
		"hello":         {Intent: core.NewIntent(core.Prediction{Name: "greet", Confidence: 0.9}, nil)},
		"bye":           {Intent: core.NewIntent(core.Prediction{Name: "greet", Confidence: 0.6}, nil)},
		"backend down":  {Intent: core.NewIntent(core.NonePrediction(), nil), Errored: true},
		"out of domain": {Intent: core.NewIntent(core.NonePrediction(), nil)},
	}

	report := Evaluate(context.Background(), stub, []Case{
		{Text: "hello", Intent: "greet"},
		{Text: "bye", Intent: "goodbye"},
		{Text: "backend down", Intent: "none"},
		{Text: "out of domain", Intent: "none"},
	})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Correct)
	assert.InDelta(t, 0.5, report.Accuracy, 1e-9)
	assert.Len(t, report.Failures, 2)

	assert.Equal(t, "bye", report.Failures[0].Case.Text)
	assert.Equal(t, "greet", report.Failures[0].Got)
	assert.True(t, report.Failures[1].Errored)
}

func TestEvaluateEmpty(t *testing.T) {
	report := Evaluate(context.Background(), stubUnderstander{}, nil)
	assert.Zero(t, report.Total)
	assert.Zero(t, report.Accuracy)
}
