// Package evaluation scores a mounted engine against a labeled utterance
// set. It is intended for regression-testing bot definitions: author the
// expected intent per utterance, run Evaluate and inspect the report.
package evaluation

import (
	"context"

	"github.com/parlex-ai/parlex/core"
)

// Understander is the surface the evaluator needs; *engine.Engine
// satisfies it.
type Understander interface {
	Understand(ctx context.Context, text string) core.Understanding
}

// Case is one labeled utterance.
type Case struct {
	Text   string `json:"text" yaml:"text"`
	Intent string `json:"intent" yaml:"intent"`
}

// Failure records a case whose predicted intent did not match the label.
type Failure struct {
	Case       Case    `json:"case"`
	Got        string  `json:"got"`
	Confidence float64 `json:"confidence"`
	Errored    bool    `json:"errored"`
}

// Report aggregates the outcome of one evaluation run.
type Report struct {
	Total    int       `json:"total"`
	Correct  int       `json:"correct"`
	Accuracy float64   `json:"accuracy"`
	Failures []Failure `json:"failures,omitempty"`
}

// Evaluate runs every case through the engine and compares the selected
// intent against the label using the intent's own match predicate, so alias
// and fuzzy matching policies apply.
func Evaluate(ctx context.Context, u Understander, cases []Case) Report {
	report := Report{Total: len(cases)}
	for _, c := range cases {
		result := u.Understand(ctx, c.Text)
		if !result.Errored && result.Intent.Is(c.Intent) {
			report.Correct++
			continue
		}
		report.Failures = append(report.Failures, Failure{
			Case:       c,
			Got:        result.Intent.Name,
			Confidence: result.Intent.Confidence,
			Errored:    result.Errored,
		})
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}
	return report
}
