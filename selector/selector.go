// Package selector implements the confidence-based intent selection policy.
//
// Selection is a two-stage scheme: a fixed threshold handles the common
// confident case, and a statistical-outlier fallback rescues cases where no
// candidate clears an absolute bar but one clearly dominates the rest (many
// low near-tied noise intents plus a single strong one). The fallback avoids
// forcing a brittle global threshold tuned per bot.
package selector

import (
	"math"

	"github.com/parlex-ai/parlex/core"
)

// DefaultStdDevMultiplier is the multiplier applied to the standard error of
// the mean in the outlier fallback.
const DefaultStdDevMultiplier = 3

// Select chooses the best prediction using the default multiplier. Input is
// assumed already ranked by the classifier; the selector never re-sorts.
func Select(predictions []core.Prediction, threshold float64) core.Prediction {
	return SelectWithMultiplier(predictions, threshold, DefaultStdDevMultiplier)
}

// SelectWithMultiplier chooses the best prediction from a ranked list.
//
// An empty list yields the "none" sentinel with confidence 1. Otherwise the
// first prediction with confidence >= threshold wins. Failing that, the first
// prediction whose confidence exceeds mean + multiplier*stderr wins, where
// stderr is the population standard deviation divided by sqrt(n). If nothing
// qualifies the sentinel is returned.
//
// The function is pure, deterministic and side-effect free.
func SelectWithMultiplier(predictions []core.Prediction, threshold, stdDevMultiplier float64) core.Prediction {
	if len(predictions) == 0 {
		return core.NonePrediction()
	}

	for _, p := range predictions {
		if p.Confidence >= threshold {
			return p
		}
	}

	cutoff := mean(predictions) + stdDevMultiplier*stderr(predictions)
	for _, p := range predictions {
		if p.Confidence >= cutoff {
			return p
		}
	}

	return core.NonePrediction()
}

func mean(predictions []core.Prediction) float64 {
	var sum float64
	for _, p := range predictions {
		sum += p.Confidence
	}
	return sum / float64(len(predictions))
}

// stderr returns the standard error of the mean using the population
// standard deviation.
func stderr(predictions []core.Prediction) float64 {
	m := mean(predictions)
	var sq float64
	for _, p := range predictions {
		d := p.Confidence - m
		sq += d * d
	}
	n := float64(len(predictions))
	return math.Sqrt(sq/n) / math.Sqrt(n)
}
