package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/parlex-ai/parlex/core"
)

// bowModel is the serialized form of a trained bag-of-words model.
type bowModel struct {
	Fingerprint string             `json:"fingerprint"`
	IDF         map[string]float64 `json:"idf"`
	Centroids   []bowCentroid      `json:"centroids"`
}

// bowCentroid is the normalized TF-IDF centroid of one intent's utterances.
type bowCentroid struct {
	Intent string             `json:"intent"`
	Vector map[string]float64 `json:"vector"`
}

// BagOfWords is a self-contained intent classifier: utterances are tokenized
// into lowercase terms, weighted by TF-IDF and averaged into one centroid per
// intent; prediction scores text against each centroid by cosine similarity.
// It is deliberately simple; the orchestration layer treats it as an opaque,
// swappable backend.
type BagOfWords struct {
	mu      sync.RWMutex
	model   *bowModel
	modelID string
}

var _ core.IntentClassifier = (*BagOfWords)(nil)

// NewBagOfWords returns a classifier with no active model. Predict before
// LoadModel returns an empty ranking.
func NewBagOfWords() *BagOfWords {
	return &BagOfWords{}
}

// Train builds a model artifact from the definitions. It does not touch the
// active model; callers persist the artifact and then swap it in via
// LoadModel.
func (b *BagOfWords) Train(_ context.Context, intents []core.IntentDefinition, fp string) ([]byte, error) {
	var docs [][]string
	docIntent := make([]string, 0)
	for _, in := range intents {
		if len(in.Utterances) == 0 {
			return nil, fmt.Errorf("intent %q has no utterances", in.Name)
		}
		for _, u := range in.Utterances {
			docs = append(docs, tokenize(u))
			docIntent = append(docIntent, in.Name)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no training utterances")
	}

	idf := inverseDocumentFrequency(docs)

	sums := make(map[string]map[string]float64)
	counts := make(map[string]int)
	for i, doc := range docs {
		name := docIntent[i]
		if sums[name] == nil {
			sums[name] = make(map[string]float64)
		}
		for term, w := range tfidf(doc, idf) {
			sums[name][term] += w
		}
		counts[name]++
	}

	centroids := make([]bowCentroid, 0, len(sums))
	for _, in := range intents {
		vec := sums[in.Name]
		n := float64(counts[in.Name])
		for term := range vec {
			vec[term] /= n
		}
		centroids = append(centroids, bowCentroid{Intent: in.Name, Vector: normalize(vec)})
	}

	return json.Marshal(bowModel{Fingerprint: fp, IDF: idf, Centroids: centroids})
}

// LoadModel deserializes an artifact and atomically replaces the active
// model, tagging it with the fingerprint.
func (b *BagOfWords) LoadModel(data []byte, fp string) error {
	var m bowModel
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse model artifact: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = &m
	b.modelID = fp
	return nil
}

// CurrentModelID returns the fingerprint of the active model, or empty when
// no model is loaded.
func (b *BagOfWords) CurrentModelID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modelID
}

// Predict scores the text against every intent centroid and returns the
// candidates ranked by descending confidence. With no active model it
// returns an empty ranking.
func (b *BagOfWords) Predict(_ context.Context, text string) ([]core.Prediction, error) {
	b.mu.RLock()
	model := b.model
	b.mu.RUnlock()

	if model == nil {
		return nil, nil
	}

	query := normalize(tfidf(tokenize(text), model.IDF))

	preds := make([]core.Prediction, 0, len(model.Centroids))
	for _, c := range model.Centroids {
		preds = append(preds, core.Prediction{Name: c.Intent, Confidence: cosine(query, c.Vector)})
	}

	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Confidence > preds[j].Confidence })
	return preds, nil
}

// tokenize lowercases and splits on any non letter/digit rune.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// inverseDocumentFrequency computes smoothed IDF weights across documents.
func inverseDocumentFrequency(docs [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}
	idf := make(map[string]float64, len(df))
	n := float64(len(docs))
	for term, count := range df {
		idf[term] = math.Log(1+n/float64(count)) + 1
	}
	return idf
}

// tfidf weighs a document's term frequencies by IDF. Unknown terms get a
// neutral weight of 1 so queries with unseen words still produce a vector.
func tfidf(doc []string, idf map[string]float64) map[string]float64 {
	if len(doc) == 0 {
		return map[string]float64{}
	}
	tf := make(map[string]float64)
	for _, term := range doc {
		tf[term]++
	}
	vec := make(map[string]float64, len(tf))
	for term, count := range tf {
		w := idf[term]
		if w == 0 {
			w = 1
		}
		vec[term] = (count / float64(len(doc))) * w
	}
	return vec
}

// normalize scales a vector to unit length; the zero vector is returned as is.
func normalize(vec map[string]float64) map[string]float64 {
	var sq float64
	for _, v := range vec {
		sq += v * v
	}
	if sq == 0 {
		return vec
	}
	norm := math.Sqrt(sq)
	out := make(map[string]float64, len(vec))
	for term, v := range vec {
		out[term] = v / norm
	}
	return out
}

// cosine returns the cosine similarity of two unit-normalized sparse vectors.
// Both inputs are non-negative, so the result lies in [0,1].
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, av := range a {
		dot += av * b[term]
	}
	if dot > 1 {
		dot = 1
	}
	return dot
}
