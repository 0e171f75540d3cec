package core

// SlotDefinition describes a single slot inside an intent's schema. A slot is
// filled from entities whose name appears in Entities.
type SlotDefinition struct {
	Name     string   `json:"name" yaml:"name"`
	Entities []string `json:"entities" yaml:"entities"`
}

// IntentDefinition is the authoring-side description of one intent: a unique
// name, the ordered example utterances it was defined with and its slot
// schema. Definitions are owned by Storage and read-only to the engine.
type IntentDefinition struct {
	Name       string           `json:"name" yaml:"name"`
	Utterances []string         `json:"utterances" yaml:"utterances"`
	Slots      []SlotDefinition `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// EntityKind tags the source that produced an entity.
type EntityKind string

const (
	// EntityKindSystem marks entities produced by the system extractor
	// (dates, times, numbers, measurements).
	EntityKindSystem EntityKind = "system"
	// EntityKindPattern marks entities produced by pattern definitions.
	EntityKindPattern EntityKind = "pattern"
	// EntityKindList marks entities produced by list definitions.
	EntityKindList EntityKind = "list"
)

// EntityOccurrence is one named value of a list entity together with its
// synonyms.
type EntityOccurrence struct {
	Name     string   `json:"name" yaml:"name"`
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
}

// EntityDefinition is a tenant-authored custom entity: either a pattern
// (regular expression) or a list of occurrences with synonyms.
type EntityDefinition struct {
	Name        string             `json:"name" yaml:"name"`
	Kind        EntityKind         `json:"kind" yaml:"kind"`
	Pattern     string             `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Occurrences []EntityOccurrence `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	Fuzzy       bool               `json:"fuzzy,omitempty" yaml:"fuzzy,omitempty"`
}

// Prediction is one ranked intent candidate returned by a classifier.
// Confidence is in [0,1].
type Prediction struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// NoneIntentName is the sentinel intent name used when no candidate
// qualifies.
const NoneIntentName = "none"

// NonePrediction returns the sentinel prediction used when the candidate list
// is empty or no candidate clears the selection policy.
func NonePrediction() Prediction {
	return Prediction{Name: NoneIntentName, Confidence: 1.0}
}

// MatchFunc tests whether a candidate intent name matches a selected intent.
// Matching policy (exact, alias, fuzzy) is supplied by the matcher package.
type MatchFunc func(candidate string) bool

// Intent is the selected intent for one request: the winning prediction plus
// the match predicate attached by the matcher factory.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`

	matcher MatchFunc
}

// NewIntent builds an Intent from a prediction and a match predicate. A nil
// predicate falls back to exact name comparison.
func NewIntent(p Prediction, m MatchFunc) Intent {
	return Intent{Name: p.Name, Confidence: p.Confidence, matcher: m}
}

// Is reports whether the candidate name matches this intent under the
// attached matching policy.
func (i Intent) Is(candidate string) bool {
	if i.matcher == nil {
		return i.Name == candidate
	}
	return i.matcher(candidate)
}

// IsNone reports whether this is the sentinel "none" intent.
func (i Intent) IsNone() bool { return i.Name == NoneIntentName }

// Entity is a typed span/value extracted from the request text. Entities from
// all sources are concatenated into one ordered sequence, system entities
// first.
type Entity struct {
	Kind       EntityKind `json:"kind"`
	Name       string     `json:"name"`
	Value      string     `json:"value"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
	Unit       string     `json:"unit,omitempty"`
}

// Slot is a named span extracted from text, scoped to the selected intent's
// slot schema.
type Slot struct {
	Name       string  `json:"name"`
	Entity     string  `json:"entity,omitempty"`
	Value      string  `json:"value"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// TrainingSequence is one tagged utterance used to rebuild the slot
// extractor's model: the owning intent's name, the raw utterance and the
// intent's slot schema.
type TrainingSequence struct {
	Intent    string           `json:"intent"`
	Utterance string           `json:"utterance"`
	Slots     []SlotDefinition `json:"slots,omitempty"`
}

// Understanding is the aggregate per-request result. When Errored is true the
// remaining fields hold whatever was computed before the failing step and
// must not be trusted by callers.
type Understanding struct {
	RequestID string          `json:"request_id,omitempty"`
	Language  string          `json:"language,omitempty"`
	Intents   []Prediction    `json:"intents,omitempty"`
	Intent    Intent          `json:"intent"`
	Entities  []Entity        `json:"entities,omitempty"`
	Slots     map[string]Slot `json:"slots,omitempty"`
	Errored   bool            `json:"errored"`
}
