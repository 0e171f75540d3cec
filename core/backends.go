package core

import "context"

// LanguageIdentifier detects the language of free text and returns a
// lowercase ISO 639-1 code ("en", "fr", ...).
type LanguageIdentifier interface {
	Identify(ctx context.Context, text string) (string, error)
}

// IntentClassifier is the trainable intent backend. Train produces a
// serialized model artifact for the given definitions without mutating the
// active model; LoadModel swaps the active model, tagging it with the
// fingerprint so CurrentModelID can be compared against a freshly computed
// one. Predict returns candidates ranked by descending confidence.
type IntentClassifier interface {
	Train(ctx context.Context, intents []IntentDefinition, fingerprint string) ([]byte, error)
	LoadModel(data []byte, fingerprint string) error
	CurrentModelID() string
	Predict(ctx context.Context, text string) ([]Prediction, error)
}

// SystemEntityExtractor recognizes built-in entities (dates, numbers,
// measurements) in a language-aware way. A disabled extractor returns an
// empty slice, not an error.
type SystemEntityExtractor interface {
	Extract(ctx context.Context, text, language string) ([]Entity, error)
}

// ExtractFunc is the contract shared by the pure pattern and list entity
// extractors: text plus the tenant's custom definitions in, entities out. The
// caller is responsible for filtering definitions by kind.
type ExtractFunc func(text string, defs []EntityDefinition) ([]Entity, error)

// SlotExtractor is the trainable sequence-tagging backend. Train rebuilds the
// model from tagged utterances; Extract fills the intent's slot schema from
// text and the already-extracted entities.
type SlotExtractor interface {
	Train(ctx context.Context, sequences []TrainingSequence) error
	Extract(ctx context.Context, text string, intent IntentDefinition, entities []Entity) (map[string]Slot, error)
}

// Storage is the per-bot persistence collaborator. Intent and entity
// definitions are read-only to the engine; the Save/Delete methods exist for
// the authoring surface. Model artifacts are immutable once persisted and
// looked up by fingerprint.
type Storage interface {
	Intents(ctx context.Context) ([]IntentDefinition, error)
	Intent(ctx context.Context, name string) (IntentDefinition, error)
	CustomEntities(ctx context.Context) ([]EntityDefinition, error)

	ModelExists(ctx context.Context, fingerprint string) (bool, error)
	ModelBuffer(ctx context.Context, fingerprint string) ([]byte, error)
	PersistModel(ctx context.Context, data []byte, name string) error

	SaveIntent(ctx context.Context, intent IntentDefinition) error
	DeleteIntent(ctx context.Context, name string) error
	SaveCustomEntity(ctx context.Context, def EntityDefinition) error
}

// StorageProvider returns the tenant-scoped storage handle for a bot. It is
// injected at construction instead of being read from ambient process state.
type StorageProvider func(botID string) (Storage, error)
