package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/parlex-ai/parlex/core"
	"github.com/parlex-ai/parlex/entity"
	"github.com/parlex-ai/parlex/fingerprint"
	"github.com/parlex-ai/parlex/language"
	"github.com/parlex-ai/parlex/logging"
	"github.com/parlex-ai/parlex/matcher"
	"github.com/parlex-ai/parlex/metrics"
	"github.com/parlex-ai/parlex/retry"
	"github.com/parlex-ai/parlex/selector"
	"github.com/parlex-ai/parlex/slots"
	"github.com/parlex-ai/parlex/storage"
)

// DefaultThreshold is the confidence threshold applied when the configured
// value is absent, NaN or outside [0, 1].
const DefaultThreshold = 0.7

// Config defines tuning parameters for a single engine.
type Config struct {
	// Threshold is the minimum confidence for accepting the top-ranked
	// intent directly. Values outside [0, 1] (including NaN) fall back to
	// DefaultThreshold.
	Threshold float64

	// StdDevMultiplier scales the standard-error cutoff used when no
	// prediction clears the threshold. Zero or negative values fall back
	// to selector.DefaultStdDevMultiplier.
	StdDevMultiplier float64

	// FallbackLanguage is reported when language identification is
	// inconclusive and yields no language at all.
	FallbackLanguage string

	// Retry bounds the retry loop wrapped around the prediction pipeline.
	Retry retry.Policy

	// SyncOnInit runs a model synchronization when the engine is created.
	SyncOnInit bool
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	Threshold:        DefaultThreshold,
	StdDevMultiplier: selector.DefaultStdDevMultiplier,
	FallbackLanguage: "en",
	Retry:            retry.DefaultPolicy,
	SyncOnInit:       true,
}

// Options configures an Engine instance using the functional options pattern.
// Every collaborator except Classifier has a working default.
type Options struct {
	// Config contains the tuning parameters. Defaults to DefaultConfig.
	Config Config

	// Classifier is the trainable intent backend. Required; New fails when
	// it is nil. The root package wires a bag-of-words classifier as its
	// default when mounting engines.
	Classifier core.IntentClassifier

	// Language identifies the utterance language. Defaults to the lingua
	// based identifier.
	Language core.LanguageIdentifier

	// SystemEntities recognizes built-in entities. Defaults to a disabled
	// Duckling client that extracts nothing.
	SystemEntities core.SystemEntityExtractor

	// Patterns extracts custom regex entities. Defaults to
	// entity.ExtractPatterns.
	Patterns core.ExtractFunc

	// Lists extracts custom list entities. Defaults to entity.ExtractLists.
	Lists core.ExtractFunc

	// Slots is the trainable slot filling backend. Defaults to the
	// entity-alignment extractor.
	Slots core.SlotExtractor

	// Matchers produces the match predicate attached to selected intents.
	Matchers *matcher.Factory

	// Logger provides structured logging. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics records Prometheus instrumentation. Nil disables recording.
	Metrics *metrics.Recorder
}

// Engine is the per-bot decision core. It is safe for concurrent use; the
// classifier and slot extractor guard their active models internally, so
// Understand may run concurrently with Sync.
type Engine struct {
	botID   string
	storage core.Storage
	config  Config

	classifier core.IntentClassifier
	language   core.LanguageIdentifier
	system     core.SystemEntityExtractor
	patterns   core.ExtractFunc
	lists      core.ExtractFunc
	slots      core.SlotExtractor
	matchers   *matcher.Factory

	logger  logging.Logger
	metrics *metrics.Recorder
}

// New creates an engine for the given bot backed by the given storage. When
// Config.SyncOnInit is set (the default) the engine synchronizes its model
// before returning; a failed synchronization fails construction.
func New(ctx context.Context, botID string, store core.Storage, optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{Config: DefaultConfig}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	opts.Logger = logging.WithScope(opts.Logger, "engine", botID)
	if opts.Language == nil {
		opts.Language = language.NewIdentifier()
	}
	if opts.SystemEntities == nil {
		opts.SystemEntities = entity.NewDuckling()
	}
	if opts.Patterns == nil {
		opts.Patterns = entity.ExtractPatterns
	}
	if opts.Lists == nil {
		opts.Lists = entity.ExtractLists
	}
	if opts.Slots == nil {
		opts.Slots = slots.NewExtractor()
	}
	if opts.Matchers == nil {
		opts.Matchers = matcher.NewFactory()
	}
	if opts.Classifier == nil {
		return nil, fmt.Errorf("engine: classifier is required")
	}

	cfg := opts.Config
	if math.IsNaN(cfg.Threshold) || cfg.Threshold < 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.StdDevMultiplier <= 0 {
		cfg.StdDevMultiplier = selector.DefaultStdDevMultiplier
	}
	if cfg.FallbackLanguage == "" {
		cfg.FallbackLanguage = "en"
	}

	e := &Engine{
		botID:      botID,
		storage:    store,
		config:     cfg,
		classifier: opts.Classifier,
		language:   opts.Language,
		system:     opts.SystemEntities,
		patterns:   opts.Patterns,
		lists:      opts.Lists,
		slots:      opts.Slots,
		matchers:   opts.Matchers,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}

	if cfg.SyncOnInit {
		if err := e.Sync(ctx); err != nil {
			return nil, fmt.Errorf("initial sync for bot %q: %w", botID, err)
		}
	}

	return e, nil
}

// BotID returns the bot this engine serves.
func (e *Engine) BotID() string { return e.botID }

// Threshold returns the effective confidence threshold after clamping.
func (e *Engine) Threshold() float64 { return e.config.Threshold }

// NeedsSync reports whether the active model is stale relative to the bot's
// authored intents. A bot with no intents never needs synchronization.
func (e *Engine) NeedsSync(ctx context.Context) (bool, error) {
	intents, err := e.storage.Intents(ctx)
	if err != nil {
		return false, fmt.Errorf("load intents: %w", err)
	}
	if len(intents) == 0 {
		return false, nil
	}

	fp := fingerprint.Of(intents)
	needed := e.classifier.CurrentModelID() != fp
	e.logger.Debug("sync check", "fingerprint", fp,
		"model_id", e.classifier.CurrentModelID(), "needed", needed)
	return needed, nil
}

// Sync brings the active model in line with the bot's authored definitions.
// If a persisted artifact exists for the current fingerprint it is loaded;
// otherwise a new model is trained, persisted and loaded. Training failures
// are logged and reported via metrics but do not fail the call, so a bot with
// unusable definitions still mounts with its previous model. The slot model
// is rebuilt best-effort afterwards.
func (e *Engine) Sync(ctx context.Context) error {
	needed, err := e.NeedsSync(ctx)
	if err != nil {
		return err
	}
	if !needed {
		e.metrics.ObserveSync(e.botID, "noop")
		return nil
	}

	intents, err := e.storage.Intents(ctx)
	if err != nil {
		return fmt.Errorf("load intents: %w", err)
	}
	fp := fingerprint.Of(intents)

	exists, err := e.storage.ModelExists(ctx, fp)
	if err != nil {
		return fmt.Errorf("check model %s: %w", fp, err)
	}

	if exists {
		data, err := e.storage.ModelBuffer(ctx, fp)
		if err != nil {
			return fmt.Errorf("load model %s: %w", fp, err)
		}
		if err := e.classifier.LoadModel(data, fp); err != nil {
			return fmt.Errorf("activate model %s: %w", fp, err)
		}
		e.logger.Info("model loaded", "fingerprint", fp)
		e.metrics.ObserveSync(e.botID, "loaded")
	} else {
		start := time.Now()
		data, err := e.classifier.Train(ctx, intents, fp)
		if err != nil {
			e.logger.Error("training failed", "fingerprint", fp, "error", err)
			e.metrics.ObserveSync(e.botID, "failed")
		} else {
			e.metrics.ObserveTraining(e.botID, time.Since(start))

			name := storage.ModelName(time.Now(), fp)
			if err := e.storage.PersistModel(ctx, data, name); err != nil {
				return fmt.Errorf("persist model %s: %w", name, err)
			}
			if err := e.classifier.LoadModel(data, fp); err != nil {
				return fmt.Errorf("activate model %s: %w", fp, err)
			}
			e.logger.Info("model trained", "fingerprint", fp,
				"intents", len(intents), "duration", time.Since(start))
			e.metrics.ObserveSync(e.botID, "trained")
		}
	}

	if err := e.slots.Train(ctx, slots.Expand(intents)); err != nil {
		e.logger.Warn("slot model rebuild failed", "error", err)
	}

	return nil
}

// Understand runs the prediction pipeline under the configured retry policy
// and always returns a usable result. If every attempt fails, the partial
// understanding from the last attempt is returned with Errored set; no error
// crosses this boundary.
func (e *Engine) Understand(ctx context.Context, text string) core.Understanding {
	start := time.Now()

	var last core.Understanding
	err := e.config.Retry.Do(ctx, func() error {
		var attemptErr error
		last, attemptErr = e.predict(ctx, text)
		return attemptErr
	})
	if err != nil {
		last.Errored = true
		e.logger.Warn("prediction failed after retries",
			"request_id", last.RequestID, "error", err)
	}

	e.metrics.ObservePrediction(e.botID, time.Since(start), last.Errored)
	e.logger.Debug("prediction complete",
		"request_id", last.RequestID, "intent", last.Intent.Name,
		"confidence", last.Intent.Confidence, "errored", last.Errored,
		"duration", time.Since(start))
	return last
}

// predict runs one pass of the pipeline: language, ranked intents, selection,
// entities, slots. On failure it returns the understanding built so far along
// with the error; the caller decides whether to retry.
func (e *Engine) predict(ctx context.Context, text string) (core.Understanding, error) {
	u := core.Understanding{
		RequestID: uuid.NewString(),
		Intent:    core.NewIntent(core.NonePrediction(), e.matchers.For(core.NoneIntentName)),
	}

	lang, err := e.language.Identify(ctx, text)
	if err != nil {
		u.Errored = true
		return u, fmt.Errorf("identify language: %w", err)
	}
	if lang == "" {
		lang = e.config.FallbackLanguage
	}
	u.Language = lang

	ranked, err := e.classifier.Predict(ctx, text)
	if err != nil {
		u.Errored = true
		return u, fmt.Errorf("rank intents: %w", err)
	}
	u.Intents = ranked

	selected := selector.SelectWithMultiplier(ranked, e.config.Threshold, e.config.StdDevMultiplier)
	u.Intent = core.NewIntent(selected, e.matchers.For(selected.Name))

	entities, err := e.extractEntities(ctx, text, lang)
	if err != nil {
		u.Errored = true
		return u, fmt.Errorf("extract entities: %w", err)
	}
	u.Entities = entities

	if !u.Intent.IsNone() {
		def, err := e.storage.Intent(ctx, selected.Name)
		if err != nil {
			u.Errored = true
			return u, fmt.Errorf("load intent %q: %w", selected.Name, err)
		}
		filled, err := e.slots.Extract(ctx, text, def, entities)
		if err != nil {
			u.Errored = true
			return u, fmt.Errorf("fill slots: %w", err)
		}
		u.Slots = filled
	}

	return u, nil
}

// extractEntities merges the three entity sources in a fixed order: system
// entities first, then pattern matches, then list matches.
func (e *Engine) extractEntities(ctx context.Context, text, lang string) ([]core.Entity, error) {
	system, err := e.system.Extract(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("system entities: %w", err)
	}

	defs, err := e.storage.CustomEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load custom entities: %w", err)
	}

	patterns, err := e.patterns(text, defs)
	if err != nil {
		return nil, fmt.Errorf("pattern entities: %w", err)
	}
	lists, err := e.lists(text, defs)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	out := make([]core.Entity, 0, len(system)+len(patterns)+len(lists))
	out = append(out, system...)
	out = append(out, patterns...)
	out = append(out, lists...)
	return out, nil
}
