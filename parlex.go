// Package parlex provides a high-level façade over the per-bot decision
// engines and their collaborators (storage, classifiers, entity extractors,
// logging). Most applications interact with this package by:
//  1. Creating a Parlex via New() (optionally overriding the default
//     in-memory storage, classifier and extractors)
//  2. Mounting one engine per bot
//  3. Calling Understand to turn an utterance into a structured result
//
// The façade delegates the pipeline itself to engine.Engine while keeping
// setup and multi-tenant bookkeeping concise. All defaults are safe for local
// development and testing; production deployments typically supply durable
// storage, an LLM-backed classifier and a structured logger.
package parlex

import (
	"context"
	"fmt"

	"github.com/parlex-ai/parlex/classifier"
	"github.com/parlex-ai/parlex/core"
	"github.com/parlex-ai/parlex/engine"
	"github.com/parlex-ai/parlex/logging"
	"github.com/parlex-ai/parlex/matcher"
	"github.com/parlex-ai/parlex/metrics"
	"github.com/parlex-ai/parlex/storage"
)

// Options configures the Parlex instance. Per-bot collaborators that hold
// trained state (classifier, slot extractor) are supplied as factories so
// every mounted engine gets its own instance.
type Options struct {
	// EngineConfig is applied to every mounted engine unless overridden
	// per bot at mount time.
	EngineConfig engine.Config

	// StorageProvider resolves the tenant-scoped storage for a bot.
	// Defaults to a process-wide in-memory store per bot.
	StorageProvider core.StorageProvider

	// NewClassifier builds the intent backend for a newly mounted engine.
	// Defaults to the built-in bag-of-words classifier.
	NewClassifier func() core.IntentClassifier

	// NewSlotExtractor builds the slot backend for a newly mounted engine.
	NewSlotExtractor func() core.SlotExtractor

	// Language is shared across engines; identification is stateless.
	Language core.LanguageIdentifier

	// SystemEntities is shared across engines.
	SystemEntities core.SystemEntityExtractor

	// Matchers produces intent match predicates.
	Matchers *matcher.Factory

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics records Prometheus instrumentation. Nil disables recording.
	Metrics *metrics.Recorder
}

// Parlex is the high-level façade aggregating the engine registry and shared
// services.
type Parlex struct {
	opts     Options
	registry *engine.Registry
}

// New creates a new Parlex instance with optional overrides. Any unset
// collaborator is initialized with a local default.
func New(optFns ...func(o *Options)) *Parlex {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.StorageProvider == nil {
		stores := storage.NewMultiStore()
		opts.StorageProvider = stores.Provider()
	}
	if opts.NewClassifier == nil {
		opts.NewClassifier = func() core.IntentClassifier { return classifier.NewBagOfWords() }
	}

	return &Parlex{opts: opts, registry: engine.NewRegistry()}
}

// Mount creates an engine for the bot, synchronizes its model when the engine
// config asks for it and registers it. Mounting a bot that is already mounted
// replaces the previous engine.
func (p *Parlex) Mount(ctx context.Context, botID string, optFns ...func(o *engine.Options)) (*engine.Engine, error) {
	store, err := p.opts.StorageProvider(botID)
	if err != nil {
		return nil, fmt.Errorf("resolve storage for bot %q: %w", botID, err)
	}

	base := func(o *engine.Options) {
		o.Config = p.opts.EngineConfig
		o.Classifier = p.opts.NewClassifier()
		o.Language = p.opts.Language
		o.SystemEntities = p.opts.SystemEntities
		o.Matchers = p.opts.Matchers
		o.Logger = p.opts.Logger
		o.Metrics = p.opts.Metrics
		if p.opts.NewSlotExtractor != nil {
			o.Slots = p.opts.NewSlotExtractor()
		}
	}

	e, err := engine.New(ctx, botID, store, append([]func(o *engine.Options){base}, optFns...)...)
	if err != nil {
		return nil, err
	}

	p.registry.Mount(e)
	p.opts.Metrics.EngineMounted(1)
	return e, nil
}

// Unmount removes the bot's engine.
func (p *Parlex) Unmount(botID string) error {
	if err := p.registry.Unmount(botID); err != nil {
		return err
	}
	p.opts.Metrics.EngineMounted(-1)
	return nil
}

// Engine returns the mounted engine for the bot.
func (p *Parlex) Engine(botID string) (*engine.Engine, error) {
	return p.registry.Get(botID)
}

// Bots returns the IDs of all mounted bots in sorted order.
func (p *Parlex) Bots() []string { return p.registry.BotIDs() }

// Understand runs the bot's prediction pipeline. The only error case is an
// unmounted bot; pipeline failures are reported through the Errored flag on
// the result.
func (p *Parlex) Understand(ctx context.Context, botID, text string) (core.Understanding, error) {
	e, err := p.registry.Get(botID)
	if err != nil {
		return core.Understanding{}, err
	}
	return e.Understand(ctx, text), nil
}

// Sync re-synchronizes the bot's model with its authored definitions.
func (p *Parlex) Sync(ctx context.Context, botID string) error {
	e, err := p.registry.Get(botID)
	if err != nil {
		return err
	}
	return e.Sync(ctx)
}
