// Command parlexd runs the decision core as a service: it mounts the
// configured bots, serves understand requests over NATS and exposes
// Prometheus metrics over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"

	"github.com/parlex-ai/parlex"
	"github.com/parlex-ai/parlex/classifier"
	"github.com/parlex-ai/parlex/config"
	"github.com/parlex-ai/parlex/core"
	"github.com/parlex-ai/parlex/engine"
	"github.com/parlex-ai/parlex/entity"
	"github.com/parlex-ai/parlex/language"
	"github.com/parlex-ai/parlex/logging"
	"github.com/parlex-ai/parlex/metrics"
	"github.com/parlex-ai/parlex/storage"
	"github.com/parlex-ai/parlex/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "parlexd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "parlex.yaml", "path to the YAML configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadWithEnvOverrides(*configPath)
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logLevel(cfg.Service.LogLevel), "json", false)
	logger.Info("starting", "service", cfg.Service.Name, "storage", cfg.Storage.Backend,
		"classifier", cfg.Classifier.Backend)

	provider, cleanup, err := storageProvider(cfg.Storage)
	if err != nil {
		return err
	}
	defer cleanup()

	recorder := metrics.NewRecorder()

	p := parlex.New(func(o *parlex.Options) {
		o.StorageProvider = provider
		o.NewClassifier = classifierFactory(cfg.Classifier)
		o.Language = language.NewIdentifier()
		o.SystemEntities = entity.NewDuckling(func(d *entity.DucklingOptions) {
			d.Enabled = cfg.Duckling.Enabled
			d.URL = cfg.Duckling.URL
			d.Timeout = cfg.Duckling.Timeout
		})
		o.Logger = logger
		o.Metrics = recorder
	})

	ctx := context.Background()
	for _, bot := range cfg.Bots {
		if err := mountBot(ctx, p, bot); err != nil {
			return fmt.Errorf("mount bot %q: %w", bot.ID, err)
		}
		logger.Info("bot mounted", "bot_id", bot.ID)
	}

	var nt *transport.NATSTransport
	if cfg.NATS.Enabled {
		mount := func(ctx context.Context, botID string) error {
			_, err := p.Mount(ctx, botID)
			return err
		}
		nt, err = transport.NewNATSTransport(cfg.NATS.URL, p, mount, func(o *transport.Options) {
			o.Name = cfg.Service.Name
			o.SubjectPrefix = cfg.NATS.SubjectPrefix
			o.Timeout = cfg.NATS.Timeout
			o.Logger = logger
		})
		if err != nil {
			return err
		}
		defer nt.Close()

		if err := nt.Start(); err != nil {
			return err
		}
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		srv := &http.Server{
			Addr:         cfg.Metrics.Address,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("metrics listening", "address", cfg.Metrics.Address)
	}

	logger.Info("ready", "bots", p.Bots())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())
	return nil
}

func mountBot(ctx context.Context, p *parlex.Parlex, bot config.BotConfig) error {
	_, err := p.Mount(ctx, bot.ID, func(o *engine.Options) {
		o.Config.Threshold = bot.Threshold()
		if bot.StdDevMultiplier > 0 {
			o.Config.StdDevMultiplier = bot.StdDevMultiplier
		}
		if bot.Retry.MaxAttempts > 0 {
			o.Config.Retry = bot.Retry
		}
		if bot.Language != "" {
			o.Language = language.Fixed(bot.Language)
		}
	})
	return err
}

func storageProvider(cfg config.StorageConfig) (core.StorageProvider, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(storage.SQLiteConfig{DBPath: cfg.Path})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store.Provider(), func() { _ = store.Close() }, nil
	case "redis":
		store, err := storage.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store.Provider(), func() { _ = store.Close() }, nil
	default:
		return storage.NewMultiStore().Provider(), func() {}, nil
	}
}

func classifierFactory(cfg config.ClassifierConfig) func() core.IntentClassifier {
	switch cfg.Backend {
	case "anthropic":
		return func() core.IntentClassifier {
			return classifier.NewAnthropic(func(o *classifier.AnthropicOptions) {
				if cfg.Model != "" {
					o.Model = anthropic.Model(cfg.Model)
				}
			})
		}
	case "openai":
		return func() core.IntentClassifier {
			return classifier.NewOpenAI(func(o *classifier.OpenAIOptions) {
				if cfg.Model != "" {
					o.Model = cfg.Model
				}
			})
		}
	default:
		return func() core.IntentClassifier { return classifier.NewBagOfWords() }
	}
}

func logLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
