// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. ParlexLogger adds contextual cloning helpers (component,
// bot) that WithScope uses to tag every entry an engine emits.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for Parlex. Arguments follow
// the slog convention of alternating keys and values. This allows users to
// provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// ParlexLogger wraps slog.Logger adding contextual cloning helpers. Copies
// returned by the With* methods share the underlying handler and are cheap.
type ParlexLogger struct {
	logger    *slog.Logger
	component string
	botID     string
}

// LoggerConfig configures construction of a ParlexLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	BotID     string
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, AddSource: true}
}

// NewLogger builds a ParlexLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *ParlexLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &ParlexLogger{logger: slog.New(handler), component: cfg.Component, botID: cfg.BotID}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent sets the logical component (engine, transport, classifier).
func (l *ParlexLogger) WithComponent(c string) *ParlexLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithBot attaches the bot identifier to every entry.
func (l *ParlexLogger) WithBot(botID string) *ParlexLogger {
	nl := *l
	nl.botID = botID
	return &nl
}

func (l *ParlexLogger) log(level slog.Level, msg string, args ...any) {
	all := make([]any, 0, len(args)+4)
	if l.component != "" {
		all = append(all, "component", l.component)
	}
	if l.botID != "" {
		all = append(all, "bot_id", l.botID)
	}
	all = append(all, args...)
	l.logger.Log(context.Background(), level, msg, all...)
}

// Debug logs at debug level.
func (l *ParlexLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

// Info logs at info level.
func (l *ParlexLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *ParlexLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

// Error logs at error level.
func (l *ParlexLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

// WithScope returns a logger that tags every entry with the given component
// and bot identifier. A ParlexLogger is cloned through its contextual
// helpers; any other Logger implementation is wrapped.
func WithScope(l Logger, component, botID string) Logger {
	if pl, ok := l.(*ParlexLogger); ok {
		return pl.WithComponent(component).WithBot(botID)
	}
	if _, ok := l.(NoOpLogger); ok {
		return l
	}
	return &scopedLogger{base: l, attrs: []any{"component", component, "bot_id", botID}}
}

type scopedLogger struct {
	base  Logger
	attrs []any
}

func (s *scopedLogger) with(args []any) []any {
	all := make([]any, 0, len(s.attrs)+len(args))
	all = append(all, s.attrs...)
	return append(all, args...)
}

func (s *scopedLogger) Debug(msg string, args ...any) { s.base.Debug(msg, s.with(args)...) }

func (s *scopedLogger) Info(msg string, args ...any) { s.base.Info(msg, s.with(args)...) }

func (s *scopedLogger) Warn(msg string, args ...any) { s.base.Warn(msg, s.with(args)...) }

func (s *scopedLogger) Error(msg string, args ...any) { s.base.Error(msg, s.with(args)...) }

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger creates a new ParlexLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *ParlexLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}
