// Package logging adapts charmbracelet/log to the scope Logger and
// EvaluatorLogger seams.
package logging

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"

	metalava "github.com/goliatone/go-metalava"
)

// Level is a log level name: debug, info, warn or error.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func (l Level) charm() charmlog.Level {
	switch Level(strings.ToLower(string(l))) {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Config controls the backend.
type Config struct {
	Level      Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
	Prefix     string
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
		Prefix:     "metalava",
	}
}

// Logger implements metalava.Logger and metalava.EvaluatorLogger.
type Logger struct {
	charm *charmlog.Logger
}

var (
	_ metalava.Logger          = (*Logger)(nil)
	_ metalava.EvaluatorLogger = (*Logger)(nil)
)

// New builds a Logger from cfg; zero fields take DefaultConfig values.
func New(cfg Config) *Logger {
	defaults := DefaultConfig()
	if cfg.Output == nil {
		cfg.Output = defaults.Output
	}
	if cfg.Level == "" {
		cfg.Level = defaults.Level
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	charm := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.charm(),
		Prefix:          cfg.Prefix,
	})
	if cfg.JSON {
		charm.SetFormatter(charmlog.JSONFormatter)
	} else {
		charm.SetFormatter(charmlog.TextFormatter)
	}
	return &Logger{charm: charm}
}

// Wrap adapts an existing charm logger.
func Wrap(charm *charmlog.Logger) *Logger {
	if charm == nil {
		charm = charmlog.Default()
	}
	return &Logger{charm: charm}
}

func (l *Logger) Debug(msg string, keyvals ...any) { l.charm.Debug(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...any)  { l.charm.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.charm.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.charm.Error(msg, keyvals...) }

// LogEvaluation logs successful evaluations at debug and failures at warn.
func (l *Logger) LogEvaluation(event metalava.EvaluatorLogEvent) {
	keyvals := []any{
		"engine", event.Engine,
		"expr", event.Expr,
		"scope", event.Scope,
		"duration", event.Duration,
	}
	if event.Err != nil {
		l.charm.Warn("rule evaluation failed", append(keyvals, "err", event.Err)...)
		return
	}
	l.charm.Debug("rule evaluated", keyvals...)
}

// Options returns the scope options routing both seams to l.
func (l *Logger) Options() []metalava.ScopeOption {
	return []metalava.ScopeOption{
		metalava.WithLogger(l),
		metalava.WithEvaluatorLogger(l),
	}
}
