// Package log wraps log/slog with component-scoped loggers so every line
// carries the subsystem it came from.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger bound to a component name.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	JSON      bool
}

// FromEnv builds a config from LOG_LEVEL (debug|info|warn|error) and
// LOG_FORMAT (text|json).
func FromEnv(component string) Config {
	cfg := Config{Level: slog.LevelInfo, Component: component}
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}
	cfg.JSON = strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")
	return cfg
}

// New creates a component logger writing to stdout.
func New(cfg Config) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	base := slog.New(handler).With("component", cfg.Component)
	return &Logger{Logger: base, component: cfg.Component}
}

// WithComponent derives a logger for a sub-system.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default, so
// packages that log via the slog top-level functions share the handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
