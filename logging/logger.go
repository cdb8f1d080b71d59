// Package logging defines the leveled logging contract used across the
// converter. It mirrors the interface exposed by github.com/goliatone/go-logger
// so that package (see logging/gologger) plugs in without further adapters.
package logging

import (
	"context"
	"maps"
)

// Logger is a leveled logger taking a message followed by key/value pairs.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// Provider returns named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for attaching persistent fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// WithFields attaches fields when the logger supports FieldsLogger and
// returns the logger unchanged otherwise.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// Named returns the provider's logger for name, tagged with a "module"
// field. A nil provider yields NoOp.
func Named(provider Provider, name string) Logger {
	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(name); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": name})
}

// OrNoOp returns logger, or NoOp when it is nil.
func OrNoOp(logger Logger) Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

type noopLogger struct{}

// NoOp returns a logger that discards everything.
func NoOp() Logger {
	return noopLogger{}
}

func (noopLogger) Trace(string, ...any)                 {}
func (noopLogger) Debug(string, ...any)                 {}
func (noopLogger) Info(string, ...any)                  {}
func (noopLogger) Warn(string, ...any)                  {}
func (noopLogger) Error(string, ...any)                 {}
func (noopLogger) Fatal(string, ...any)                 {}
func (n noopLogger) WithContext(context.Context) Logger { return n }
func (n noopLogger) WithFields(map[string]any) Logger   { return n }
