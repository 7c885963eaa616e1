// Package enblog provides the platform's structured logger, backed by
// charmbracelet/log, with a context-carried default via a
// FromContext/ContextWithLogger pair.
package enblog

import (
	"context"
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the minimal structured-logging surface the platform core
// consumes. Sub-loggers (one per node) are produced via With.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	With(kv ...any) Logger
}

// Level names the verbosity of a Logger.
type Level string

const (
	DebugLevel    Level = "debug"
	InfoLevel     Level = "info"
	WarnLevel     Level = "warn"
	ErrorLevel    Level = "error"
	DisabledLevel Level = "disabled"
)

func (l Level) toCharmLevel() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case DisabledLevel:
		return charmlog.Level(1000)
	default:
		return charmlog.InfoLevel
	}
}

type charmLogger struct {
	l *charmlog.Logger
}

// NewLogger builds a Logger writing to w at the given level. A nil w
// defaults to os.Stderr.
func NewLogger(w io.Writer, level Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	l := charmlog.NewWithOptions(w, charmlog.Options{ReportTimestamp: true})
	l.SetLevel(level.toCharmLevel())
	return &charmLogger{l: l}
}

// Disabled returns a Logger that discards everything; used when a node's
// sub-logger is turned off after a successful build.
func Disabled() Logger {
	return NewLogger(io.Discard, DisabledLevel)
}

func (c *charmLogger) Debug(msg string, kv ...any) { c.l.Debug(msg, kv...) }
func (c *charmLogger) Info(msg string, kv ...any)  { c.l.Info(msg, kv...) }
func (c *charmLogger) Warn(msg string, kv ...any)  { c.l.Warn(msg, kv...) }
func (c *charmLogger) Error(msg string, kv ...any) { c.l.Error(msg, kv...) }

func (c *charmLogger) With(kv ...any) Logger {
	return &charmLogger{l: c.l.With(kv...)}
}

type ctxKey struct{}

var (
	defaultOnce   sync.Once
	defaultLogger Logger
)

func defaultLoggerInstance() Logger {
	defaultOnce.Do(func() {
		defaultLogger = NewLogger(os.Stderr, InfoLevel)
	})
	return defaultLogger
}

// ContextWithLogger attaches l to ctx.
func ContextWithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the Logger carried by ctx, or a shared default
// logger when none (or a nil/wrong-typed value) is present.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if v := ctx.Value(ctxKey{}); v != nil {
			if l, ok := v.(Logger); ok && l != nil {
				return l
			}
		}
	}
	return defaultLoggerInstance()
}
