// Package logging constructs the single structured logger threaded through the
// core's components. Nothing in this package installs a global logger: callers build
// one with New and pass it to constructors, the same way the rest of the core passes
// a *config.Config down rather than reading a package-level global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger's verbosity and output shape.
type Options struct {
	Development bool // human-readable console encoding instead of JSON
	Level       zapcore.Level
}

// New builds a *zap.Logger honoring Options. The returned logger is safe for
// concurrent use by every component in the core.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	return cfg.Build()
}

// Noop returns a logger that discards everything, for tests and callers that
// have not wired a real sink.
func Noop() *zap.Logger {
	return zap.NewNop()
}
