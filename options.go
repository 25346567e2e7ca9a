package pstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Options configures a Stream.
type Options struct {
	// Logger receives diagnostics: frame completions at debug level and
	// stream death at error level. Errors are never reported through the
	// logger alone; the dead state is authoritative.
	Logger *zap.Logger

	// Registry, when set, receives the stream metrics collectors.
	Registry prometheus.Registerer
}

// OptionFunc mutates Options.
type OptionFunc func(o *Options)

func newDefaultOptions() *Options {
	return &Options{
		Logger: zap.NewNop(),
	}
}

// WithLogger installs a logger for stream diagnostics.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics registers the stream's metrics with reg.
func WithMetrics(reg prometheus.Registerer) OptionFunc {
	return func(o *Options) {
		o.Registry = reg
	}
}
