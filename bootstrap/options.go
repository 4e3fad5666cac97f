package bootstrap

import (
	"time"

	"github.com/kbukum/onionkit/logger"
	"github.com/kbukum/onionkit/pipeline"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	loader          pipeline.DefinitionLoader
	gracefulTimeout *time.Duration
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithDefinitionLoader sets a custom pipeline definition loader.
// If not set, a file loader over the config's pipeline dirs is used.
func WithDefinitionLoader(l pipeline.DefinitionLoader) Option {
	return func(o *appOptions) {
		o.loader = l
	}
}
