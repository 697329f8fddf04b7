package wasmhost

import (
	"log/slog"

	"github.com/tetratelabs/wazero"
)

// Option defines a functional option for configuring the Executor.
type Option func(*executorConfig)

type executorConfig struct {
	cache  wazero.CompilationCache
	logger *slog.Logger
}

// WithCompilationCache configures the executor with a compilation cache,
// letting repeatedly loaded modules skip recompilation.
func WithCompilationCache(cache wazero.CompilationCache) Option {
	return func(c *executorConfig) {
		c.cache = cache
	}
}

// WithGuestLogger exports the log_message host function to guest modules,
// forwarding their log records to logger.
func WithGuestLogger(logger *slog.Logger) Option {
	return func(c *executorConfig) {
		c.logger = logger
	}
}
