package engine

import (
	"log/slog"
	"time"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// DefaultPollInterval is the pause between two image lookups of a MoveToImage step.
const DefaultPollInterval = 200 * time.Millisecond

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithPollInterval sets how often a MoveToImage step searches the screen.
func WithPollInterval(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithAssetDir resolves relative asset references against dir.
func WithAssetDir(dir string) Option {
	return func(e *Executor) {
		e.assetDir = dir
	}
}

// WithPointerLock shares a pointer lock between executors.
func WithPointerLock(l *PointerLock) Option {
	return func(e *Executor) {
		if l != nil {
			e.lock = l
		}
	}
}
