package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// DefaultLockTimeout bounds how long Start waits for the instance lock.
const DefaultLockTimeout = 2 * time.Second

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHooks configures the lifecycle hooks passed to every dispatcher and executor.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithIndicator adds a status indicator. Indicators are notified in the order added.
func WithIndicator(indicator ports.StatusIndicator) Option {
	return func(c *Controller) {
		c.indicators = append(c.indicators, indicator)
	}
}

// WithReserved sets the combos the dispatch table refuses to bind.
func WithReserved(reserved combo.Set) Option {
	return func(c *Controller) {
		c.reserved = reserved
	}
}

// WithPollInterval sets the image search poll interval of the executors.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.pollInterval = d
	}
}

// WithAssetDir sets the directory relative asset references resolve against.
func WithAssetDir(dir string) Option {
	return func(c *Controller) {
		c.assetDir = dir
	}
}

// WithInstanceLock makes Start hold lock for key while running, so a second
// controller using the same key fails to start.
func WithInstanceLock(lock ports.Locker, key string, ttl time.Duration) Option {
	return func(c *Controller) {
		c.locker = lock
		c.lockKey = key
		c.lockTTL = ttl
	}
}
