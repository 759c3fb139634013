package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/dispatcher"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/engine"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// ErrAnotherInstance is returned by Start when the instance lock is held elsewhere.
var ErrAnotherInstance = errors.New("another runner holds the instance lock")

// Controller starts and stops the single live Dispatcher.
// Safe for concurrent use.
type Controller struct {
	store    ports.MacroStore
	listener ports.Listener
	pointer  ports.Pointer
	locator  ports.Locator

	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	indicators   []ports.StatusIndicator
	reserved     combo.Set
	pollInterval time.Duration
	assetDir     string

	locker  ports.Locker
	lockKey string
	lockTTL time.Duration

	mu     sync.Mutex
	status domain.RunnerStatus
	disp   *dispatcher.Dispatcher
	unlock ports.UnlockFunc
}

// New creates a stopped Controller.
func New(store ports.MacroStore, listener ports.Listener, pointer ports.Pointer, locator ports.Locator, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		listener: listener,
		pointer:  pointer,
		locator:  locator,
		logger:   logging.NewNop(),
		reserved: combo.DefaultReserved(),
		status:   domain.StatusStopped,
		lockTTL:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the macro snapshot and starts a Dispatcher for it.
// It is a no-op when already running. Unreadable records are logged and
// skipped; only a store-wide failure or a hotkey registration failure is
// returned.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == domain.StatusRunning {
		c.logger.Debug("Start ignored, runner already running")
		return nil
	}

	if err := c.acquire(ctx); err != nil {
		return err
	}

	catalog, err := c.store.List(ctx)
	if err != nil {
		c.release()
		return fmt.Errorf("load macros: %w", err)
	}
	for _, skipped := range catalog.Skipped {
		c.logger.Warn("Skipping unreadable macro record", "record", skipped.Record, "error", skipped.Err)
	}

	execOpts := []engine.Option{
		engine.WithLogger(c.logger),
		engine.WithHooks(c.hooks),
		engine.WithAssetDir(c.assetDir),
	}
	if c.pollInterval > 0 {
		execOpts = append(execOpts, engine.WithPollInterval(c.pollInterval))
	}
	exec := engine.NewExecutor(c.pointer, c.locator, execOpts...)

	disp := dispatcher.New(catalog.Macros, c.listener, exec,
		dispatcher.WithLogger(c.logger),
		dispatcher.WithHooks(c.hooks),
		dispatcher.WithReserved(c.reserved),
	)
	// The dispatcher outlives the caller's context; Stop ends it.
	if err := disp.Start(context.WithoutCancel(ctx)); err != nil {
		c.release()
		return err
	}

	c.disp = disp
	c.status = domain.StatusRunning
	c.logger.Info("Runner started", "macros", len(catalog.Macros), "skipped", len(catalog.Skipped), "combos", len(disp.Combos()))
	c.notify(ctx, domain.StatusRunning)
	return nil
}

// Stop terminates the Dispatcher and every in-flight macro.
// It is a no-op when already stopped.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == domain.StatusStopped {
		c.logger.Debug("Stop ignored, runner already stopped")
		return
	}

	c.disp.Stop()
	c.disp = nil
	c.release()
	c.status = domain.StatusStopped
	c.logger.Info("Runner stopped")
	c.notify(context.Background(), domain.StatusStopped)
}

// Reload stops the runner and starts it again from the current store contents.
func (c *Controller) Reload(ctx context.Context) error {
	c.Stop()
	return c.Start(ctx)
}

// Status returns the current runner status.
func (c *Controller) Status() domain.RunnerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Combos returns the bound combos, or nil when stopped.
func (c *Controller) Combos() []domain.Combo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disp == nil {
		return nil
	}
	return c.disp.Combos()
}

// Trigger runs the macro bound to combo. See dispatcher.Dispatcher.Trigger.
func (c *Controller) Trigger(combo domain.Combo) bool {
	c.mu.Lock()
	disp := c.disp
	c.mu.Unlock()
	if disp == nil {
		return false
	}
	return disp.Trigger(combo)
}

// Run starts the runner and blocks until ctx is done or a termination signal
// arrives, then stops it. SIGHUP reloads the macros in between.
func (c *Controller) Run(ctx context.Context) error {
	sm := NewSignalManager(ctx)
	defer sm.Stop()

	if err := c.Start(sm.Context()); err != nil {
		return err
	}
	defer c.Stop()

	for {
		select {
		case <-sm.Context().Done():
			c.logger.Info("Shutting down")
			return nil
		case <-sm.Reload():
			c.logger.Info("Reloading macros")
			if err := c.Reload(sm.Context()); err != nil {
				return fmt.Errorf("reload: %w", err)
			}
		}
	}
}

func (c *Controller) acquire(ctx context.Context) error {
	if c.locker == nil {
		return nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, DefaultLockTimeout)
	defer cancel()

	unlock, err := c.locker.Lock(lockCtx, c.lockKey, c.lockTTL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAnotherInstance, c.lockKey, err)
	}
	c.unlock = unlock
	return nil
}

func (c *Controller) release() {
	if c.unlock == nil {
		return
	}
	if err := c.unlock(context.Background()); err != nil {
		c.logger.Warn("Failed to release instance lock", "key", c.lockKey, "error", err)
	}
	c.unlock = nil
}

func (c *Controller) notify(ctx context.Context, status domain.RunnerStatus) {
	for _, ind := range c.indicators {
		ind.Notify(ctx, status)
	}
}
