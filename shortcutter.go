package shortcutter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/adapters/file"
	"github.com/aretw0/shortcutter/pkg/adapters/x11"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
	"github.com/aretw0/shortcutter/pkg/runner"
	"github.com/aretw0/shortcutter/pkg/vision"
)

// Engine is the high-level entry point of the library.
// It owns one runner.Controller and the platform it was built with.
type Engine struct {
	Name string

	store    ports.MacroStore
	listener ports.Listener
	pointer  ports.Pointer
	locator  ports.Locator
	closer   io.Closer

	logger     *slog.Logger
	hooks      []domain.LifecycleHooks
	assetDir   string
	runnerOpts []runner.Option

	controller *runner.Controller
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a MacroStore, bypassing the default file store.
func WithStore(store ports.MacroStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithPlatform injects the hotkey listener, pointer and screen locator,
// bypassing the X11 display.
func WithPlatform(listener ports.Listener, pointer ports.Pointer, locator ports.Locator) Option {
	return func(e *Engine) {
		e.listener = listener
		e.pointer = pointer
		e.locator = locator
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls add hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithIndicator adds a status indicator.
func WithIndicator(indicator ports.StatusIndicator) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithIndicator(indicator))
	}
}

// WithReserved sets the combos that are never bound.
func WithReserved(reserved combo.Set) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithReserved(reserved))
	}
}

// WithPollInterval sets how often image searches retry.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithPollInterval(d))
	}
}

// WithAssetDir sets the directory relative asset targets resolve against.
// Defaults to the file store's icons directory.
func WithAssetDir(dir string) Option {
	return func(e *Engine) {
		e.assetDir = dir
	}
}

// WithInstanceLock keeps a second engine sharing lock and key from starting.
func WithInstanceLock(lock ports.Locker, key string, ttl time.Duration) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithInstanceLock(lock, key, ttl))
	}
}

// New initializes an Engine.
// By default macros are read from a file store rooted at dataDir and the
// platform is the X11 display. If WithStore is given, dataDir may be empty.
func New(dataDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.store == nil {
		if dataDir == "" {
			return nil, errors.New("dataDir is required when no custom store is provided")
		}
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		fs := file.New(absPath, file.WithLogger(eng.logger))
		if err := fs.EnsureDirectories(); err != nil {
			return nil, fmt.Errorf("failed to prepare %s: %w", absPath, err)
		}
		eng.store = fs
		eng.Name = filepath.Base(absPath)
		if eng.assetDir == "" {
			eng.assetDir = fs.AssetDir()
		}
	} else if dataDir != "" {
		eng.Name = filepath.Base(dataDir)
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("store", eng.Name)
	}

	if eng.listener == nil || eng.pointer == nil || eng.locator == nil {
		display, err := x11.Open(eng.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open display: %w", err)
		}
		eng.listener = display
		eng.pointer = display
		eng.locator = vision.NewLocator(display)
		eng.closer = display
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(eng.logger),
		runner.WithHooks(domain.CombineHooks(eng.hooks...)),
	}
	if eng.assetDir != "" {
		runnerOpts = append(runnerOpts, runner.WithAssetDir(eng.assetDir))
	}
	runnerOpts = append(runnerOpts, eng.runnerOpts...)

	eng.controller = runner.New(eng.store, eng.listener, eng.pointer, eng.locator, runnerOpts...)
	return eng, nil
}

// Store returns the macro store the engine reads from.
func (e *Engine) Store() ports.MacroStore {
	return e.store
}

// Controller exposes the underlying runner, e.g. for the HTTP surface.
func (e *Engine) Controller() *runner.Controller {
	return e.controller
}

// Start loads the macros and begins listening. No-op when already running.
func (e *Engine) Start(ctx context.Context) error {
	return e.controller.Start(ctx)
}

// Stop cancels in-flight macros and stops listening. No-op when stopped.
func (e *Engine) Stop() {
	e.controller.Stop()
}

// Reload restarts the engine against the current store contents.
func (e *Engine) Reload(ctx context.Context) error {
	return e.controller.Reload(ctx)
}

// Run starts the engine and blocks until ctx is done or a termination signal arrives.
func (e *Engine) Run(ctx context.Context) error {
	return e.controller.Run(ctx)
}

// Status reports whether the engine is listening.
func (e *Engine) Status() domain.RunnerStatus {
	return e.controller.Status()
}

// Combos returns the combos bound while running.
func (e *Engine) Combos() []domain.Combo {
	return e.controller.Combos()
}

// Trigger runs the macro bound to c as if its combo had been pressed.
func (e *Engine) Trigger(c domain.Combo) bool {
	return e.controller.Trigger(c)
}

// Close stops the engine and releases the display it opened, if any.
func (e *Engine) Close() error {
	e.controller.Stop()
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}
