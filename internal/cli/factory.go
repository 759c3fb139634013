package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/shortcutter"
	"github.com/aretw0/shortcutter/internal/config"
	"github.com/aretw0/shortcutter/pkg/adapters/file"
	"github.com/aretw0/shortcutter/pkg/adapters/memory"
	redisadapter "github.com/aretw0/shortcutter/pkg/adapters/redis"
	"github.com/aretw0/shortcutter/pkg/adapters/sqlite"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Backend is an opened macro store plus what the backend can offer the runner.
type Backend struct {
	Store ports.MacroStore
	// Locker is set for backends able to enforce a single runner across processes.
	Locker ports.Locker
	// AssetDir is where the store keeps image assets, if it has one.
	AssetDir string

	close func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore opens the macro store selected by cfg.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		r := cfg.Store.Redis
		store := redisadapter.New(r.Addr, r.Password, r.DB, redisadapter.WithPrefix(r.Prefix))
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis %s unreachable: %w", r.Addr, err)
		}
		logger.Debug("Using redis store", "addr", r.Addr, "prefix", r.Prefix)
		return &Backend{
			Store:    store,
			Locker:   redisadapter.NewLocker(store.Client(), r.Prefix),
			AssetDir: cfg.AssetDir(),
			close:    store.Close,
		}, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, err
		}
		store, err := sqlite.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		logger.Debug("Using sqlite store", "path", cfg.SQLitePath())
		return &Backend{Store: store, AssetDir: cfg.AssetDir(), close: store.Close}, nil
	default:
		store := file.New(cfg.DataDir, file.WithLogger(logger))
		if err := store.EnsureDirectories(); err != nil {
			return nil, err
		}
		logger.Debug("Using file store", "dir", store.BasePath)
		assetDir := store.AssetDir()
		if cfg.Engine.AssetDir != "" {
			assetDir = cfg.Engine.AssetDir
		}
		return &Backend{Store: store, AssetDir: assetDir}, nil
	}
}

// instanceKey scopes the runner lock to the display it grabs keys on.
func instanceKey() string {
	display := os.Getenv("DISPLAY")
	if display == "" {
		display = "default"
	}
	return "runner:" + display
}

// engineOptions translates cfg and the backend into facade options.
func engineOptions(cfg config.Config, backend *Backend, logger *slog.Logger) []shortcutter.Option {
	opts := []shortcutter.Option{
		shortcutter.WithStore(backend.Store),
		shortcutter.WithLogger(logger),
		shortcutter.WithReserved(cfg.ReservedSet()),
		shortcutter.WithPollInterval(cfg.Engine.PollInterval),
		shortcutter.WithAssetDir(backend.AssetDir),
		shortcutter.WithLifecycleHooks(debugHooks(logger)),
	}
	if backend.Locker != nil && cfg.Store.Redis.InstanceLockTTL > 0 {
		opts = append(opts, shortcutter.WithInstanceLock(backend.Locker, instanceKey(), cfg.Store.Redis.InstanceLockTTL))
	}
	return opts
}

// dryRunPlatform replaces the display with in-memory devices: hotkeys only
// fire through the HTTP trigger endpoint and pointer actions are recorded.
func dryRunPlatform() shortcutter.Option {
	return shortcutter.WithPlatform(
		memory.NewKeyboard(),
		memory.NewPointer(domain.Point{}),
		memory.NewScreen(),
	)
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "instance_id", e.InstanceID, "macro", e.MacroName, "combo", e.Combo)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if e.Err != nil {
				logger.Debug("Step (Error)", "instance_id", e.InstanceID, "index", e.Index, "action", e.Action, "err", e.Err)
			} else {
				logger.Debug("Step", "instance_id", e.InstanceID, "index", e.Index, "action", e.Action, "duration", e.Duration)
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.EndEvent) {
			logger.Debug("Run End",
				"instance_id", e.Result.InstanceID,
				"macro", e.Result.MacroName,
				"state", e.Result.State,
				"reason", e.Result.Reason,
				"steps", e.Result.StepsRun,
				"duration", e.Result.Duration,
			)
		},
		OnTriggerDropped: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Trigger Dropped", "macro", e.MacroName, "combo", e.Combo)
		},
	}
}
