package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/shortcutter/internal/config"
	"github.com/aretw0/shortcutter/internal/logging"
)

// Options holds the flags shared by every command. Set fields override the
// config file.
type Options struct {
	ConfigPath string
	DataDir    string
	Backend    string
	LogLevel   string
	LogJSON    bool
}

// RunOptions adds the flags of the run command.
type RunOptions struct {
	Options
	Listen string
	DryRun bool
	Quiet  bool
}

// LoadConfig reads the config file (explicit or discovered in the working
// directory) and applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.Find(".")
	} else if _, err := os.Stat(path); err != nil {
		return config.Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogJSON {
		cfg.Log.JSON = true
	}
	return cfg, cfg.Validate()
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithWriter(os.Stderr, level, cfg.Log.JSON)
}
