// Package config loads shortcutter settings from a YAML, TOML or JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/combo"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// BaseName is the config file name looked up by Find, without extension.
const BaseName = "shortcutter"

var extensions = []string{".yaml", ".yml", ".toml", ".json"}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full runtime configuration.
type Config struct {
	DataDir  string       `mapstructure:"data_dir"`
	Store    StoreConfig  `mapstructure:"store"`
	Engine   EngineConfig `mapstructure:"engine"`
	Reserved []string     `mapstructure:"reserved"`
	Log      LogConfig    `mapstructure:"log"`
	HTTP     HTTPConfig   `mapstructure:"http"`
}

// StoreConfig selects and configures the macro store.
type StoreConfig struct {
	Backend string       `mapstructure:"backend"`
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

// SQLiteConfig configures the sqlite backend. An empty Path means <data_dir>/macros.db.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig configures the redis backend. InstanceLockTTL > 0 enables the
// cross-process single-instance lock.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	Prefix          string        `mapstructure:"prefix"`
	InstanceLockTTL time.Duration `mapstructure:"instance_lock_ttl"`
}

type EngineConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	AssetDir     string        `mapstructure:"asset_dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// HTTPConfig enables the control API when Listen is set.
// TriggerRate <= 0 disables trigger throttling.
type HTTPConfig struct {
	Listen       string  `mapstructure:"listen"`
	Metrics      bool    `mapstructure:"metrics"`
	TriggerRate  float64 `mapstructure:"trigger_rate"`
	TriggerBurst int     `mapstructure:"trigger_burst"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir: ".shortcutter",
		Store: StoreConfig{
			Backend: BackendFile,
			Redis: RedisConfig{
				Addr:            "localhost:6379",
				Prefix:          "shortcutter:",
				InstanceLockTTL: 10 * time.Second,
			},
		},
		Engine: EngineConfig{PollInterval: 200 * time.Millisecond},
		Log:    LogConfig{Level: "info"},
		HTTP:   HTTPConfig{Metrics: true, TriggerRate: 5, TriggerBurst: 5},
	}
}

// Find returns the first shortcutter.{yaml,yml,toml,json} in dir, or "" if none exists.
func Find(dir string) string {
	for _, ext := range extensions {
		path := filepath.Join(dir, BaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads path over the defaults. An empty or missing path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw, err := parse(filepath.Ext(path), data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

func parse(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	return raw, err
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: store.backend %q must be one of %q, %q or %q",
			ErrInvalid, c.Store.Backend, BackendFile, BackendRedis, BackendSQLite))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%w: data_dir is required", ErrInvalid))
	}
	if c.Engine.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: engine.poll_interval must be positive", ErrInvalid))
	}
	if c.Store.Redis.InstanceLockTTL < 0 {
		errs = append(errs, fmt.Errorf("%w: store.redis.instance_lock_ttl must not be negative", ErrInvalid))
	}
	if c.HTTP.TriggerRate > 0 && c.HTTP.TriggerBurst < 1 {
		errs = append(errs, fmt.Errorf("%w: http.trigger_burst must be at least 1 when trigger_rate is set", ErrInvalid))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %v", ErrInvalid, err))
	}
	for _, r := range c.Reserved {
		if combo.Normalize(r) == "" {
			errs = append(errs, fmt.Errorf("%w: reserved combo %q is empty", ErrInvalid, r))
		}
	}
	return errors.Join(errs...)
}

// ReservedSet returns the default reserved combos plus the configured extras.
func (c Config) ReservedSet() combo.Set {
	set := combo.DefaultReserved()
	for _, r := range c.Reserved {
		set.Add(r)
	}
	return set
}

// SQLitePath returns Store.SQLite.Path, falling back to <data_dir>/macros.db.
func (c Config) SQLitePath() string {
	if c.Store.SQLite.Path != "" {
		return c.Store.SQLite.Path
	}
	return filepath.Join(c.DataDir, "macros.db")
}

// AssetDir returns Engine.AssetDir, falling back to <data_dir>/icons.
func (c Config) AssetDir() string {
	if c.Engine.AssetDir != "" {
		return c.Engine.AssetDir
	}
	return filepath.Join(c.DataDir, "icons")
}
