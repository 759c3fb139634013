package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shortcutter.yaml", `
data_dir: /var/lib/shortcutter
store:
  backend: redis
  redis:
    addr: redis:6379
    db: 2
engine:
  poll_interval: 50ms
reserved: ["Ctrl+Q"]
log:
  level: debug
  json: true
http:
  listen: ":8080"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/shortcutter", cfg.DataDir)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "shortcutter:", cfg.Store.Redis.Prefix, "unset keys keep their default")
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, ":8080", cfg.HTTP.Listen)
	assert.True(t, cfg.HTTP.Metrics)
	assert.Equal(t, "/var/lib/shortcutter/icons", cfg.AssetDir())
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shortcutter.toml", `
data_dir = "macros"

[engine]
poll_interval = "1s"
asset_dir = "/opt/icons"

[store.redis]
instance_lock_ttl = "30s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "macros", cfg.DataDir)
	assert.Equal(t, time.Second, cfg.Engine.PollInterval)
	assert.Equal(t, "/opt/icons", cfg.AssetDir())
	assert.Equal(t, 30*time.Second, cfg.Store.Redis.InstanceLockTTL)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shortcutter.json", `{"store": {"redis": {"db": "3"}}, "http": {"metrics": false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
	assert.False(t, cfg.HTTP.Metrics)
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "data"
	assert.Equal(t, filepath.Join("data", "macros.db"), cfg.SQLitePath())

	cfg.Store.SQLite.Path = "/tmp/m.db"
	assert.Equal(t, "/tmp/m.db", cfg.SQLitePath())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "bad.yaml", "store: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "unknown.yaml", "colour: blue\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, dir, "backend.yaml", "store:\n  backend: sqlite\n"))
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = Load(writeFile(t, dir, "poll.yaml", "engine:\n  poll_interval: 0s\nlog:\n  level: loud\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "poll_interval")
	assert.Contains(t, err.Error(), "log.level")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	writeFile(t, dir, "shortcutter.toml", "")
	assert.Equal(t, filepath.Join(dir, "shortcutter.toml"), Find(dir))

	writeFile(t, dir, "shortcutter.yaml", "")
	assert.Equal(t, filepath.Join(dir, "shortcutter.yaml"), Find(dir), "yaml wins over toml")
}

func TestReservedSet(t *testing.T) {
	cfg := Default()
	cfg.Reserved = []string{"Shift+Ctrl+Q"}
	set := cfg.ReservedSet()
	assert.True(t, set.Contains(domain.Combo("ctrl+shift+q")))
	assert.True(t, set.Contains(domain.Combo("alt+f4")))
}
