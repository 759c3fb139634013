package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

const (
	macrosDirName = "shortcuts"
	assetsDirName = "icons"
	tmpPrefix     = "tmp-"
)

// Store implements ports.MacroStore using the local filesystem.
// Each macro is a JSON file under <dir>/shortcuts named after the sanitized
// macro name; image assets live under <dir>/icons.
type Store struct {
	BasePath string
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Store rooted at basePath.
// If basePath is empty, it defaults to ".shortcutter".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = ".shortcutter"
	}
	s := &Store{BasePath: basePath, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MacrosDir returns the directory holding macro records.
func (s *Store) MacrosDir() string {
	return filepath.Join(s.BasePath, macrosDirName)
}

// AssetDir returns the directory relative asset references resolve against.
func (s *Store) AssetDir() string {
	return filepath.Join(s.BasePath, assetsDirName)
}

// EnsureDirectories creates the macro and asset directories.
func (s *Store) EnsureDirectories() error {
	for _, dir := range []string{s.MacrosDir(), s.AssetDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.MacrosDir(), domain.SanitizeName(name)+".json")
}

// Save persists the macro to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, macro domain.Macro) error {
	if domain.SanitizeName(macro.Name) == "" {
		return fmt.Errorf("macro name cannot be empty")
	}
	if err := s.EnsureDirectories(); err != nil {
		return err
	}

	data, err := schema.Marshal(macro)
	if err != nil {
		return fmt.Errorf("failed to marshal macro: %w", err)
	}

	destPath := s.path(macro.Name)
	tmpFile, err := os.CreateTemp(s.MacrosDir(), tmpPrefix+"*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing macro file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to macro file: %w", err)
	}
	return nil
}

// Load retrieves a macro by name.
func (s *Store) Load(ctx context.Context, name string) (domain.Macro, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Macro{}, domain.ErrMacroNotFound
		}
		return domain.Macro{}, fmt.Errorf("failed to read macro file: %w", err)
	}
	return schema.Unmarshal(data)
}

// Delete removes the macro file and every asset under AssetDir that no
// remaining macro references. Assets are kept when any remaining macro file
// fails to decode.
func (s *Store) Delete(ctx context.Context, name string) error {
	macro, loadErr := s.Load(ctx, name)

	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete macro file: %w", err)
	}
	if loadErr != nil {
		return nil
	}

	catalog, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(catalog.Skipped) > 0 {
		// Unreadable records may still reference these assets.
		s.logger.Warn("Keeping assets, some macros could not be read", "macro", name, "skipped", len(catalog.Skipped))
		return nil
	}
	inUse := make(map[string]bool)
	for _, m := range catalog.Macros {
		for _, ref := range m.Assets() {
			inUse[s.resolve(ref)] = true
		}
	}

	for _, ref := range macro.Assets() {
		asset := s.resolve(ref)
		if inUse[asset] || !s.owns(asset) {
			continue
		}
		if err := os.Remove(asset); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove unused asset", "asset", asset, "error", err)
			continue
		}
		s.logger.Debug("Removed unused asset", "asset", asset)
	}
	return nil
}

// List decodes every macro file, skipping the ones that fail.
func (s *Store) List(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog

	entries, err := os.ReadDir(s.MacrosDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog, nil
		}
		return catalog, fmt.Errorf("failed to list macros: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.MacrosDir(), name))
		if err == nil {
			var m domain.Macro
			if m, err = schema.Unmarshal(data); err == nil {
				catalog.Macros = append(catalog.Macros, m)
				continue
			}
		}
		catalog.Skipped = append(catalog.Skipped, domain.RecordError{Record: name, Err: err})
	}

	sort.Slice(catalog.Macros, func(i, j int) bool { return catalog.Macros[i].Name < catalog.Macros[j].Name })
	return catalog, nil
}

func (s *Store) resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(s.AssetDir(), ref)
}

// owns reports whether path lies inside AssetDir.
func (s *Store) owns(path string) bool {
	rel, err := filepath.Rel(s.AssetDir(), path)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
