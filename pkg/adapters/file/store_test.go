package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/adapters/file"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Ensure Store implements MacroStore
var _ ports.MacroStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunMacroStoreContract(t, store)
}

func TestFileStore_SanitizedFileName(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	macro := domain.Macro{Name: `open: a/b?`, Combo: "f1"}
	require.NoError(t, store.Save(ctx, macro))

	_, err := os.Stat(filepath.Join(dir, "shortcuts", "open_ a_b_.json"))
	require.NoError(t, err)

	loaded, err := store.Load(ctx, macro.Name)
	require.NoError(t, err)
	assert.Equal(t, macro.Name, loaded.Name)

	entries, err := os.ReadDir(filepath.Join(dir, "shortcuts"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_ListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Macro{Name: "ok", Combo: "f2"}))
	require.NoError(t, os.WriteFile(filepath.Join(store.MacrosDir(), "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.MacrosDir(), "notes.txt"), []byte("ignored"), 0o644))

	catalog, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.Macros, 1)
	require.Len(t, catalog.Skipped, 1)
	assert.Equal(t, "broken.json", catalog.Skipped[0].Record)
}

func TestFileStore_ListMissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	catalog, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog.Macros)
}

func TestFileStore_DeleteRemovesUnusedAssets(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()
	require.NoError(t, store.EnsureDirectories())

	shared := filepath.Join(store.AssetDir(), "shared.png")
	own := filepath.Join(store.AssetDir(), "own.png")
	outside := filepath.Join(dir, "outside.png")
	for _, p := range []string{shared, own, outside} {
		require.NoError(t, os.WriteFile(p, []byte("png"), 0o644))
	}

	require.NoError(t, store.Save(ctx, domain.Macro{
		Name:  "first",
		Combo: "f3",
		Steps: []domain.Step{
			domain.MoveToImage("shared.png", 0.8, time.Second),
			domain.CheckDuplicates("own.png", 0.8),
			domain.MoveToImage(outside, 0.8, time.Second),
		},
	}))
	require.NoError(t, store.Save(ctx, domain.Macro{
		Name:  "second",
		Combo: "f4",
		Steps: []domain.Step{domain.MoveToImage("shared.png", 0.8, time.Second)},
	}))

	require.NoError(t, store.Delete(ctx, "first"))

	assert.FileExists(t, shared, "still referenced by second")
	assert.NoFileExists(t, own)
	assert.FileExists(t, outside, "assets outside the asset directory are never removed")
}

func TestFileStore_DeleteKeepsAssetsWhenRecordsAreUnreadable(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()
	require.NoError(t, store.EnsureDirectories())

	icon := filepath.Join(store.AssetDir(), "icon.png")
	require.NoError(t, os.WriteFile(icon, []byte("png"), 0o644))
	require.NoError(t, store.Save(ctx, domain.Macro{
		Name:  "gone",
		Combo: "f5",
		Steps: []domain.Step{domain.MoveToImage("icon.png", 0.8, time.Second)},
	}))
	// A half-written record that may well reference icon.png too.
	require.NoError(t, os.WriteFile(filepath.Join(store.MacrosDir(), "other.json"), []byte(`{"name": "other", "steps": [`), 0o644))

	require.NoError(t, store.Delete(ctx, "gone"))

	_, err := store.Load(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrMacroNotFound)
	assert.FileExists(t, icon)
}
