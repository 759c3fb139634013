package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunMacroStoreContract runs a suite of tests to verify that a MacroStore implementation
// adheres to the defined interface contract. The store is expected to start empty.
func RunMacroStoreContract(t *testing.T, store MacroStore) {
	ctx := context.Background()

	macro := domain.Macro{
		Name:  "contract-open",
		Combo: "ctrl+alt+o",
		Steps: []domain.Step{
			domain.MoveToImage("open.png", 0.9, 2*time.Second),
			domain.LeftClick(),
			domain.Delay(100 * time.Millisecond),
			domain.CheckDuplicates("open.png", domain.DefaultConfidence),
			domain.MoveTo(5, 7),
			domain.MoveToOrigin(),
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, macro)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, macro.Name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, macro, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		edited := macro
		edited.Combo = "ctrl+alt+p"
		edited.Steps = []domain.Step{domain.RightClick()}
		require.NoError(t, store.Save(ctx, edited))

		loaded, err := store.Load(ctx, macro.Name)
		require.NoError(t, err)
		assert.Equal(t, edited, loaded)

		catalog, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, catalog.Macros, 1, "replacing must not duplicate the macro")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent")
		assert.ErrorIs(t, err, domain.ErrMacroNotFound)
	})

	t.Run("List Sorted", func(t *testing.T) {
		_ = store.Save(ctx, domain.Macro{Name: "b-second", Combo: "f2"})
		_ = store.Save(ctx, domain.Macro{Name: "a-first", Combo: "f1"})
		defer func() {
			_ = store.Delete(ctx, "a-first")
			_ = store.Delete(ctx, "b-second")
		}()

		catalog, err := store.List(ctx)
		require.NoError(t, err)
		var names []string
		for _, m := range catalog.Macros {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"a-first", "b-second", macro.Name}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, macro.Name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, macro.Name)
		assert.ErrorIs(t, err, domain.ErrMacroNotFound, "Load after Delete should return ErrMacroNotFound")

		assert.NoError(t, store.Delete(ctx, macro.Name), "Delete is idempotent")
	})
}
