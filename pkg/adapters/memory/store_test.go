package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/adapters/memory"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
	"github.com/aretw0/shortcutter/pkg/schema"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunMacroStoreContract(t, store)
}

func TestMemoryStore_ListSkipsCorruptRecords(t *testing.T) {
	store, err := memory.NewFromMacros(domain.Macro{Name: "good", Combo: "f1"})
	require.NoError(t, err)
	store.PutRaw("broken", []byte(`{"name": "broken", "combo": "f2", "steps": [{"action": "fly"}]}`))
	store.PutRaw("garbage", []byte(`{{{`))

	catalog, err := store.List(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog.Macros, 1)
	assert.Equal(t, "good", catalog.Macros[0].Name)
	require.Len(t, catalog.Skipped, 2)
	assert.Equal(t, "broken", catalog.Skipped[0].Record)
	assert.ErrorIs(t, catalog.Skipped[0], domain.ErrUnknownAction)
	assert.ErrorIs(t, catalog.Skipped[1], schema.ErrInvalidRecord)
}
