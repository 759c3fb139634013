package ports

import (
	"context"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// MacroStore defines the interface for persisting macro definitions.
type MacroStore interface {
	// Save creates or replaces the macro with the same name.
	Save(ctx context.Context, macro domain.Macro) error

	// Load retrieves a macro by name.
	// Returns domain.ErrMacroNotFound if it does not exist.
	Load(ctx context.Context, name string) (domain.Macro, error)

	// Delete removes a macro by name. Deleting a missing macro is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every readable macro, sorted by name. Unreadable records are
	// reported in Catalog.Skipped rather than failing the whole listing.
	List(ctx context.Context) (domain.Catalog, error)
}
