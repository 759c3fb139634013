package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/shortcutter/pkg/adapters/memory"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

// Builder manages the catalog construction.
type Builder struct {
	order    []string
	macros   map[string]*MacroBuilder
	reserved combo.Set
}

// New creates a builder that rejects the default reserved combos.
func New() *Builder {
	return &Builder{
		macros:   make(map[string]*MacroBuilder),
		reserved: combo.DefaultReserved(),
	}
}

// Reserve adds combos that no macro may use.
func (b *Builder) Reserve(combos ...string) *Builder {
	for _, c := range combos {
		b.reserved.Add(c)
	}
	return b
}

// Add creates a new macro in the catalog.
// If the macro already exists, it returns the existing builder.
func (b *Builder) Add(name string) *MacroBuilder {
	if mb, ok := b.macros[name]; ok {
		return mb
	}
	mb := &MacroBuilder{macro: domain.Macro{Name: name}}
	b.macros[name] = mb
	b.order = append(b.order, name)
	return mb
}

// Macros validates every macro and returns them in the order they were added.
func (b *Builder) Macros() ([]domain.Macro, error) {
	var errs []error
	out := make([]domain.Macro, 0, len(b.order))
	existing := make([]string, 0, len(b.order))

	for _, name := range b.order {
		m, err := schema.FromDomain(b.macros[name].macro).ToDomain()
		if err != nil {
			errs = append(errs, fmt.Errorf("macro %q: %w", name, err))
			continue
		}
		if err := combo.Check(string(m.Combo), existing, b.reserved, nil); err != nil {
			errs = append(errs, fmt.Errorf("macro %q: %w", name, err))
			continue
		}
		m.Combo = combo.Normalize(string(m.Combo))
		existing = append(existing, string(m.Combo))
		out = append(out, m)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Build compiles the catalog into an in-memory MacroStore.
func (b *Builder) Build() (*memory.Store, error) {
	macros, err := b.Macros()
	if err != nil {
		return nil, err
	}

	store, err := memory.NewFromMacros(macros...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return store, nil
}
