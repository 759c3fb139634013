package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/shortcutter/internal/presentation/graph"
	"github.com/aretw0/shortcutter/internal/presentation/tui"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
)

// List formats.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
	FormatMermaid  = "mermaid"
)

// List writes the stored macros with their steps to out: rendered markdown,
// raw markdown (plain) or one Mermaid flowchart per macro.
func List(ctx context.Context, opts Options, format string, out io.Writer) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := OpenStore(ctx, cfg, NewLogger(cfg))
	if err != nil {
		return err
	}
	defer backend.Close()

	cat, err := backend.Store.List(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatMermaid:
		for _, m := range cat.Macros {
			fmt.Fprintf(out, "%%%% %s\n%s\n", m.Name, graph.GenerateMermaid(m, nil))
		}
		return nil
	case FormatPlain:
		_, err = io.WriteString(out, tui.CatalogMarkdown(cat))
		return err
	case FormatMarkdown, "":
		md := tui.CatalogMarkdown(cat)
		if rendered, err := tui.NewRenderer()(md); err == nil {
			md = rendered
		}
		_, err = io.WriteString(out, md)
		return err
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, FormatMarkdown, FormatPlain, FormatMermaid)
	}
}

// ValidateCombo checks whether raw can be bound, against every stored macro.
// editing names the macro being edited, whose own combo stays valid.
func ValidateCombo(ctx context.Context, opts Options, raw, editing string) (domain.Combo, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return "", err
	}
	backend, err := OpenStore(ctx, cfg, NewLogger(cfg))
	if err != nil {
		return "", err
	}
	defer backend.Close()

	cat, err := backend.Store.List(ctx)
	if err != nil {
		return "", err
	}
	existing := make([]string, 0, len(cat.Macros))
	for _, m := range cat.Macros {
		existing = append(existing, string(m.Combo))
	}

	var own *domain.Macro
	if editing != "" {
		m, err := backend.Store.Load(ctx, editing)
		if err != nil {
			return "", fmt.Errorf("editing %q: %w", editing, err)
		}
		own = &m
	}

	return combo.Normalize(raw), combo.Check(raw, existing, cfg.ReservedSet(), own)
}

// Delete removes the named macro and the assets only it referenced.
func Delete(ctx context.Context, opts Options, name string) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	backend, err := OpenStore(ctx, cfg, NewLogger(cfg))
	if err != nil {
		return err
	}
	defer backend.Close()

	if _, err := backend.Store.Load(ctx, name); errors.Is(err, domain.ErrMacroNotFound) {
		return fmt.Errorf("macro %q: %w", name, err)
	}
	return backend.Store.Delete(ctx, name)
}
