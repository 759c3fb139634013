package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// Falls back to the raw markdown when no renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// CatalogMarkdown describes every macro of cat, and any skipped record, as markdown.
func CatalogMarkdown(cat domain.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Macros (%d)\n\n", len(cat.Macros))
	if len(cat.Macros) == 0 {
		b.WriteString("_No macros saved._\n")
	}
	for _, m := range cat.Macros {
		b.WriteString(MacroMarkdown(m))
		b.WriteString("\n")
	}

	if len(cat.Skipped) > 0 {
		fmt.Fprintf(&b, "## Skipped records (%d)\n\n", len(cat.Skipped))
		for _, s := range cat.Skipped {
			fmt.Fprintf(&b, "- `%s`: %v\n", s.Record, s.Err)
		}
	}
	return b.String()
}

// MacroMarkdown describes one macro with its numbered steps.
func MacroMarkdown(m domain.Macro) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", m.Name)
	fmt.Fprintf(&b, "Combo: `%s`\n\n", m.Combo)
	if len(m.Steps) == 0 {
		b.WriteString("_No steps._\n")
		return b.String()
	}
	b.WriteString("```\n")
	b.WriteString(domain.FormatSteps(m.Steps))
	b.WriteString("\n```\n")
	return b.String()
}
