package tui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/domain"
)

func TestMacroMarkdown(t *testing.T) {
	m := domain.Macro{
		Name:  "Open inbox",
		Combo: "alt+i",
		Steps: []domain.Step{
			domain.MoveToImage("inbox.png", 0.9, 5*time.Second),
			domain.LeftClick(),
			domain.Delay(500 * time.Millisecond),
		},
	}

	md := MacroMarkdown(m)
	assert.Contains(t, md, "## Open inbox")
	assert.Contains(t, md, "Combo: `alt+i`")
	assert.Contains(t, md, "1. Move to image 'inbox.png' (confidence 0.90, timeout 5s)")
	assert.Contains(t, md, "2. Left Click")
	assert.Contains(t, md, "3. Delay 500ms\n```\n")
}

func TestCatalogMarkdown(t *testing.T) {
	assert.Contains(t, CatalogMarkdown(domain.Catalog{}), "_No macros saved._")

	cat := domain.Catalog{
		Macros: []domain.Macro{{Name: "noop", Combo: "alt+n"}},
		Skipped: []domain.RecordError{
			{Record: "broken.json", Err: errors.New("unexpected EOF")},
		},
	}
	md := CatalogMarkdown(cat)
	assert.Contains(t, md, "# Macros (1)")
	assert.Contains(t, md, "_No steps._")
	assert.Contains(t, md, "## Skipped records (1)")
	assert.Contains(t, md, "- `broken.json`: unexpected EOF")
}

func TestRenderer(t *testing.T) {
	out, err := NewRenderer()("# Macros")
	require.NoError(t, err)
	assert.Contains(t, out, "Macros")
}

func TestBannerAndStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v0.1.0")
	assert.Contains(t, buf.String(), "v0.1.0")

	assert.Contains(t, StatusLine(domain.StatusRunning), "running")
	assert.Contains(t, StatusLine(domain.StatusStopped), "stopped")
}
