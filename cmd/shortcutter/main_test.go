package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter"
	"github.com/aretw0/shortcutter/pkg/combo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shortcutter version "+strings.TrimSpace(shortcutter.Version)+"\n", out)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "validate", "Shift+Ctrl+K", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ctrl+shift+k is available")

	_, err = execute(t, "validate", "alt+f4", "--dir", dir)
	assert.ErrorIs(t, err, combo.ErrReserved)
}

func TestListCommand_Empty(t *testing.T) {
	out, err := execute(t, "list", "--format", "plain", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "_No macros saved._")
}
