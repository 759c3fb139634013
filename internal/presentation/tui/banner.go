package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// PrintBanner writes the shortcutter banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`      _                _             _   _`, "#38bdf8"},
		{`  ___| |__   ___  _ __| |_ ___ _   _| |_| |_ ___ _ __`, "#22d3ee"},
		{` / __| '_ \ / _ \| '__| __/ __| | | | __| __/ _ \ '__|`, "#2dd4bf"},
		{` \__ \ | | | (_) | |  | || (__| |_| | |_| ||  __/ |`, "#34d399"},
		{` |___/_| |_|\___/|_|   \__\___|\__,_|\__|\__\___|_|`, "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}

// StatusLine renders a runner status with a colored marker.
func StatusLine(status domain.RunnerStatus) string {
	p := termenv.ColorProfile()
	if status == domain.StatusRunning {
		return termenv.String("● running").Foreground(p.Color("#4ade80")).String()
	}
	return termenv.String("○ stopped").Foreground(p.Color("#f87171")).String()
}
