package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// RunOverlay marks how far a run got on the chart.
type RunOverlay struct {
	StepsRun int
	State    domain.ExecState
	Reason   string
}

// OverlayFor builds the overlay of a finished run.
func OverlayFor(r domain.RunResult) *RunOverlay {
	return &RunOverlay{StepsRun: r.StepsRun, State: r.State, Reason: r.Reason}
}

// GenerateMermaid produces a Mermaid flowchart of a macro's steps.
// Shapes:
// - Trigger combo: ((Circle))
// - Pointer steps: [[Subroutine]]
// - Image search: [/Parallelogram/]
// - Duplicate check: {Decision}, with an edge to the abort node
// - Delay: [Rectangle]
func GenerateMermaid(m domain.Macro, overlay *RunOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    trigger((\"%s\"))\n", escape(string(m.Combo)))

	prev := "trigger"
	aborts := false
	for i, step := range m.Steps {
		id := stepID(i)
		opener, closer := "[", "]"
		switch {
		case step.Action == domain.ActionMoveToImage:
			opener, closer = "[/", "/]"
		case step.Action == domain.ActionCheckDuplicates:
			opener, closer = "{", "}"
		case step.Action.UsesPointer():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escape(step.String()), closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)

		if step.Action == domain.ActionCheckDuplicates {
			aborts = true
			fmt.Fprintf(&sb, "    %s -. \"duplicates\" .-> aborted\n", id)
		}
		prev = id
	}

	sb.WriteString("    completed((\"restore origin\"))\n")
	fmt.Fprintf(&sb, "    %s --> completed\n", prev)
	if aborts {
		sb.WriteString("    aborted((\"aborted\"))\n")
		sb.WriteString("    aborted --> completed\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		sb.WriteString("    class trigger visited;\n")
		for i := 0; i < overlay.StepsRun && i < len(m.Steps); i++ {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", stepID(i)))
		}

		switch {
		case aborts && overlay.Reason == domain.ReasonDuplicates:
			sb.WriteString("    class aborted current;\n")
		case overlay.State.Terminal():
			sb.WriteString("    class completed current;\n")
		case overlay.StepsRun < len(m.Steps):
			sb.WriteString(fmt.Sprintf("    class %s current;\n", stepID(overlay.StepsRun)))
		}
	}

	return sb.String()
}

func stepID(i int) string {
	return fmt.Sprintf("s%d", i+1)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
