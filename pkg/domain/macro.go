package domain

import "strings"

// Combo is a canonical hotkey string such as "alt+ctrl+c".
// Use combo.Normalize to obtain one from user input.
type Combo string

// String implements fmt.Stringer.
func (c Combo) String() string {
	return string(c)
}

// Macro is a named, combo-triggered ordered sequence of steps.
type Macro struct {
	Name  string `json:"name" mapstructure:"name"`
	Combo Combo  `json:"combo" mapstructure:"combo"`
	Steps []Step `json:"steps" mapstructure:"steps"`
}

// Assets returns the distinct asset references used by the macro's steps, in step order.
func (m Macro) Assets() []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, s := range m.Steps {
		if s.Target == "" || !s.Action.UsesAsset() {
			continue
		}
		if _, ok := seen[s.Target]; ok {
			continue
		}
		seen[s.Target] = struct{}{}
		refs = append(refs, s.Target)
	}
	return refs
}

// RecordError describes a persisted record that could not be turned into a Macro.
type RecordError struct {
	Record string
	Err    error
}

func (e RecordError) Error() string {
	return "record " + e.Record + ": " + e.Err.Error()
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// Catalog is a read-only snapshot of the persisted macros.
// Skipped holds the records that were unreadable or invalid.
type Catalog struct {
	Macros  []Macro
	Skipped []RecordError
}

// SanitizeName replaces characters that are unsafe in file names.
func SanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"<", "_", ">", "_", ":", "_", `"`, "_",
		"/", "_", `\`, "_", "|", "_", "?", "_", "*", "_",
	)
	return strings.TrimSpace(replacer.Replace(name))
}
