package combo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/shortcutter/pkg/domain"
)

var (
	// ErrEmpty is returned when the combo string is empty.
	ErrEmpty = errors.New("combo is empty")
	// ErrReserved is returned when the combo is reserved by the operating system.
	ErrReserved = errors.New("combo is reserved")
	// ErrInUse is returned when another macro already uses the combo.
	ErrInUse = errors.New("combo already in use")
	// ErrInvalid is returned when the combo does not follow the modifier+key grammar.
	ErrInvalid = errors.New("invalid combo")
)

// Modifier is one of the supported modifier tokens.
type Modifier string

const (
	Alt   Modifier = "alt"
	Ctrl  Modifier = "ctrl"
	Shift Modifier = "shift"
	Win   Modifier = "win"
)

var modifiers = map[string]Modifier{
	"alt":   Alt,
	"ctrl":  Ctrl,
	"shift": Shift,
	"win":   Win,
}

var functionKeys = map[string]struct{}{
	"f1": {}, "f2": {}, "f3": {}, "f4": {}, "f5": {}, "f6": {},
	"f7": {}, "f8": {}, "f9": {}, "f10": {}, "f11": {}, "f12": {},
}

// Normalize returns the canonical form of s: lower-cased, empty segments
// dropped and every token but the terminal key sorted.
func Normalize(s string) domain.Combo {
	var tokens []string
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	if len(tokens) > 1 {
		sort.Strings(tokens[:len(tokens)-1])
	}
	return domain.Combo(strings.Join(tokens, "+"))
}

// Chord is a parsed canonical combo.
type Chord struct {
	Modifiers []Modifier
	Key       string
}

// Parse splits a combo into modifiers and terminal key, checking the grammar.
// The input is normalized first.
func Parse(c domain.Combo) (Chord, error) {
	norm := Normalize(string(c))
	if norm == "" {
		return Chord{}, ErrEmpty
	}
	tokens := strings.Split(string(norm), "+")
	key := tokens[len(tokens)-1]
	if !isKey(key) {
		return Chord{}, fmt.Errorf("%w: unsupported key %q", ErrInvalid, key)
	}

	var chord Chord
	seen := make(map[Modifier]bool)
	for _, tok := range tokens[:len(tokens)-1] {
		mod, ok := modifiers[tok]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalid, tok)
		}
		if seen[mod] {
			return Chord{}, fmt.Errorf("%w: duplicate modifier %q", ErrInvalid, tok)
		}
		seen[mod] = true
		chord.Modifiers = append(chord.Modifiers, mod)
	}
	chord.Key = key
	return chord, nil
}

// Has reports whether the chord holds modifier m.
func (c Chord) Has(m Modifier) bool {
	for _, mod := range c.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// isKey accepts a single [a-z0-9] character or one of f1..f12.
func isKey(tok string) bool {
	if len(tok) == 1 {
		ch := tok[0]
		return (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
	}
	_, ok := functionKeys[tok]
	return ok
}

// Check validates combo for saving against the combos of existing macros.
// When editing is non-nil, re-saving it with its own combo is accepted.
func Check(combo string, existing []string, reserved Set, editing *domain.Macro) error {
	if strings.TrimSpace(combo) == "" {
		return ErrEmpty
	}

	norm := Normalize(combo)
	if reserved.Contains(norm) {
		return fmt.Errorf("%w: %s", ErrReserved, norm)
	}

	var own domain.Combo
	if editing != nil {
		own = Normalize(string(editing.Combo))
		if norm == own {
			return nil
		}
	}

	for _, other := range existing {
		otherNorm := Normalize(other)
		if otherNorm == own && own != "" {
			continue
		}
		if otherNorm == norm {
			return fmt.Errorf("%w: %s", ErrInUse, norm)
		}
	}

	if _, err := Parse(norm); err != nil {
		return err
	}
	return nil
}

// Validate reports whether Check accepts combo.
func Validate(combo string, existing []string, reserved Set, editing *domain.Macro) bool {
	return Check(combo, existing, reserved, editing) == nil
}
