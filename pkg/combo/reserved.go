package combo

import (
	"sort"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// Set is a set of canonical combos.
type Set map[domain.Combo]struct{}

// NewSet builds a Set, normalizing every entry.
func NewSet(combos ...string) Set {
	s := make(Set, len(combos))
	for _, c := range combos {
		s.Add(c)
	}
	return s
}

// Add normalizes c and inserts it. Empty input is ignored.
func (s Set) Add(c string) {
	if norm := Normalize(c); norm != "" {
		s[norm] = struct{}{}
	}
}

// Contains reports whether the canonical combo c is in the set.
func (s Set) Contains(c domain.Combo) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []domain.Combo {
	out := make([]domain.Combo, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultReserved returns the combos claimed by common desktop environments.
func DefaultReserved() Set {
	return NewSet(
		"ctrl+c", "ctrl+v", "ctrl+x", "ctrl+z", "ctrl+y",
		"ctrl+a", "ctrl+s", "ctrl+p",
		"alt+f4", "alt+tab", "win+d",
		"ctrl+alt+del",
	)
}
