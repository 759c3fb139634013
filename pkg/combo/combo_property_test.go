package combo

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var allModifiers = []string{"alt", "ctrl", "shift", "win"}

func chordString(mask []bool, key string, reversed bool, upper bool) string {
	var mods []string
	for i, on := range mask {
		if on {
			mods = append(mods, allModifiers[i])
		}
	}
	if reversed {
		for i, j := 0, len(mods)-1; i < j; i, j = i+1, j-1 {
			mods[i], mods[j] = mods[j], mods[i]
		}
	}
	s := strings.Join(append(mods, key), " + ")
	if upper {
		s = strings.ToUpper(s)
	}
	return s
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	keys := []any{"a", "k", "z", "0", "9", "f1", "f5", "f12"}

	properties.Property("Normalize is idempotent", prop.ForAll(
		func(tokens []string) bool {
			once := Normalize(strings.Join(tokens, "+"))
			return Normalize(string(once)) == once
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("modifier order and case do not matter", prop.ForAll(
		func(mask []bool, key string, upper bool) bool {
			return Normalize(chordString(mask, key, false, false)) == Normalize(chordString(mask, key, true, upper))
		},
		gen.SliceOfN(len(allModifiers), gen.Bool()),
		gen.OneConstOf(keys...),
		gen.Bool(),
	))

	properties.Property("well-formed chords pass Check and round-trip through Parse", prop.ForAll(
		func(mask []bool, key string) bool {
			raw := chordString(mask, key, true, true)
			if Check(raw, nil, NewSet(), nil) != nil {
				return false
			}
			chord, err := Parse(Normalize(raw))
			if err != nil || chord.Key != key {
				return false
			}
			for i, on := range mask {
				if chord.Has(Modifier(allModifiers[i])) != on {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(len(allModifiers), gen.Bool()),
		gen.OneConstOf(keys...),
	))

	properties.Property("a combo already bound is always in use", prop.ForAll(
		func(mask []bool, key string) bool {
			raw := chordString(mask, key, false, false)
			return !Validate(chordString(mask, key, true, true), []string{raw}, NewSet(), nil)
		},
		gen.SliceOfN(len(allModifiers), gen.Bool()),
		gen.OneConstOf(keys...),
	))

	properties.TestingRun(t)
}
