package combo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Combo
	}{
		{"Ctrl+Alt+C", "alt+ctrl+c"},
		{"Alt+Ctrl+C", "alt+ctrl+c"},
		{"alt+ctrl+c", "alt+ctrl+c"},
		{"  SHIFT + win +  F5 ", "shift+win+f5"},
		{"ctrl++c", "ctrl+c"},
		{"a", "a"},
		{"", ""},
		{"+", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(string(got)), "normalize must be idempotent")
		})
	}
}

func TestNormalize_TerminalKeyStaysLast(t *testing.T) {
	// Sorting only applies to modifiers; "a" must not move ahead of "shift".
	assert.Equal(t, domain.Combo("ctrl+shift+a"), Normalize("shift+ctrl+a"))
}

func TestCheck_Empty(t *testing.T) {
	assert.ErrorIs(t, Check("", nil, DefaultReserved(), nil), ErrEmpty)
	assert.ErrorIs(t, Check("   ", nil, DefaultReserved(), nil), ErrEmpty)
}

func TestCheck_ReservedRegardlessOfCase(t *testing.T) {
	reserved := DefaultReserved()
	for _, c := range []string{"CTRL+C", "ctrl+c", "Ctrl+V", "ALT+TAB", "Alt+F4", "Ctrl+Alt+Del", "Alt+Ctrl+DEL"} {
		err := Check(c, nil, reserved, nil)
		assert.ErrorIs(t, err, ErrReserved, c)
		assert.False(t, Validate(c, nil, reserved, nil), c)
	}
}

func TestCheck_InUse(t *testing.T) {
	existing := []string{"Ctrl+Alt+K", "shift+q"}
	err := Check("alt+ctrl+k", existing, DefaultReserved(), nil)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestCheck_ResaveUnchangedCombo(t *testing.T) {
	editing := &domain.Macro{Name: "open", Combo: "ctrl+alt+k"}
	existing := []string{"ctrl+alt+k", "shift+q"}

	// 1. Own combo is accepted even though it appears in existing.
	assert.True(t, Validate("Alt+Ctrl+K", existing, DefaultReserved(), editing))

	// 2. Moving to another macro's combo is still rejected.
	assert.ErrorIs(t, Check("shift+q", existing, DefaultReserved(), editing), ErrInUse)

	// 3. Moving to a fresh combo skips the old own entry.
	assert.NoError(t, Check("ctrl+alt+j", existing, DefaultReserved(), editing))
}

func TestCheck_FunctionKeys(t *testing.T) {
	for i := 1; i <= 12; i++ {
		c := fmt.Sprintf("f%d", i)
		assert.NoError(t, Check(c, nil, DefaultReserved(), nil), c)
		assert.NoError(t, Check("ctrl+"+c, nil, DefaultReserved(), nil), c)
	}

	for _, c := range []string{"f13", "f0", "ctrl+f13", "f", "f1f"} {
		if c == "f" {
			// A single letter is a valid key.
			assert.NoError(t, Check(c, nil, DefaultReserved(), nil))
			continue
		}
		assert.ErrorIs(t, Check(c, nil, DefaultReserved(), nil), ErrInvalid, c)
	}
}

func TestCheck_Grammar(t *testing.T) {
	tests := []struct {
		combo string
		ok    bool
	}{
		{"ctrl+alt+c", true},
		{"win+shift+9", true},
		{"z", true},
		{"ctrl+alt", false},
		{"hyper+c", false},
		{"ctrl+ctrl+c", false},
		{"ctrl+enter", false},
		{"ctrl+é", false},
		{"c+ctrl", false},
	}
	for _, tt := range tests {
		t.Run(tt.combo, func(t *testing.T) {
			err := Check(tt.combo, nil, DefaultReserved(), nil)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestParse(t *testing.T) {
	chord, err := Parse("Shift+Ctrl+F5")
	require.NoError(t, err)
	assert.Equal(t, []Modifier{Ctrl, Shift}, chord.Modifiers)
	assert.Equal(t, "f5", chord.Key)
	assert.True(t, chord.Has(Shift))
	assert.False(t, chord.Has(Win))

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSet(t *testing.T) {
	s := NewSet("Ctrl+Alt+X", "", "b")
	assert.True(t, s.Contains("alt+ctrl+x"))
	assert.Len(t, s, 2)
	assert.Equal(t, []domain.Combo{"alt+ctrl+x", "b"}, s.Sorted())
}
