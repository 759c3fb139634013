package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shortcutter/pkg/domain"
)

func TestDecode_AllActions(t *testing.T) {
	raw := map[string]any{
		"name":  "inbox",
		"combo": "Ctrl+Alt+I",
		"steps": []any{
			map[string]any{"action": "move_to_image", "target": "inbox.png", "confidence": 0.9, "timeout": 5},
			map[string]any{"action": "left_click"},
			map[string]any{"action": "delay", "duration": "0.5"},
			map[string]any{"action": "check_duplicates", "target": "dup.png"},
			map[string]any{"action": "move_to", "x": 10.0, "y": 20},
			map[string]any{"action": "right_click"},
			map[string]any{"action": "move_to_origin"},
		},
	}

	m, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "inbox", m.Name)
	assert.Equal(t, domain.Combo("Ctrl+Alt+I"), m.Combo, "decoding keeps the stored combo as-is")
	require.Len(t, m.Steps, 7)
	assert.Equal(t, domain.MoveToImage("inbox.png", 0.9, 5*time.Second), m.Steps[0])
	assert.Equal(t, domain.LeftClick(), m.Steps[1])
	assert.Equal(t, domain.Delay(500*time.Millisecond), m.Steps[2])
	assert.Equal(t, domain.CheckDuplicates("dup.png", domain.DefaultConfidence), m.Steps[3])
	assert.Equal(t, domain.MoveTo(10, 20), m.Steps[4])
	assert.Equal(t, domain.RightClick(), m.Steps[5])
	assert.Equal(t, domain.MoveToOrigin(), m.Steps[6])
}

func TestDecode_Defaults(t *testing.T) {
	m, err := Decode(map[string]any{
		"name":  "x",
		"combo": "f5",
		"steps": []any{map[string]any{"action": "move_to_image", "target": "a.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfidence, m.Steps[0].Confidence)
	assert.Equal(t, domain.DefaultImageTimeout, m.Steps[0].Timeout)
}

func TestDecode_EmptySteps(t *testing.T) {
	m, err := Decode(map[string]any{"name": "noop", "combo": "f6"})
	require.NoError(t, err)
	assert.Empty(t, m.Steps)
}

func TestDecode_UnknownAction(t *testing.T) {
	_, err := Decode(map[string]any{
		"name":  "bad",
		"combo": "f7",
		"steps": []any{map[string]any{"action": "double_click"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestDecode_CollectsAllErrors(t *testing.T) {
	_, err := Decode(map[string]any{
		"steps": []any{
			map[string]any{"action": "delay", "duration": -1},
			map[string]any{"action": "check_duplicates", "confidence": 1.5},
		},
	})
	require.Error(t, err)

	errs := ValidationErrors(err)
	// name, combo, duration, target, confidence
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "steps[1].confidence")
}

func TestDecode_RejectsDurationsBeyondRange(t *testing.T) {
	_, err := Decode(map[string]any{
		"name":  "forever",
		"combo": "f8",
		"steps": []any{
			map[string]any{"action": "delay", "duration": 1e10},
			map[string]any{"action": "move_to_image", "target": "a.png", "timeout": 1e300},
		},
	})
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, err.Error(), "steps[0].duration")
	assert.Contains(t, err.Error(), "steps[1].timeout")
	assert.Contains(t, err.Error(), "too large")

	m, err := Decode(map[string]any{
		"name":  "long",
		"combo": "f9",
		"steps": []any{map[string]any{"action": "delay", "duration": 86400}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Delay(24*time.Hour), m.Steps[0])
}

func TestDecode_WrongShape(t *testing.T) {
	_, err := Decode(map[string]any{"name": "x", "combo": "a", "steps": "not a list"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestMarshalRoundTrip(t *testing.T) {
	in := domain.Macro{
		Name:  "roundtrip",
		Combo: "alt+r",
		Steps: []domain.Step{
			domain.Delay(250 * time.Millisecond),
			domain.MoveToImage("btn.png", 0.75, 3*time.Second),
			domain.MoveTo(1, 2),
		},
	}
	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	_, err := Unmarshal([]byte("{not json"))
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
