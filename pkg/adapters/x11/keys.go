package x11

import (
	"errors"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/aretw0/shortcutter/pkg/combo"
)

// ErrUnsupported is returned when no X server can be used on this platform.
var ErrUnsupported = errors.New("x11 is not supported on this platform")

var modMasks = map[combo.Modifier]uint16{
	combo.Alt:   xproto.ModMask1,
	combo.Ctrl:  xproto.ModMaskControl,
	combo.Shift: xproto.ModMaskShift,
	combo.Win:   xproto.ModMask4,
}

// relevantMods are the modifier bits that distinguish two combos.
const relevantMods = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4

// lockVariants lists the Caps Lock / Num Lock states a grab must also cover,
// otherwise the hotkey silently stops working while either lock is on.
var lockVariants = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

// ModMask returns the X modifier mask of a chord.
func ModMask(ch combo.Chord) uint16 {
	var mask uint16
	for _, m := range ch.Modifiers {
		mask |= modMasks[m]
	}
	return mask
}

// KeysymName returns the X keysym name of a terminal key ("f5" -> "F5").
func KeysymName(key string) string {
	if len(key) > 1 && key[0] == 'f' {
		return strings.ToUpper(key)
	}
	return key
}

// binding identifies a grabbed key independent of lock state.
type binding struct {
	keycode xproto.Keycode
	mods    uint16
}

func bindingOf(keycode xproto.Keycode, state uint16) binding {
	return binding{keycode: keycode, mods: state & relevantMods}
}
