//go:build linux

package x11

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Display implements ports.Listener, ports.Pointer and vision.Capturer on
// top of an X connection. Hotkey listening uses a connection of its own so
// that closing it unblocks the event loop.
type Display struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	logger *slog.Logger

	injectMu sync.Mutex
}

// Open connects to the X server named by $DISPLAY.
func Open(logger *slog.Logger) (*Display, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	conn := xu.Conn()
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init XTEST: %w", err)
	}
	return &Display{xu: xu, conn: conn, root: xu.RootWin(), logger: logger}, nil
}

// Close closes the X connection.
func (d *Display) Close() error {
	d.conn.Close()
	return nil
}

// Position implements ports.Pointer.
func (d *Display) Position(ctx context.Context) (domain.Point, error) {
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return domain.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return domain.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

// MoveTo implements ports.Pointer.
func (d *Display) MoveTo(ctx context.Context, p domain.Point) error {
	d.injectMu.Lock()
	defer d.injectMu.Unlock()
	if err := xproto.WarpPointerChecked(
		d.conn,
		xproto.WindowNone,
		d.root,
		0, 0, 0, 0,
		clampInt16(p.X),
		clampInt16(p.Y),
	).Check(); err != nil {
		return fmt.Errorf("warp pointer: %w", err)
	}
	d.conn.Sync()
	return nil
}

// Click implements ports.Pointer with a press and release at the current position.
func (d *Display) Click(ctx context.Context, b ports.Button) error {
	var detail byte
	switch b {
	case ports.ButtonLeft:
		detail = xproto.ButtonIndex1
	case ports.ButtonRight:
		detail = xproto.ButtonIndex3
	default:
		return fmt.Errorf("unsupported button %s", b)
	}

	d.injectMu.Lock()
	defer d.injectMu.Unlock()
	for _, eventType := range []byte{xproto.ButtonPress, xproto.ButtonRelease} {
		if err := xtest.FakeInputChecked(
			d.conn,
			eventType,
			detail,
			xproto.TimeCurrentTime,
			d.root,
			0, 0, 0,
		).Check(); err != nil {
			return fmt.Errorf("fake %s click: %w", b, err)
		}
	}
	d.conn.Sync()
	return nil
}

// Capture grabs the whole root window.
func (d *Display) Capture(ctx context.Context) (image.Image, error) {
	screen := d.xu.Screen()
	w, h := int(screen.WidthInPixels), int(screen.HeightInPixels)

	reply, err := xproto.GetImage(
		d.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(d.root),
		0, 0,
		uint16(w), uint16(h),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	if len(reply.Data) < w*h*4 {
		return nil, fmt.Errorf("unsupported screen depth %d", reply.Depth)
	}

	// ZPixmap at depth 24/32 is BGRx.
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		src := reply.Data[i*4 : i*4+4]
		dst := img.Pix[i*4 : i*4+4]
		dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], 0xff
	}
	return img, nil
}

// Listen implements ports.Listener by grabbing every combo on the root window.
func (d *Display) Listen(ctx context.Context, combos []domain.Combo) (<-chan domain.Combo, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	keybind.Initialize(xu)
	conn, root := xu.Conn(), xu.RootWin()

	bindings := make(map[binding]domain.Combo)
	var grabbed []binding
	ungrab := func() {
		for _, b := range grabbed {
			for _, lock := range lockVariants {
				xproto.UngrabKey(conn, b.keycode, root, b.mods|lock)
			}
		}
	}

	for _, c := range combos {
		chord, err := combo.Parse(c)
		if err != nil {
			ungrab()
			conn.Close()
			return nil, err
		}
		keycodes := keybind.StrToKeycodes(xu, KeysymName(chord.Key))
		if len(keycodes) == 0 {
			ungrab()
			conn.Close()
			return nil, fmt.Errorf("no keycode for key %q of %s", chord.Key, c)
		}
		mods := ModMask(chord)
		for _, kc := range keycodes {
			for _, lock := range lockVariants {
				if err := xproto.GrabKeyChecked(
					conn,
					true,
					root,
					mods|lock,
					kc,
					xproto.GrabModeAsync,
					xproto.GrabModeAsync,
				).Check(); err != nil {
					ungrab()
					conn.Close()
					return nil, fmt.Errorf("grab %s: %w", c, err)
				}
			}
			b := binding{keycode: kc, mods: mods}
			grabbed = append(grabbed, b)
			bindings[b] = c
		}
	}

	events := make(chan domain.Combo, 16)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		for {
			ev, xerr := conn.WaitForEvent()
			if ev == nil && xerr == nil {
				return
			}
			if xerr != nil {
				if ctx.Err() != nil {
					return
				}
				d.logger.Warn("X11 event error", "error", xerr)
				continue
			}
			press, ok := ev.(xproto.KeyPressEvent)
			if !ok {
				continue
			}
			c, ok := bindings[bindingOf(press.Detail, press.State)]
			if !ok {
				continue
			}
			select {
			case events <- c:
			default:
				d.logger.Warn("Hotkey event dropped, dispatcher busy", "combo", c)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		ungrab()
		conn.Sync()
		conn.Close()
		<-loopDone
		close(events)
	}()

	d.logger.Debug("Hotkeys grabbed", "combos", len(combos), "keycodes", len(grabbed))
	return events, nil
}

func clampInt16(v int) int16 {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return int16(v)
}
