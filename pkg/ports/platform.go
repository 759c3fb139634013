package ports

import (
	"context"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota + 1
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	}
	return "unknown"
}

// Listener connects the engine to OS-level hotkey events.
type Listener interface {
	// Listen registers every combo and returns the channel on which triggers are
	// delivered. A registration failure is returned and nothing stays registered.
	// When ctx is cancelled the listener deregisters all combos and then closes
	// the channel.
	Listen(ctx context.Context, combos []domain.Combo) (<-chan domain.Combo, error)
}

// Pointer drives the shared pointer device.
type Pointer interface {
	Position(ctx context.Context) (domain.Point, error)
	MoveTo(ctx context.Context, p domain.Point) error
	Click(ctx context.Context, b Button) error
}

// Locator searches the live screen for an image asset.
type Locator interface {
	// Locate returns the best match at or above confidence.
	// Returns domain.ErrImageNotFound when nothing qualifies and
	// domain.ErrAssetMissing when the asset cannot be read.
	Locate(ctx context.Context, asset string, confidence float64) (domain.Match, error)

	// LocateAll returns every non-overlapping match at or above confidence.
	LocateAll(ctx context.Context, asset string, confidence float64) ([]domain.Match, error)
}

// StatusIndicator consumes the runner status signal.
type StatusIndicator interface {
	Notify(ctx context.Context, status domain.RunnerStatus)
}

// StatusFunc adapts a function to StatusIndicator.
type StatusFunc func(ctx context.Context, status domain.RunnerStatus)

// Notify implements StatusIndicator.
func (f StatusFunc) Notify(ctx context.Context, status domain.RunnerStatus) {
	f(ctx, status)
}
