//go:build !linux

package x11

import (
	"context"
	"image"
	"log/slog"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Display is unavailable on this platform.
type Display struct{}

// Open always fails with ErrUnsupported.
func Open(logger *slog.Logger) (*Display, error) {
	return nil, ErrUnsupported
}

func (d *Display) Listen(ctx context.Context, combos []domain.Combo) (<-chan domain.Combo, error) {
	return nil, ErrUnsupported
}

func (d *Display) Position(ctx context.Context) (domain.Point, error) {
	return domain.Point{}, ErrUnsupported
}

func (d *Display) MoveTo(ctx context.Context, p domain.Point) error {
	return ErrUnsupported
}

func (d *Display) Click(ctx context.Context, b ports.Button) error {
	return ErrUnsupported
}

func (d *Display) Capture(ctx context.Context) (image.Image, error) {
	return nil, ErrUnsupported
}

func (d *Display) Close() error {
	return nil
}
