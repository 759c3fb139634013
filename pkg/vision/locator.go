package vision

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// Capturer grabs the current screen contents.
type Capturer interface {
	Capture(ctx context.Context) (image.Image, error)
}

// CaptureFunc adapts a function to Capturer.
type CaptureFunc func(ctx context.Context) (image.Image, error)

// Capture implements Capturer.
func (f CaptureFunc) Capture(ctx context.Context) (image.Image, error) {
	return f(ctx)
}

// Static returns a Capturer that always shows img.
func Static(img image.Image) Capturer {
	return CaptureFunc(func(ctx context.Context) (image.Image, error) {
		return img, nil
	})
}

type cached struct {
	mod  time.Time
	gray *Gray
}

// Locator implements ports.Locator by template matching asset files against
// screen captures. Decoded assets are cached until their file changes.
type Locator struct {
	capturer Capturer

	mu    sync.Mutex
	cache map[string]cached
}

// NewLocator creates a Locator reading the screen through capturer.
func NewLocator(capturer Capturer) *Locator {
	return &Locator{capturer: capturer, cache: make(map[string]cached)}
}

// Locate implements ports.Locator.
func (l *Locator) Locate(ctx context.Context, asset string, confidence float64) (domain.Match, error) {
	matches, err := l.LocateAll(ctx, asset, confidence)
	if err != nil {
		return domain.Match{}, err
	}
	if len(matches) == 0 {
		return domain.Match{}, fmt.Errorf("%w: %s", domain.ErrImageNotFound, asset)
	}
	return matches[0], nil
}

// LocateAll implements ports.Locator. Matches are ordered best first.
func (l *Locator) LocateAll(ctx context.Context, asset string, confidence float64) ([]domain.Match, error) {
	tmpl, err := l.load(asset)
	if err != nil {
		return nil, err
	}
	shot, err := l.capturer.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Find(ctx, ToGray(shot), tmpl, confidence)
}

func (l *Locator) load(path string) (*Gray, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssetMissing, err)
	}

	l.mu.Lock()
	c, ok := l.cache[path]
	l.mu.Unlock()
	if ok && c.mod.Equal(info.ModTime()) {
		return c.gray, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssetMissing, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrAssetMissing, path, err)
	}

	gray := ToGray(img)
	l.mu.Lock()
	l.cache[path] = cached{mod: info.ModTime(), gray: gray}
	l.mu.Unlock()
	return gray, nil
}
