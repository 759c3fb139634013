package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// ErrRegister is returned by Keyboard.Listen for combos marked with FailOn.
var ErrRegister = errors.New("hotkey registration refused")

// Keyboard implements ports.Listener with programmatic key presses.
type Keyboard struct {
	mu         sync.Mutex
	ch         chan domain.Combo
	registered map[domain.Combo]bool
	failOn     map[domain.Combo]bool
}

// NewKeyboard creates a keyboard with nothing registered.
func NewKeyboard() *Keyboard {
	return &Keyboard{failOn: make(map[domain.Combo]bool)}
}

// FailOn makes registration of c fail.
func (k *Keyboard) FailOn(c domain.Combo) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.failOn[c] = true
}

// Listen implements ports.Listener.
func (k *Keyboard) Listen(ctx context.Context, combos []domain.Combo) (<-chan domain.Combo, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.ch != nil {
		return nil, fmt.Errorf("%w: keyboard already listening", ErrRegister)
	}
	registered := make(map[domain.Combo]bool, len(combos))
	for _, c := range combos {
		if k.failOn[c] {
			return nil, fmt.Errorf("%w: %s", ErrRegister, c)
		}
		registered[c] = true
	}

	ch := make(chan domain.Combo, 64)
	k.ch = ch
	k.registered = registered

	go func() {
		<-ctx.Done()
		k.mu.Lock()
		defer k.mu.Unlock()
		k.registered = nil
		k.ch = nil
		close(ch)
	}()
	return ch, nil
}

// Press simulates the user pressing c. It reports whether c was registered.
func (k *Keyboard) Press(c domain.Combo) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.ch == nil || !k.registered[c] {
		return false
	}
	select {
	case k.ch <- c:
		return true
	default:
		return false
	}
}

// Registered returns the currently registered combos, sorted.
func (k *Keyboard) Registered() []domain.Combo {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]domain.Combo, 0, len(k.registered))
	for c := range k.registered {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Click records a button press at a position.
type Click struct {
	Button ports.Button
	At     domain.Point
}

// Pointer implements ports.Pointer over a virtual position.
// Every call takes Latency to complete and overlapping calls are counted,
// so tests can check that pointer access is serialized.
type Pointer struct {
	Latency time.Duration

	mu     sync.Mutex
	pos    domain.Point
	moves  []domain.Point
	clicks []Click

	busy     atomic.Int32
	overlaps atomic.Int32
}

// NewPointer creates a pointer resting at start.
func NewPointer(start domain.Point) *Pointer {
	return &Pointer{pos: start}
}

func (p *Pointer) enter(ctx context.Context) error {
	if p.busy.Add(1) > 1 {
		p.overlaps.Add(1)
	}
	if p.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Latency):
		return nil
	}
}

func (p *Pointer) leave() {
	p.busy.Add(-1)
}

// Position implements ports.Pointer.
func (p *Pointer) Position(ctx context.Context) (domain.Point, error) {
	defer p.leave()
	if err := p.enter(ctx); err != nil {
		return domain.Point{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, nil
}

// MoveTo implements ports.Pointer.
func (p *Pointer) MoveTo(ctx context.Context, pt domain.Point) error {
	defer p.leave()
	if err := p.enter(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
	p.moves = append(p.moves, pt)
	return nil
}

// Click implements ports.Pointer.
func (p *Pointer) Click(ctx context.Context, b ports.Button) error {
	defer p.leave()
	if err := p.enter(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clicks = append(p.clicks, Click{Button: b, At: p.pos})
	return nil
}

// Current returns the position without simulating latency.
func (p *Pointer) Current() domain.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Set teleports the pointer, as a user moving the mouse would.
func (p *Pointer) Set(pt domain.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = pt
}

// Moves returns every position the pointer was moved to.
func (p *Pointer) Moves() []domain.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Point(nil), p.moves...)
}

// Clicks returns every recorded click.
func (p *Pointer) Clicks() []Click {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Click(nil), p.clicks...)
}

// Overlaps returns how many calls started while another was in progress.
func (p *Pointer) Overlaps() int {
	return int(p.overlaps.Load())
}

// Screen implements ports.Locator over a scripted set of matches.
// Assets never passed to Show are treated as missing.
type Screen struct {
	mu      sync.Mutex
	assets  map[string][]domain.Match
	lookups map[string]int
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{
		assets:  make(map[string][]domain.Match),
		lookups: make(map[string]int),
	}
}

// Show declares asset as readable and places matches on screen.
// Calling Show with no matches declares an asset that is not visible.
func (s *Screen) Show(asset string, matches ...domain.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset] = append([]domain.Match(nil), matches...)
}

// Lookups returns how many searches were made for asset.
func (s *Screen) Lookups(asset string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups[asset]
}

func (s *Screen) search(ctx context.Context, asset string, confidence float64) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[asset]++

	matches, ok := s.assets[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssetMissing, asset)
	}
	var out []domain.Match
	for _, m := range matches {
		if m.Score >= confidence {
			out = append(out, m)
		}
	}
	return out, nil
}

// Locate implements ports.Locator.
func (s *Screen) Locate(ctx context.Context, asset string, confidence float64) (domain.Match, error) {
	matches, err := s.search(ctx, asset, confidence)
	if err != nil {
		return domain.Match{}, err
	}
	if len(matches) == 0 {
		return domain.Match{}, domain.ErrImageNotFound
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score > best.Score {
			best = m
		}
	}
	return best, nil
}

// LocateAll implements ports.Locator.
func (s *Screen) LocateAll(ctx context.Context, asset string, confidence float64) ([]domain.Match, error) {
	return s.search(ctx, asset, confidence)
}
