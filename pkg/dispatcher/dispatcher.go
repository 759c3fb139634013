package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/combo"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/engine"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// ErrAlreadyStarted is returned when Start is called on a running dispatcher.
var ErrAlreadyStarted = errors.New("dispatcher already started")

type entry struct {
	macro domain.Macro
	slot  engine.Slot
}

// Dispatcher maps canonical combos to macros and runs them on trigger.
type Dispatcher struct {
	listener ports.Listener
	exec     *engine.Executor
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	reserved combo.Set

	table map[domain.Combo]*entry

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks registers the OnTriggerDropped callback. Run hooks belong to the Executor.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithReserved excludes OS-reserved combos from the table.
func WithReserved(reserved combo.Set) Option {
	return func(d *Dispatcher) {
		d.reserved = reserved
	}
}

// New builds the dispatch table from macros. Macros whose combo is invalid,
// reserved or already bound by an earlier macro are left out and logged.
func New(macros []domain.Macro, listener ports.Listener, exec *engine.Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		listener: listener,
		exec:     exec,
		logger:   logging.NewNop(),
		table:    make(map[domain.Combo]*entry, len(macros)),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, m := range macros {
		c := combo.Normalize(string(m.Combo))
		if _, err := combo.Parse(c); err != nil {
			d.logger.Warn("Skipping macro with invalid combo", "macro", m.Name, "combo", m.Combo, "error", err)
			continue
		}
		if d.reserved.Contains(c) {
			d.logger.Warn("Skipping macro with reserved combo", "macro", m.Name, "combo", c)
			continue
		}
		if prev, ok := d.table[c]; ok {
			d.logger.Warn("Skipping macro with duplicate combo", "macro", m.Name, "combo", c, "bound_to", prev.macro.Name)
			continue
		}
		m.Combo = c
		d.table[c] = &entry{macro: m}
	}
	return d
}

// Combos returns the bound combos, sorted.
func (d *Dispatcher) Combos() []domain.Combo {
	out := make([]domain.Combo, 0, len(d.table))
	for c := range d.table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Macro returns the macro bound to c.
func (d *Dispatcher) Macro(c domain.Combo) (domain.Macro, bool) {
	e, ok := d.table[combo.Normalize(string(c))]
	if !ok {
		return domain.Macro{}, false
	}
	return e.macro, true
}

// State returns the slot state of c. Unbound combos report Idle.
func (d *Dispatcher) State(c domain.Combo) domain.ExecState {
	if e, ok := d.table[combo.Normalize(string(c))]; ok {
		return e.slot.State()
	}
	return domain.StateIdle
}

// Start registers every combo with the listener and begins dispatching.
// A registration failure is returned and leaves the dispatcher stopped.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	events, err := d.listener.Listen(runCtx, d.Combos())
	if err != nil {
		cancel()
		return fmt.Errorf("register hotkeys: %w", err)
	}

	d.ctx, d.cancel = runCtx, cancel
	d.running = true
	d.wg.Add(1)
	go d.loop(runCtx, events)

	d.logger.Info("Dispatcher started", "combos", len(d.table))
	return nil
}

func (d *Dispatcher) loop(ctx context.Context, events <-chan domain.Combo) {
	defer d.wg.Done()
	for c := range events {
		d.dispatch(ctx, c)
	}
}

// Trigger runs the macro bound to c as if its hotkey had been pressed.
// It reports false when c is unbound, the dispatcher is stopped or a run of c
// is already in flight.
func (d *Dispatcher) Trigger(c domain.Combo) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return false
	}
	return d.dispatch(d.ctx, combo.Normalize(string(c)))
}

func (d *Dispatcher) dispatch(ctx context.Context, c domain.Combo) bool {
	e, ok := d.table[c]
	if !ok {
		d.logger.Debug("Ignoring unbound combo", "combo", c)
		return false
	}
	if !e.slot.TryAcquire() {
		d.logger.Info("Trigger dropped, macro already running", "macro", e.macro.Name, "combo", c)
		if d.hooks.OnTriggerDropped != nil {
			d.hooks.OnTriggerDropped(ctx, &domain.RunEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTriggerDropped},
				MacroName: e.macro.Name,
				Combo:     c,
			})
		}
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer e.slot.Release()
		d.exec.Run(ctx, e.macro)
	}()
	return true
}

// Stop cancels every in-flight instance, deregisters all combos and waits
// for the listener and the instances to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("Dispatcher stopped")
}
