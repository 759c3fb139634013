package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/shortcutter/internal/logging"
	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// ErrDuplicates is reported when a CheckDuplicates step sees its asset more than once.
var ErrDuplicates = errors.New("duplicate matches on screen")

// Executor runs macros. A single Executor is shared by every instance started
// from one dispatch table, so they all contend on the same pointer lock.
type Executor struct {
	pointer ports.Pointer
	locator ports.Locator
	lock    *PointerLock

	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	pollInterval time.Duration
	assetDir     string
}

// NewExecutor creates an Executor driving pointer and searching with locator.
func NewExecutor(pointer ports.Pointer, locator ports.Locator, opts ...Option) *Executor {
	e := &Executor{
		pointer:      pointer,
		locator:      locator,
		lock:         NewPointerLock(),
		logger:       logging.NewNop(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lock exposes the pointer lock shared by this executor's instances.
func (e *Executor) Lock() *PointerLock {
	return e.lock
}

// Run executes macro as a new instance and returns once it is terminal.
// Cancelling ctx aborts the instance at the next suspension point.
func (e *Executor) Run(ctx context.Context, macro domain.Macro) domain.RunResult {
	inst := &domain.Instance{
		ID:      uuid.NewString(),
		Macro:   macro,
		State:   domain.StateIdle,
		Started: time.Now(),
	}
	log := e.logger.With("instance_id", inst.ID, "macro", macro.Name, "combo", macro.Combo)

	finish := func(state domain.ExecState, reason string, stepsRun int) domain.RunResult {
		inst.State = state
		res := domain.RunResult{
			InstanceID: inst.ID,
			MacroName:  macro.Name,
			Combo:      macro.Combo,
			State:      state,
			Reason:     reason,
			StepsRun:   stepsRun,
			Duration:   time.Since(inst.Started),
		}
		if state == domain.StateCompleted {
			log.Info("Macro completed", "steps", stepsRun, "duration", res.Duration)
		} else {
			log.Warn("Macro aborted", "reason", reason, "steps", stepsRun, "duration", res.Duration)
		}
		if e.hooks.OnRunEnd != nil {
			e.hooks.OnRunEnd(ctx, &domain.EndEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunEnd},
				Result:    res,
			})
		}
		return res
	}

	// Every OnRunStart is paired with exactly one OnRunEnd.
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart},
			InstanceID: inst.ID,
			MacroName:  macro.Name,
			Combo:      macro.Combo,
		})
	}

	origin, err := e.capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return finish(domain.StateAborted, domain.ReasonCancelled, 0)
		}
		log.Error("Failed to capture pointer origin", "error", err)
		return finish(domain.StateAborted, domain.ReasonPointer, 0)
	}
	inst.Origin = origin
	inst.State = domain.StateRunning

	log.Info("Macro started", "origin_x", origin.X, "origin_y", origin.Y, "steps", len(macro.Steps))

	state, reason := domain.StateCompleted, ""
	stepsRun := 0
	for i, step := range macro.Steps {
		if ctx.Err() != nil {
			break
		}
		inst.StepIndex = i

		start := time.Now()
		err := e.step(ctx, inst, step)
		stepsRun++
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
				InstanceID: inst.ID,
				MacroName:  macro.Name,
				Index:      i,
				Action:     step.Action,
				Duration:   time.Since(start),
				Err:        err,
			})
		}

		if errors.Is(err, ErrDuplicates) {
			log.Warn("Duplicate matches, aborting", "step", i, "target", step.Target, "error", err)
			state, reason = domain.StateAborted, domain.ReasonDuplicates
			break
		}
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			log.Warn("Step failed, continuing", "step", i, "action", step.Action, "error", err)
			continue
		}
		log.Debug("Step done", "step", i, "action", step.Action, "duration", time.Since(start))
	}

	if ctx.Err() != nil {
		return finish(domain.StateAborted, domain.ReasonCancelled, stepsRun)
	}

	if err := e.withPointer(ctx, func() error { return e.pointer.MoveTo(ctx, inst.Origin) }); err != nil {
		log.Error("Failed to restore pointer origin", "error", err)
	}
	return finish(state, reason, stepsRun)
}

func (e *Executor) capture(ctx context.Context) (domain.Point, error) {
	var origin domain.Point
	err := e.withPointer(ctx, func() error {
		var err error
		origin, err = e.pointer.Position(ctx)
		return err
	})
	return origin, err
}

// withPointer runs fn while holding the pointer lock.
func (e *Executor) withPointer(ctx context.Context, fn func() error) error {
	if err := e.lock.Acquire(ctx); err != nil {
		return err
	}
	defer e.lock.Release()
	return fn()
}

func (e *Executor) step(ctx context.Context, inst *domain.Instance, s domain.Step) error {
	switch s.Action {
	case domain.ActionDelay:
		return sleep(ctx, s.Duration)

	case domain.ActionMoveToImage:
		return e.moveToImage(ctx, e.resolve(s.Target), s.Confidence, s.Timeout)

	case domain.ActionMoveToOrigin:
		return e.withPointer(ctx, func() error {
			return e.pointer.MoveTo(ctx, inst.Origin)
		})

	case domain.ActionMoveTo:
		return e.withPointer(ctx, func() error {
			return e.pointer.MoveTo(ctx, domain.Point{X: s.X, Y: s.Y})
		})

	case domain.ActionCheckDuplicates:
		matches, err := e.locator.LocateAll(ctx, e.resolve(s.Target), s.Confidence)
		if err != nil {
			return err
		}
		if len(matches) > 1 {
			return fmt.Errorf("%w: %d matches of %s", ErrDuplicates, len(matches), s.Target)
		}
		return nil

	case domain.ActionLeftClick:
		return e.withPointer(ctx, func() error {
			return e.pointer.Click(ctx, ports.ButtonLeft)
		})

	case domain.ActionRightClick:
		return e.withPointer(ctx, func() error {
			return e.pointer.Click(ctx, ports.ButtonRight)
		})
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownAction, s.Action)
}

// moveToImage polls the locator until the asset is found or timeout elapses,
// then moves to it. Polling runs without the pointer lock; once the asset is
// seen it is located again under the lock so the move uses a fresh position.
// A missing asset fails immediately.
func (e *Executor) moveToImage(ctx context.Context, asset string, confidence float64, timeout time.Duration) error {
	searchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for {
		_, err := e.locator.Locate(searchCtx, asset, confidence)
		if err == nil {
			err = e.withPointer(searchCtx, func() error {
				m, err := e.locator.Locate(searchCtx, asset, confidence)
				if err != nil {
					return err
				}
				return e.pointer.MoveTo(ctx, m.Center())
			})
			if err == nil {
				return nil
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		timedOut := searchCtx.Err() != nil
		if !timedOut && !errors.Is(err, domain.ErrImageNotFound) {
			return err
		}
		if timedOut || timeout <= 0 {
			return fmt.Errorf("%w: %s within %s", domain.ErrImageNotFound, asset, timeout)
		}
		if err := sleep(searchCtx, e.pollInterval); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s within %s", domain.ErrImageNotFound, asset, timeout)
		}
	}
}

func (e *Executor) resolve(asset string) string {
	if e.assetDir == "" || filepath.IsAbs(asset) {
		return asset
	}
	return filepath.Join(e.assetDir, asset)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
