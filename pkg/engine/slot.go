package engine

import (
	"sync/atomic"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// Slot gates the executions of a single combo. At most one holder at a time.
// The zero value is an Idle slot.
type Slot struct {
	running atomic.Bool
}

// TryAcquire moves the slot from Idle to Running.
// It returns false, without waiting, when the slot is already Running.
func (s *Slot) TryAcquire() bool {
	return s.running.CompareAndSwap(false, true)
}

// Release returns the slot to Idle.
func (s *Slot) Release() {
	s.running.Store(false)
}

// State reports the slot state.
func (s *Slot) State() domain.ExecState {
	if s.running.Load() {
		return domain.StateRunning
	}
	return domain.StateIdle
}
