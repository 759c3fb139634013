package engine

import "context"

// PointerLock serializes access to the pointer device.
// Unlike sync.Mutex, acquiring it can be abandoned when the context ends.
type PointerLock struct {
	ch chan struct{}
}

// NewPointerLock returns an unlocked PointerLock.
func NewPointerLock() *PointerLock {
	return &PointerLock{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is held or ctx is done.
func (l *PointerLock) Acquire(ctx context.Context) error {
	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release unlocks. It must only be called by the holder.
func (l *PointerLock) Release() {
	<-l.ch
}
