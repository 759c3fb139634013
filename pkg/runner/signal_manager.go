package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager turns OS signals into a cancellable context plus a reload channel.
// SIGINT and SIGTERM cancel the context; SIGHUP requests a reload.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	hup    chan os.Signal
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager(parent context.Context) *SignalManager {
	sm := &SignalManager{
		parent: parent,
		hup:    make(chan os.Signal, 1),
	}
	signal.Notify(sm.hup, syscall.SIGHUP)
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reload delivers a value for every SIGHUP received.
func (sm *SignalManager) Reload() <-chan os.Signal {
	return sm.hup
}

// Reset re-arms the termination listener with a fresh context.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	signal.Stop(sm.hup)
	if sm.cancel != nil {
		sm.cancel()
	}
}
