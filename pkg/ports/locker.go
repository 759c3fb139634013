package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker guards the single-runner invariant across processes that share a
// display, e.g. two shortcutter processes started by the same session.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	// The holder keeps the lock alive until the returned UnlockFunc is called;
	// if the process dies the lock expires after ttl.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
