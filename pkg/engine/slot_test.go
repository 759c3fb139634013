package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/shortcutter/pkg/domain"
)

func TestSlot_SingleHolder(t *testing.T) {
	var s Slot
	assert.Equal(t, domain.StateIdle, s.State())

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, domain.StateRunning, s.State())

	s.Release()
	assert.Equal(t, domain.StateIdle, s.State())
	assert.True(t, s.TryAcquire())
}

func TestPointerLock_AcquireHonoursContext(t *testing.T) {
	l := NewPointerLock()
	assert.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.DeadlineExceeded)

	l.Release()
	assert.NoError(t, l.Acquire(context.Background()))
	l.Release()
}
