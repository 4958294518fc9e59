package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsEnqueuedTasks(t *testing.T) {
	d := NewDispatcher(4)

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		d.Enqueue(func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	d.Close()

	assert.Equal(t, int32(10), count.Load())
}

func TestDispatcher_TaskGetsBackgroundContext(t *testing.T) {
	d := NewDispatcher(1)

	done := make(chan error, 1)
	d.Enqueue(func(ctx context.Context) error {
		done <- ctx.Err()
		return nil
	})
	d.Close()

	require.NoError(t, <-done)
}

func TestDispatcher_FailuresDoNotStopWorker(t *testing.T) {
	d := NewDispatcher(2)

	var ran atomic.Bool
	d.Enqueue(func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	d.Enqueue(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	d.Close()

	assert.True(t, ran.Load())
}

func TestDispatcher_FullQueueRunsInline(t *testing.T) {
	d := NewDispatcher(1)

	block := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup

	// Occupy the worker, then fill the buffer.
	d.Enqueue(func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	})
	<-started
	d.Enqueue(func(ctx context.Context) error { return nil })

	// The queue is full now; this one must still run without Close.
	wg.Add(1)
	d.Enqueue(func(ctx context.Context) error {
		wg.Done()
		return nil
	})
	wg.Wait()

	close(block)
	d.Close()
}
