package hotkey

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_RunsCallbacksInOrder(t *testing.T) {
	d := newDispatcher(zap.NewNop())
	defer d.stop()

	var order []int
	done := make(chan struct{})
	d.enqueue("first", func() { order = append(order, 1) })
	d.enqueue("second", func() { order = append(order, 2) })
	d.enqueue("last", func() { order = append(order, 3); close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callbacks did not run")
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDispatcher_OverflowDropsNewest(t *testing.T) {
	d := newDispatcher(zap.NewNop())
	defer d.stop()

	block := make(chan struct{})
	var ran atomic.Int32

	// First callback parks the worker so everything else queues up.
	d.enqueue("blocker", func() { <-block })

	// Wait until the worker picked up the blocker, then fill the queue.
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.active
	}, time.Second, time.Millisecond)

	total := queueCapacity + 10
	for i := 0; i < total; i++ {
		d.enqueue("evt", func() { ran.Add(1) })
	}
	close(block)

	// Only what fit in the queue may run; the overflow was dropped.
	require.Eventually(t, func() bool {
		return ran.Load() > 0
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	got := int(ran.Load())
	assert.LessOrEqual(t, got, queueCapacity)
	assert.Greater(t, got, 0)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	d := newDispatcher(zap.NewNop())
	defer d.stop()

	done := make(chan struct{})
	d.enqueue("boom", func() { panic("boom") })
	d.enqueue("after", func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestDispatcher_StopIsPromptAndIdempotent(t *testing.T) {
	d := newDispatcher(zap.NewNop())
	d.enqueue("noop", func() {})

	start := time.Now()
	d.stop()
	d.stop()
	assert.Less(t, time.Since(start), joinTimeout)
}

func TestDispatcher_StopWithoutStart(t *testing.T) {
	d := newDispatcher(zap.NewNop())
	d.stop() // must not panic or hang
}
