package hotkey

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// queueCapacity bounds the callback queue. The input-hook thread must never
// block on user code, so overflow drops the newest event instead of waiting.
const queueCapacity = 8

// joinTimeout bounds how long stop waits for the worker to drain.
const joinTimeout = time.Second

type event struct {
	label    string
	callback func()
}

// dispatcher is a single-consumer queue decoupling state-machine transitions
// (raised on the input-hook thread) from potentially slow user callbacks.
// The worker starts lazily on first enqueue; stop pushes a shutdown sentinel
// so the worker never has to time out of a blocking wait.
type dispatcher struct {
	logger *zap.Logger

	mu     sync.Mutex
	queue  chan event
	quit   chan struct{} // closed by stop; fallback when the queue is full
	done   chan struct{} // closed when the worker exits
	active bool
}

func newDispatcher(logger *zap.Logger) *dispatcher {
	return &dispatcher{
		logger: logger,
		queue:  make(chan event, queueCapacity),
	}
}

// enqueue hands a callback to the worker without ever blocking. A full queue
// drops the newest event with a warning.
func (d *dispatcher) enqueue(label string, callback func()) {
	d.ensureWorker()
	select {
	case d.queue <- event{label: label, callback: callback}:
	default:
		d.logger.Warn("dropping hotkey event, queue full",
			zap.String("event", label))
	}
}

func (d *dispatcher) ensureWorker() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		return
	}
	d.active = true
	d.quit = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.quit, d.done)
}

func (d *dispatcher) run(quit, done chan struct{}) {
	defer close(done)
	defer func() {
		d.mu.Lock()
		d.active = false
		d.mu.Unlock()
	}()

	for {
		select {
		case <-quit:
			return
		case ev := <-d.queue:
			if ev.callback == nil {
				return
			}
			d.invoke(ev)
		}
	}
}

// invoke runs one callback, recovering panics so a misbehaving callback
// cannot disable future events.
func (d *dispatcher) invoke(ev event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("hotkey callback panicked",
				zap.String("event", ev.label),
				zap.Any("panic", r))
		}
	}()
	ev.callback()
}

// stop unblocks the worker and joins it with a bounded timeout. Safe to call
// when the worker never started; the dispatcher may be reused afterwards.
func (d *dispatcher) stop() {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	quit, done := d.quit, d.done
	d.active = false // a second stop becomes a no-op
	d.mu.Unlock()

	select {
	case d.queue <- event{}: // sentinel
	default:
	}
	close(quit)

	select {
	case <-done:
	case <-time.After(joinTimeout):
		d.logger.Warn("hotkey worker did not exit cleanly")
	}
}
