package hotkey

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"voxd/internal/domain"
)

// Listener owns the hotkey debounce state machine. Raw press/release events
// arrive from the platform hook; matching transitions enqueue the start/stop
// callbacks on the dispatch worker so the hook thread never runs user code.
//
// One mutex guards the pressed set and both flags. The remote toggle path
// (Toggle, driven by the control channel) enters the same locked transition
// as the physical-key path, so the two trigger sources can never diverge.
type Listener struct {
	combo   Combination
	mode    domain.Mode
	onStart func()
	onStop  func()
	logger  *zap.Logger

	newHook func(Combination) (Hook, error)

	mu          sync.Mutex
	pressed     map[Key]struct{}
	comboActive bool // true while the full combo stays held; debounces auto-repeat
	recording   bool

	hook     Hook
	dispatch *dispatcher
	pumpDone chan struct{}
}

// Option customizes listener construction.
type Option func(*Listener)

// WithHook overrides the platform hook source (used by tests and by status
// probing, which must not grab the real global hook twice).
func WithHook(factory func(Combination) (Hook, error)) Option {
	return func(l *Listener) { l.newHook = factory }
}

// NewListener parses the hotkey string and builds a listener.
// It fails fast with domain.ErrInvalidHotkey on an empty or unparseable
// combination, before any hook is installed.
func NewListener(spec string, mode domain.Mode, onStart, onStop func(), logger *zap.Logger, opts ...Option) (*Listener, error) {
	combo, err := ParseCombination(spec)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		combo:    combo,
		mode:     mode,
		onStart:  onStart,
		onStop:   onStop,
		logger:   logger,
		newHook:  newPlatformHook,
		pressed:  make(map[Key]struct{}),
		dispatch: newDispatcher(logger),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Combination returns the parsed key combination.
func (l *Listener) Combination() Combination {
	return l.combo
}

// Start installs the platform hook and begins processing events.
// Idempotent while running.
func (l *Listener) Start() error {
	l.mu.Lock()
	if l.hook != nil {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	hook, err := l.newHook(l.combo)
	if err != nil {
		return err
	}
	events, err := hook.Start()
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.hook = hook
	l.pumpDone = make(chan struct{})
	l.mu.Unlock()

	go l.pump(events, l.pumpDone)
	l.logger.Info("hotkey listener started",
		zap.String("hotkey", l.combo.String()),
		zap.String("mode", string(l.mode)))
	return nil
}

// Stop removes the hook, clears all held-key state, and joins the dispatch
// worker. Safe to call when not started.
func (l *Listener) Stop() {
	l.mu.Lock()
	hook := l.hook
	done := l.pumpDone
	l.hook = nil
	l.pressed = make(map[Key]struct{})
	l.comboActive = false
	l.recording = false
	l.mu.Unlock()

	if hook != nil {
		if err := hook.Stop(); err != nil {
			l.logger.Warn("hook stop failed", zap.Error(err))
		}
		// A hook that fails to stop may never close its event channel, so
		// the pump join is bounded the same way the dispatch join is.
		if done != nil {
			select {
			case <-done:
			case <-time.After(joinTimeout):
				l.logger.Warn("hook event pump did not exit cleanly")
			}
		}
	}
	l.dispatch.stop()
}

// IsRunning reports whether the hook is installed.
func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hook != nil
}

// IsRecording reports the logical recording state.
func (l *Listener) IsRecording() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recording
}

// Toggle flips the recording state programmatically: start if idle, stop if
// recording. This is the control-channel trigger; it shares the listener
// lock with the physical-key path, regardless of the configured mode.
func (l *Listener) Toggle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recording {
		l.recording = false
		l.dispatch.enqueue("stop", l.onStop)
	} else {
		l.recording = true
		l.dispatch.enqueue("start", l.onStart)
	}
}

func (l *Listener) pump(events <-chan KeyEvent, done chan struct{}) {
	defer close(done)
	for ev := range events {
		if ev.Press {
			l.handlePress(ev.Key)
		} else {
			l.handleRelease(ev.Key)
		}
	}
}

// handlePress adds the key to the pressed set and fires a transition when
// the full combination becomes held. comboActive suppresses OS auto-repeat:
// while it is set, further presses of held combo keys are ignored.
func (l *Listener) handlePress(key Key) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pressed[key] = struct{}{}

	if !l.comboSatisfied() {
		return
	}
	if l.comboActive {
		return
	}
	l.comboActive = true

	switch l.mode {
	case domain.ModeToggle:
		if l.recording {
			l.recording = false
			l.dispatch.enqueue("stop", l.onStop)
		} else {
			l.recording = true
			l.dispatch.enqueue("start", l.onStart)
		}
	default: // push-to-talk: holding the combo never double-starts
		if !l.recording {
			l.recording = true
			l.dispatch.enqueue("start", l.onStart)
		}
	}
}

// handleRelease removes the key. Releasing any combination member re-arms
// the debounce; in push-to-talk mode it also ends the recording, matching
// the "hold to talk" expectation no matter which member lifts first.
func (l *Listener) handleRelease(key Key) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.pressed, key)

	if !l.combo.Contains(key) {
		return
	}
	l.comboActive = false

	if l.mode == domain.ModePushToTalk && l.recording {
		l.recording = false
		l.dispatch.enqueue("stop", l.onStop)
	}
}

// comboSatisfied reports whether every combination member is currently held.
// Callers must hold l.mu.
func (l *Listener) comboSatisfied() bool {
	for k := range l.combo {
		if _, held := l.pressed[k]; !held {
			return false
		}
	}
	return true
}
