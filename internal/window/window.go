// Package window captures and restores the focused window so text delivery
// pastes into the application the user was dictating at, not into whatever
// stole focus in between (a notification toast, for instance).
package window

import (
	"time"

	"go.uber.org/zap"
)

// Info identifies a captured window.
type Info struct {
	ID  string
	App string
}

// focusSettle gives the window manager time to apply a focus change before
// the synthetic keystroke is sent.
const focusSettle = 100 * time.Millisecond

// queryTimeout bounds every external focus query or restore call.
const queryTimeout = 2 * time.Second

// Tracker captures the active window and restores focus to it later. Every
// failure is swallowed into a nil capture or a false restore; focus handling
// must never break the delivery path.
type Tracker struct {
	logger *zap.Logger
}

func NewTracker(logger *zap.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Capture returns the currently focused window, or nil when it cannot be
// determined (Wayland, missing tooling, headless session).
func (t *Tracker) Capture() *Info {
	info, err := captureActive()
	if err != nil {
		t.logger.Debug("capture active window failed", zap.Error(err))
		return nil
	}
	return info
}

// Restore re-focuses a previously captured window. Returns whether focus was
// handed back; a nil or empty capture is never an error, just a no-op.
func (t *Tracker) Restore(info *Info) bool {
	if info == nil || (info.ID == "" && info.App == "") {
		return false
	}
	if err := restoreActive(info); err != nil {
		t.logger.Debug("restore focus failed", zap.Error(err))
		return false
	}
	time.Sleep(focusSettle)
	return true
}
