// Package output delivers transcribed text to the focused application.
package output

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
	"go.uber.org/zap"

	"voxd/internal/domain"
	"voxd/internal/window"
)

// Mode selects how text reaches the focused window.
const (
	ModeAuto      = "auto"
	ModeClipboard = "clipboard"
	ModeInject    = "inject"
)

// FocusTracker captures the focused window so it can be re-focused before
// the synthetic paste lands.
type FocusTracker interface {
	Capture() *window.Info
	Restore(info *window.Info) bool
}

// Injector places text on the clipboard and, depending on mode, synthesizes
// a paste keystroke. In auto and inject modes the previous clipboard content
// is restored after the paste lands, and the window that was focused when
// delivery began is re-focused first, so a notification popping up between
// recording and delivery cannot swallow the paste.
type Injector struct {
	mode    string
	tracker FocusTracker
	logger  *zap.Logger
}

// New creates an injector for the given output mode.
func New(mode string, logger *zap.Logger) (*Injector, error) {
	return NewWithTracker(mode, window.NewTracker(logger), logger)
}

// NewWithTracker creates an injector with a specific focus tracker
// (used by tests).
func NewWithTracker(mode string, tracker FocusTracker, logger *zap.Logger) (*Injector, error) {
	switch mode {
	case ModeAuto, ModeClipboard, ModeInject:
	default:
		return nil, fmt.Errorf("unknown output mode %q", mode)
	}
	return &Injector{mode: mode, tracker: tracker, logger: logger}, nil
}

// TestInjection verifies keystroke synthesis can be set up without sending
// anything. Clipboard-only mode always passes.
func (in *Injector) TestInjection() bool {
	if in.mode == ModeClipboard {
		return true
	}
	_, err := keybd_event.NewKeyBonding()
	if err != nil {
		in.logger.Warn("keystroke synthesis unavailable", zap.Error(err))
	}
	return err == nil
}

// Deliver writes text to the clipboard and pastes it unless running in
// clipboard-only mode.
func (in *Injector) Deliver(text string) error {
	if text == "" {
		return nil
	}

	// Capture the target window first; the clipboard roundtrip below can
	// take long enough for something else to grab focus.
	var focus *window.Info
	if in.mode != ModeClipboard {
		focus = in.tracker.Capture()
	}

	previous, backupErr := clipboard.ReadAll()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	if in.mode == ModeClipboard {
		return nil
	}

	if focus != nil && !in.tracker.Restore(focus) {
		in.logger.Debug("could not re-focus delivery target")
	}

	if err := in.paste(); err != nil {
		if in.mode == ModeAuto {
			// Leave the text on the clipboard so the user can paste by hand.
			in.logger.Warn("paste failed, text left on clipboard", zap.Error(err))
			return nil
		}
		return err
	}

	// Give the focused application time to read the selection before the
	// original content comes back.
	time.Sleep(150 * time.Millisecond)
	if backupErr == nil {
		if err := clipboard.WriteAll(previous); err != nil {
			in.logger.Debug("clipboard restore failed", zap.Error(err))
		}
	}
	return nil
}

func (in *Injector) paste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("keystroke setup: %w", err)
	}
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}
	kb.SetKeys(keybd_event.VK_V)
	if err := kb.Launching(); err != nil {
		return fmt.Errorf("send paste: %w", err)
	}
	return nil
}

var _ domain.Injector = (*Injector)(nil)
