// Package notify surfaces recording state to the desktop.
package notify

import (
	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"voxd/internal/domain"
)

const appTitle = "voxd"

// Desktop shows system notifications through the platform notification
// service. Notification failures are logged and swallowed; losing a toast
// must never affect a recording.
type Desktop struct {
	enabled bool
	logger  *zap.Logger
}

func NewDesktop(enabled bool, logger *zap.Logger) *Desktop {
	return &Desktop{enabled: enabled, logger: logger}
}

func (d *Desktop) RecordingStarted() {
	d.beep(880)
	d.show("Recording", "Listening...")
}

func (d *Desktop) RecordingStopped() {
	d.beep(440)
	d.show("Transcribing", "Processing audio...")
}

func (d *Desktop) Transcribed(text string) {
	if text == "" {
		d.show("No speech", "Nothing was transcribed")
		return
	}
	if len(text) > 80 {
		text = text[:80] + "..."
	}
	d.show("Transcribed", text)
}

// beep plays a short cue so the user hears the state change without looking
// at the screen.
func (d *Desktop) beep(freq float64) {
	if !d.enabled {
		return
	}
	if err := beeep.Beep(freq, 150); err != nil {
		d.logger.Debug("cue beep failed", zap.Error(err))
	}
}

func (d *Desktop) show(title, message string) {
	if !d.enabled {
		return
	}
	if err := beeep.Notify(appTitle+": "+title, message, ""); err != nil {
		d.logger.Debug("notification failed", zap.Error(err))
	}
}

var _ domain.Notifier = (*Desktop)(nil)
