package notify

import (
	"testing"

	"go.uber.org/zap"
)

// A disabled notifier must be a complete no-op; none of these may panic or
// reach the platform notification service.
func TestDesktop_DisabledIsSilent(t *testing.T) {
	d := NewDesktop(false, zap.NewNop())

	d.RecordingStarted()
	d.RecordingStopped()
	d.Transcribed("hello")
	d.Transcribed("")
}
