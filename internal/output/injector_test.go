package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voxd/internal/window"
)

// fakeTracker records focus-tracking traffic.
type fakeTracker struct {
	info     *window.Info
	captures int
	restores int
}

func (f *fakeTracker) Capture() *window.Info { f.captures++; return f.info }

func (f *fakeTracker) Restore(*window.Info) bool { f.restores++; return true }

func TestNew_ValidatesMode(t *testing.T) {
	for _, mode := range []string{ModeAuto, ModeClipboard, ModeInject} {
		_, err := New(mode, zap.NewNop())
		assert.NoError(t, err, "mode %q", mode)
	}

	_, err := New("telepathy", zap.NewNop())
	assert.Error(t, err)
}

func TestTestInjection_ClipboardModeAlwaysPasses(t *testing.T) {
	in, err := New(ModeClipboard, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, in.TestInjection(), "clipboard mode needs no keystroke synthesis")
}

func TestDeliver_EmptyTextIsANoop(t *testing.T) {
	tracker := &fakeTracker{}
	in, err := NewWithTracker(ModeAuto, tracker, zap.NewNop())
	require.NoError(t, err)
	// Empty transcriptions must not clobber the clipboard or touch focus.
	assert.NoError(t, in.Deliver(""))
	assert.Zero(t, tracker.captures)
}

// The delivery target is captured before anything else happens, so a window
// stealing focus during the clipboard roundtrip cannot become the paste
// destination.
func TestDeliver_CapturesFocusFirst(t *testing.T) {
	tracker := &fakeTracker{info: &window.Info{ID: "42"}}
	in, err := NewWithTracker(ModeAuto, tracker, zap.NewNop())
	require.NoError(t, err)

	// The clipboard write may fail on a headless box; the capture must have
	// happened either way.
	_ = in.Deliver("hello")
	assert.Equal(t, 1, tracker.captures)
}

func TestDeliver_ClipboardModeSkipsFocusTracking(t *testing.T) {
	tracker := &fakeTracker{info: &window.Info{ID: "42"}}
	in, err := NewWithTracker(ModeClipboard, tracker, zap.NewNop())
	require.NoError(t, err)

	_ = in.Deliver("hello")
	assert.Zero(t, tracker.captures, "clipboard-only delivery never re-focuses")
	assert.Zero(t, tracker.restores)
}
