//go:build linux

package window

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// isWayland reports whether the session has no X server to query. xdotool
// only speaks X11; under Wayland focus tracking is silently unavailable.
func isWayland() bool {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

func captureActive() (*Info, error) {
	if isWayland() {
		return nil, fmt.Errorf("wayland session, focus tracking unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow").Output()
	if err != nil {
		return nil, fmt.Errorf("xdotool getactivewindow: %w", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return nil, fmt.Errorf("xdotool returned no window id")
	}
	return &Info{ID: id}, nil
}

func restoreActive(info *Info) error {
	if isWayland() {
		return fmt.Errorf("wayland session, focus restore unavailable")
	}
	if info.ID == "" {
		return fmt.Errorf("no window id to restore")
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "xdotool", "windowactivate", info.ID).Run(); err != nil {
		return fmt.Errorf("xdotool windowactivate %s: %w", info.ID, err)
	}
	return nil
}
