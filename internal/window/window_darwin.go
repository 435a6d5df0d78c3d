//go:build darwin

package window

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const captureScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	try
		set winId to id of front window of frontApp
		return appName & "\n" & winId
	on error
		return appName & "\n"
	end try
end tell
`

func captureActive() (*Info, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", captureScript).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript capture: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("osascript returned no frontmost application")
	}
	info := &Info{App: lines[0]}
	if len(lines) > 1 {
		info.ID = lines[1]
	}
	return info, nil
}

func restoreActive(info *Info) error {
	script, err := restoreScript(info)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript restore: %w", err)
	}
	return nil
}

func restoreScript(info *Info) (string, error) {
	app := escapeAppleScript(info.App)
	winID, idErr := strconv.Atoi(info.ID)
	hasID := info.ID != "" && idErr == nil

	switch {
	case app != "" && hasID:
		return fmt.Sprintf(`
tell application "System Events"
	tell process "%s"
		set frontmost to true
		if (exists (first window whose id is %d)) then
			perform action "AXRaise" of (first window whose id is %d)
		end if
	end tell
end tell
`, app, winID, winID), nil
	case app != "":
		return fmt.Sprintf(`
tell application "System Events"
	tell process "%s"
		set frontmost to true
	end tell
end tell
`, app), nil
	case hasID:
		return fmt.Sprintf(`
tell application "System Events"
	set frontmost of (first process whose unix id is %d) to true
end tell
`, winID), nil
	}
	return "", fmt.Errorf("nothing to restore")
}

// escapeAppleScript quotes backslashes and double quotes so an application
// name cannot break out of the script string literal.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
