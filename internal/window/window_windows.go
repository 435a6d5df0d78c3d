//go:build windows

package window

import (
	"fmt"
	"strconv"
	"syscall"
)

const (
	swShow          = 5
	swShowMaximized = 3
	swRestore       = 9
)

var (
	user32                  = syscall.NewLazyDLL("user32.dll")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procIsWindow            = user32.NewProc("IsWindow")
	procIsIconic            = user32.NewProc("IsIconic")
	procIsZoomed            = user32.NewProc("IsZoomed")
	procShowWindow          = user32.NewProc("ShowWindow")
)

func captureActive() (*Info, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, fmt.Errorf("no foreground window")
	}
	return &Info{ID: strconv.FormatUint(uint64(hwnd), 10)}, nil
}

func restoreActive(info *Info) error {
	hwnd, err := strconv.ParseUint(info.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad window handle %q: %w", info.ID, err)
	}

	if ok, _, _ := procIsWindow.Call(uintptr(hwnd)); ok == 0 {
		return fmt.Errorf("window %d no longer exists", hwnd)
	}

	// Minimized and maximized windows need their state restored along with
	// the focus, otherwise SetForegroundWindow leaves them hidden.
	showFlag := uintptr(swShow)
	if iconic, _, _ := procIsIconic.Call(uintptr(hwnd)); iconic != 0 {
		showFlag = swRestore
	} else if zoomed, _, _ := procIsZoomed.Call(uintptr(hwnd)); zoomed != 0 {
		showFlag = swShowMaximized
	}

	procShowWindow.Call(uintptr(hwnd), showFlag)
	if ok, _, _ := procSetForegroundWindow.Call(uintptr(hwnd)); ok == 0 {
		return fmt.Errorf("SetForegroundWindow refused for %d", hwnd)
	}
	return nil
}
