package domain

import "errors"

var (
	// ErrNotRunning indicates no live daemon is registered.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrAlreadyRunning indicates a live, identity-verified daemon is
	// registered. Start treats it as a no-op rather than a failure.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrToggleUnsupported indicates the platform has no async user signal
	// to deliver the toggle notification.
	ErrToggleUnsupported = errors.New("toggle signal not supported on this platform")

	// ErrInvalidHotkey indicates the configured hotkey string could not be
	// parsed into a non-empty key combination.
	ErrInvalidHotkey = errors.New("invalid hotkey")

	// ErrPermission indicates the caller lacks authority to inspect or
	// signal the target process. Callers treat the process as existing and
	// leave the registry entry untouched.
	ErrPermission = errors.New("permission denied")
)
