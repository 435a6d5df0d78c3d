package domain

// ProcessManager handles OS process inspection.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// IsRunning checks if a PID exists and is running.
	// Permission denied counts as running: if we cannot inspect the process
	// we must not treat it as dead.
	IsRunning(pid int) bool

	// Cmdline returns the command line of a process. An error means the
	// command line could not be inspected (process gone, or no permission);
	// callers must not infer liveness from it.
	Cmdline(pid int) (string, error)

	// CurrentPID returns the current process PID.
	CurrentPID() int
}

// Registry provides daemon discovery and registration.
// Client invocations find the daemon via a PID record persisted to a file;
// the daemon writes it on startup and removes it on exit.
type Registry interface {
	// Write persists a RegistryEntry for pid atomically: no reader may ever
	// observe a half-written record.
	Write(pid int) error

	// Read returns the current entry, or nil when no daemon is registered.
	// A corrupt or unreadable file reads as nil, never as an error.
	Read() (*RegistryEntry, error)

	// Delete removes the registry file. Idempotent, best effort.
	Delete() error

	// IsStale reports whether the entry points at a process that is gone or
	// is not this program. Any caller that sees a stale entry should Delete
	// it so the registry self-heals.
	IsStale(entry *RegistryEntry) bool

	// Path returns the registry file path.
	Path() string
}

// Controller is the cross-process control channel: existence probe, graceful
// and forced termination, and the async toggle notification.
// Implementations: POSIX signals; taskkill on Windows (no toggle there).
type Controller interface {
	// Exists probes whether the process is alive. Permission denied counts
	// as alive.
	Exists(pid int) bool

	// Terminate asks the process to exit gracefully. Returns whether the
	// request was accepted, not whether the process exited.
	Terminate(pid int) error

	// Kill forcibly terminates the process. Used only after Terminate did
	// not produce an exit within a bounded wait.
	Kill(pid int) error

	// Toggle sends the "flip recording state" notification. Returns
	// ErrToggleUnsupported where no such signal exists.
	Toggle(pid int) error
}

// Engine transcribes recorded audio. Transcribe must not fail: on any error
// it logs and returns empty text, so a broken backend never takes down the
// daemon loop.
type Engine interface {
	// Name returns the engine identifier used in config and status output.
	Name() string

	// IsAvailable reports whether the backend can be reached. Safe to call
	// without a running daemon.
	IsAvailable() bool

	// Transcribe converts mono float32 samples to text.
	Transcribe(samples []float32, sampleRate int) string
}

// Recorder captures microphone audio between Start and Stop.
type Recorder interface {
	// IsAvailable reports whether an input device can be opened.
	IsAvailable() bool

	// Start begins capturing. Returns an error if already recording or the
	// device cannot be opened.
	Start() error

	// Stop ends capturing and returns the buffered samples.
	Stop() []float32
}

// Injector delivers transcribed text to the focused application.
type Injector interface {
	// TestInjection reports whether synthetic keystrokes can be produced.
	// Safe to run standalone, it sends no keys.
	TestInjection() bool

	// Deliver writes the text out (paste injection or clipboard fallback).
	Deliver(text string) error
}

// Notifier raises user-facing cues. Implementations swallow their own
// errors: a failed sound or notification never reaches the caller.
type Notifier interface {
	RecordingStarted()
	RecordingStopped()
	Transcribed(text string)
}
