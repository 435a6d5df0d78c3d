package hotkey

// KeyEvent is one raw press or release reported by the platform hook, with
// the key already normalized to its canonical token.
type KeyEvent struct {
	Key   Key
	Press bool
}

// Hook is the platform-specific keyboard event source.
type Hook interface {
	// Start begins capturing keyboard events and returns the channel they
	// are delivered on. The channel is closed when the hook stops.
	Start() (<-chan KeyEvent, error)

	// Stop terminates the hook.
	Stop() error
}
