// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// Mode selects how the hotkey drives recording.
type Mode string

const (
	// ModePushToTalk records only while the combination is physically held.
	ModePushToTalk Mode = "push-to-talk"
	// ModeToggle flips recording on/off on each full press of the combination.
	ModeToggle Mode = "toggle"
)

// IdentityToken is the marker looked for in a process command line to decide
// whether a PID found in the registry actually belongs to this program.
const IdentityToken = "voxd"

// RegistryEntry identifies the currently running daemon process.
// Persisted as a single JSON record in the config directory; absence of the
// file means "no daemon".
type RegistryEntry struct {
	PID       int     `json:"pid"`
	Command   string  `json:"command,omitempty"`
	CreatedAt float64 `json:"created_at,omitempty"` // unix seconds
	ConfigDir string  `json:"config_dir,omitempty"`
}

// Age returns how long ago the entry was created.
func (e *RegistryEntry) Age() time.Duration {
	if e.CreatedAt <= 0 {
		return 0
	}
	created := time.Unix(int64(e.CreatedAt), 0)
	return time.Since(created)
}
