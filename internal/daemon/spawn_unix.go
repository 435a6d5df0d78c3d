//go:build !windows

package daemon

import "syscall"

// detachAttr creates a new session so the child survives the parent's
// terminal going away.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
