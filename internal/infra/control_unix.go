//go:build !windows

package infra

import (
	"fmt"
	"syscall"

	"voxd/internal/domain"
)

// SignalController implements domain.Controller with POSIX signals.
// Toggle is SIGUSR1, graceful termination SIGTERM, forced SIGKILL.
type SignalController struct{}

// NewController creates the platform control channel.
func NewController() domain.Controller {
	return &SignalController{}
}

// Exists probes the process with signal 0. Permission denied counts as
// alive: the caller cannot safely judge a process it may not signal.
func (c *SignalController) Exists(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	return err == syscall.EPERM
}

// Terminate sends SIGTERM. Returns whether the signal was accepted, not
// whether the process exited.
func (c *SignalController) Terminate(pid int) error {
	return c.send(pid, syscall.SIGTERM)
}

// Kill sends SIGKILL.
func (c *SignalController) Kill(pid int) error {
	return c.send(pid, syscall.SIGKILL)
}

// Toggle sends SIGUSR1, the "flip recording state" notification.
func (c *SignalController) Toggle(pid int) error {
	return c.send(pid, syscall.SIGUSR1)
}

func (c *SignalController) send(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	err := syscall.Kill(pid, sig)
	if err == syscall.EPERM {
		return fmt.Errorf("signal %v to pid %d: %w", sig, pid, domain.ErrPermission)
	}
	return err
}

var _ domain.Controller = (*SignalController)(nil)
