// Package infra implements infrastructure concerns (process, registry, control channel).
package infra

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"voxd/internal/domain"
)

// GopsutilProcessManager implements domain.ProcessManager using gopsutil.
type GopsutilProcessManager struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &GopsutilProcessManager{}
}

// IsRunning checks if a PID exists and is running.
// Permission denied counts as running: a process we cannot inspect must not
// be mistaken for a dead one.
func (pm *GopsutilProcessManager) IsRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return isPermission(err)
	}
	return exists
}

// Cmdline returns the command line of a process.
func (pm *GopsutilProcessManager) Cmdline(pid int) (string, error) {
	if pid <= 0 {
		return "", errors.New("invalid pid")
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	cmdline, err := p.Cmdline()
	if err != nil {
		return "", err
	}
	if cmdline == "" {
		return "", errors.New("command line unavailable")
	}
	return cmdline, nil
}

// CurrentPID returns the current process PID.
func (pm *GopsutilProcessManager) CurrentPID() int {
	return os.Getpid()
}

// isPermission reports whether err is a permission error from a process
// probe or signal send.
func isPermission(err error) bool {
	return errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EACCES) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, os.ErrPermission)
}

// Ensure GopsutilProcessManager implements domain.ProcessManager.
var _ domain.ProcessManager = (*GopsutilProcessManager)(nil)
