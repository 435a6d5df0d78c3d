//go:build windows

package infra

import (
	"fmt"
	"os/exec"
	"strconv"

	"voxd/internal/domain"
)

// TaskkillController implements domain.Controller on Windows, where POSIX
// signals do not exist. Termination goes through taskkill restricted to the
// target PID and its child tree; there is no toggle notification.
type TaskkillController struct {
	processManager domain.ProcessManager
}

// NewController creates the platform control channel.
func NewController() domain.Controller {
	return &TaskkillController{processManager: NewProcessManager()}
}

// Exists probes the process via the process manager.
func (c *TaskkillController) Exists(pid int) bool {
	return c.processManager.IsRunning(pid)
}

// Terminate asks the process tree to exit cooperatively.
func (c *TaskkillController) Terminate(pid int) error {
	return c.taskkill(pid, false)
}

// Kill forcibly terminates the process tree.
func (c *TaskkillController) Kill(pid int) error {
	return c.taskkill(pid, true)
}

// Toggle has no Windows equivalent of SIGUSR1; it must fail loudly rather
// than silently look like success.
func (c *TaskkillController) Toggle(pid int) error {
	return domain.ErrToggleUnsupported
}

func (c *TaskkillController) taskkill(pid int, force bool) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	args := []string{"/PID", strconv.Itoa(pid), "/T"}
	if force {
		args = append(args, "/F")
	}
	if err := exec.Command("taskkill", args...).Run(); err != nil {
		return fmt.Errorf("taskkill pid %d: %w", pid, err)
	}
	return nil
}

var _ domain.Controller = (*TaskkillController)(nil)
