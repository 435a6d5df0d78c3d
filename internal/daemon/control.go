package daemon

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voxd/internal/domain"
)

const (
	stopPollAttempts = 50
	stopPollInterval = 100 * time.Millisecond
)

// Control implements the client side of the daemon protocol: discover the
// daemon through the registry, then drive it through the controller.
type Control struct {
	registry   domain.Registry
	controller domain.Controller
	logger     *zap.Logger

	// sleep paces the stop escalation and spawn registration polls; tests
	// swap it out so the polls run instantly.
	sleep func(time.Duration)
}

// NewControl creates a client-side control handle.
func NewControl(registry domain.Registry, controller domain.Controller, logger *zap.Logger) *Control {
	return &Control{
		registry:   registry,
		controller: controller,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Status describes the daemon as seen from a client invocation.
type Status struct {
	Running      bool
	PID          int
	Age          time.Duration
	RegistryPath string
}

// liveEntry reads the registry and self-heals stale records. Returns nil
// when no live daemon exists.
func (c *Control) liveEntry() *domain.RegistryEntry {
	entry, _ := c.registry.Read()
	if entry == nil {
		return nil
	}
	if c.registry.IsStale(entry) {
		c.logger.Info("removing stale registry entry", zap.Int("pid", entry.PID))
		_ = c.registry.Delete()
		return nil
	}
	return entry
}

// Status reports whether a live daemon is registered.
func (c *Control) Status() Status {
	st := Status{RegistryPath: c.registry.Path()}
	if entry := c.liveEntry(); entry != nil {
		st.Running = true
		st.PID = entry.PID
		st.Age = entry.Age()
	}
	return st
}

// Start launches the daemon. With background set it spawns a detached
// process and confirms registration; when the spawn cannot be confirmed it
// falls back to running in the foreground. runForeground blocks until the
// daemon exits.
func (c *Control) Start(background bool, runForeground func() error) error {
	if entry := c.liveEntry(); entry != nil {
		return fmt.Errorf("%w (pid %d)", domain.ErrAlreadyRunning, entry.PID)
	}

	if !background {
		return runForeground()
	}

	pid, err := Spawn(c.registry, c.logger, c.sleep)
	if err != nil {
		c.logger.Warn("background start failed, running in foreground", zap.Error(err))
		return runForeground()
	}
	c.logger.Info("daemon started", zap.Int("pid", pid))
	return nil
}

// Stop terminates the daemon: graceful request, bounded wait, then forced
// kill. The registry entry is always removed once termination was initiated,
// so a kill that raced with process exit cannot leave a dangling record.
// A permission failure leaves the entry in place: the daemon is still alive
// and still discoverable.
func (c *Control) Stop() error {
	entry := c.liveEntry()
	if entry == nil {
		return domain.ErrNotRunning
	}
	pid := entry.PID

	if err := c.controller.Terminate(pid); err != nil {
		if errors.Is(err, domain.ErrPermission) {
			return fmt.Errorf("stop daemon (pid %d): %w", pid, err)
		}
		// Request failed for another reason; the process may already be gone.
		c.logger.Debug("terminate request failed", zap.Int("pid", pid), zap.Error(err))
	}

	for i := 0; i < stopPollAttempts; i++ {
		if !c.controller.Exists(pid) {
			_ = c.registry.Delete()
			c.logger.Info("daemon stopped", zap.Int("pid", pid))
			return nil
		}
		c.sleep(stopPollInterval)
	}

	c.logger.Warn("daemon did not exit gracefully, killing", zap.Int("pid", pid))
	if err := c.controller.Kill(pid); err != nil && errors.Is(err, domain.ErrPermission) {
		return fmt.Errorf("kill daemon (pid %d): %w", pid, err)
	}
	_ = c.registry.Delete()
	return nil
}

// Toggle asks the running daemon to flip its recording state.
func (c *Control) Toggle() error {
	entry := c.liveEntry()
	if entry == nil {
		return domain.ErrNotRunning
	}
	if err := c.controller.Toggle(entry.PID); err != nil {
		return fmt.Errorf("toggle daemon (pid %d): %w", entry.PID, err)
	}
	return nil
}
