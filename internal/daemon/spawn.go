package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"voxd/internal/config"
	"voxd/internal/domain"
)

const (
	spawnPollAttempts = 30
	spawnPollInterval = 100 * time.Millisecond
)

// binaryPath resolves the binary to self-exec. VOXD_ROOT points at an
// install directory and takes precedence, so a daemon spawned from a
// temporary build location survives the build dir going away.
func binaryPath() (string, error) {
	if root := os.Getenv("VOXD_ROOT"); root != "" {
		name := "voxd"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		return filepath.Join(root, name), nil
	}
	return os.Executable()
}

// Spawn launches a detached daemon process via self-exec of the run command
// and waits for it to register. Returns the registered PID, or an error when
// the child never shows up in the registry.
func Spawn(registry domain.Registry, logger *zap.Logger, sleep func(time.Duration)) (int, error) {
	bin, err := binaryPath()
	if err != nil {
		return 0, fmt.Errorf("resolve binary: %w", err)
	}

	logFile, err := openDaemonLog()
	if err != nil {
		return 0, fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(bin, "run")
	cmd.SysProcAttr = detachAttr()
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("spawn daemon: %w", err)
	}
	childPID := cmd.Process.Pid
	_ = cmd.Process.Release()

	logger.Debug("daemon spawned, waiting for registration", zap.Int("pid", childPID))
	return waitForRegistration(registry, sleep)
}

// waitForRegistration polls the registry until a live entry appears.
func waitForRegistration(registry domain.Registry, sleep func(time.Duration)) (int, error) {
	for i := 0; i < spawnPollAttempts; i++ {
		sleep(spawnPollInterval)
		entry, _ := registry.Read()
		if entry != nil && !registry.IsStale(entry) {
			return entry.PID, nil
		}
	}
	return 0, fmt.Errorf("daemon did not register within %s",
		spawnPollAttempts*spawnPollInterval)
}

func openDaemonLog() (*os.File, error) {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
