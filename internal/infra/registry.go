package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxd/internal/domain"
)

// FileRegistry implements domain.Registry using a single JSON record on disk.
// The file doubles as the daemon PID file; for backward compatibility a file
// holding a bare decimal PID is also accepted.
type FileRegistry struct {
	path           string
	processManager domain.ProcessManager
	logger         *zap.Logger
}

// NewFileRegistry creates a registry rooted in the given config directory.
func NewFileRegistry(configDir string, pm domain.ProcessManager, logger *zap.Logger) *FileRegistry {
	return &FileRegistry{
		path:           filepath.Join(configDir, "daemon.pid"),
		processManager: pm,
		logger:         logger,
	}
}

// NewFileRegistryWithPath creates a registry at a specific path (for testing).
func NewFileRegistryWithPath(path string, pm domain.ProcessManager, logger *zap.Logger) *FileRegistry {
	return &FileRegistry{path: path, processManager: pm, logger: logger}
}

// Path returns the registry file path.
func (r *FileRegistry) Path() string {
	return r.path
}

// Write persists a RegistryEntry for pid atomically (temp file + rename),
// so no reader ever observes a half-written record.
func (r *FileRegistry) Write(pid int) error {
	entry := domain.RegistryEntry{
		PID:       pid,
		Command:   strings.Join(os.Args, " "),
		CreatedAt: float64(time.Now().Unix()),
		ConfigDir: filepath.Dir(r.path),
	}

	data, err := json.Marshal(&entry)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	// Temp file is unique per process to avoid a race between writers.
	tmpPath := fmt.Sprintf("%s.%d.tmp", r.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Read returns the current entry, or nil when no daemon is registered.
// A missing, empty, or corrupt file reads as nil: registry races are
// tolerated, never surfaced as errors.
func (r *FileRegistry) Read() (*domain.RegistryEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, nil
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, nil
	}

	var entry domain.RegistryEntry
	if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.PID != 0 {
		return &entry, nil
	}

	// Legacy format: a bare decimal PID.
	if pid, err := strconv.Atoi(raw); err == nil {
		return &domain.RegistryEntry{PID: pid}, nil
	}

	r.logger.Debug("unreadable registry file treated as absent",
		zap.String("path", r.path))
	return nil, nil
}

// Delete removes the registry file. Idempotent, best effort.
func (r *FileRegistry) Delete() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		r.logger.Debug("registry delete failed", zap.Error(err))
	}
	return nil
}

// IsStale reports whether entry points at a process that is gone or is not
// this program. When the command line cannot be inspected the process is
// assumed valid: killing a same-PID foreign process would be worse than
// leaving a stale entry behind.
func (r *FileRegistry) IsStale(entry *domain.RegistryEntry) bool {
	if entry == nil || entry.PID <= 0 {
		return true
	}
	if !r.processManager.IsRunning(entry.PID) {
		return true
	}
	cmdline, err := r.processManager.Cmdline(entry.PID)
	if err != nil {
		return false
	}
	if !strings.Contains(cmdline, domain.IdentityToken) {
		r.logger.Warn("registry entry points at a foreign process",
			zap.Int("pid", entry.PID),
			zap.String("cmdline", cmdline))
		return true
	}
	return false
}

// Ensure FileRegistry implements domain.Registry.
var _ domain.Registry = (*FileRegistry)(nil)
