package infra

import (
	"os"
	"testing"
)

func TestProcessManager_IsRunning_Self(t *testing.T) {
	pm := NewProcessManager()

	if !pm.IsRunning(os.Getpid()) {
		t.Error("current process should be running")
	}
}

func TestProcessManager_IsRunning_InvalidPID(t *testing.T) {
	pm := NewProcessManager()

	for _, pid := range []int{0, -1, -99} {
		if pm.IsRunning(pid) {
			t.Errorf("pid %d should not be running", pid)
		}
	}
}

func TestProcessManager_Cmdline_Self(t *testing.T) {
	pm := NewProcessManager()

	cmdline, err := pm.Cmdline(os.Getpid())
	if err != nil {
		t.Fatalf("failed to read own cmdline: %v", err)
	}
	if cmdline == "" {
		t.Error("own cmdline should not be empty")
	}
}

func TestProcessManager_Cmdline_InvalidPID(t *testing.T) {
	pm := NewProcessManager()

	if _, err := pm.Cmdline(-1); err == nil {
		t.Error("expected error for invalid pid")
	}
}

func TestProcessManager_CurrentPID(t *testing.T) {
	pm := NewProcessManager()

	if pm.CurrentPID() != os.Getpid() {
		t.Errorf("expected %d, got %d", os.Getpid(), pm.CurrentPID())
	}
}
