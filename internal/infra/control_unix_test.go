//go:build !windows

package infra

import (
	"os"
	"testing"
)

func TestSignalController_Exists_Self(t *testing.T) {
	c := NewController()

	if !c.Exists(os.Getpid()) {
		t.Error("current process should exist")
	}
}

func TestSignalController_Exists_InvalidPID(t *testing.T) {
	c := NewController()

	for _, pid := range []int{0, -1} {
		if c.Exists(pid) {
			t.Errorf("pid %d should not exist", pid)
		}
	}
}

func TestSignalController_InvalidPIDRejected(t *testing.T) {
	c := NewController()

	if err := c.Terminate(0); err == nil {
		t.Error("expected error signaling pid 0")
	}
	if err := c.Kill(-1); err == nil {
		t.Error("expected error signaling pid -1")
	}
}
