package daemon

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxd/internal/domain"
)

func TestBinaryPath_EnvOverride(t *testing.T) {
	t.Setenv("VOXD_ROOT", "/opt/voxd")

	path, err := binaryPath()
	require.NoError(t, err)

	name := "voxd"
	if runtime.GOOS == "windows" {
		name = "voxd.exe"
	}
	assert.Equal(t, filepath.Join("/opt/voxd", name), path)
}

func TestBinaryPath_DefaultsToExecutable(t *testing.T) {
	t.Setenv("VOXD_ROOT", "")

	path, err := binaryPath()
	require.NoError(t, err)
	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, exe, path)
}

func TestWaitForRegistration_ChildShowsUp(t *testing.T) {
	reg := &fakeRegistry{}
	polls := 0
	sleep := func(time.Duration) {
		polls++
		if polls == 3 {
			require.NoError(t, reg.Write(31337))
		}
	}

	pid, err := waitForRegistration(reg, sleep)
	require.NoError(t, err)
	assert.Equal(t, 31337, pid)
	assert.Equal(t, 3, polls, "poll stops as soon as the child registers")
}

func TestWaitForRegistration_Timeout(t *testing.T) {
	reg := &fakeRegistry{}
	polls := 0

	_, err := waitForRegistration(reg, func(time.Duration) { polls++ })
	require.Error(t, err)
	assert.Equal(t, spawnPollAttempts, polls, "full poll budget before giving up")
}

func TestWaitForRegistration_StaleEntryDoesNotCount(t *testing.T) {
	reg := &fakeRegistry{
		entry: &domain.RegistryEntry{PID: 9},
		stale: true,
	}

	_, err := waitForRegistration(reg, func(time.Duration) {})
	assert.Error(t, err, "a leftover entry from a dead daemon is not a registration")
}
