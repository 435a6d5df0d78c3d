package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxd/internal/domain"
)

func TestDir_HonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VOXD_CONFIG_DIR", dir)

	assert.Equal(t, dir, Dir())
	assert.Equal(t, filepath.Join(dir, "config.json"), Path())
	assert.Equal(t, filepath.Join(dir, "daemon.log"), LogPath())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("VOXD_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "ctrl+shift+space", cfg.Hotkey)
	assert.Equal(t, domain.ModePushToTalk, cfg.Mode)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VOXD_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(Path(), []byte("{not json"), 0o600))

	_, err := Load()
	assert.Error(t, err, "a typo must not silently revert to defaults")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("VOXD_CONFIG_DIR", filepath.Join(t.TempDir(), "voxd"))

	cfg := Default()
	cfg.Hotkey = "ctrl+alt+r"
	cfg.Mode = domain.ModeToggle
	cfg.SampleRate = 48000
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ctrl+alt+r", loaded.Hotkey)
	assert.Equal(t, domain.ModeToggle, loaded.Mode)
	assert.Equal(t, 48000, loaded.SampleRate)
}

func TestLoad_PartialFileFillsGapsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VOXD_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(Path(), []byte(`{"hotkey": "ctrl+r"}`), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ctrl+r", cfg.Hotkey)
	assert.Equal(t, Default().Engine, cfg.Engine)
	assert.Equal(t, Default().SampleRate, cfg.SampleRate)
}

func TestNormalized_RejectsBadValues(t *testing.T) {
	cfg := Config{
		Mode:       "sideways",
		OutputMode: "telepathy",
		SampleRate: -1,
		Channels:   0,
	}
	n := cfg.normalized()
	assert.Equal(t, Default().Mode, n.Mode)
	assert.Equal(t, Default().OutputMode, n.OutputMode)
	assert.Equal(t, Default().SampleRate, n.SampleRate)
	assert.Equal(t, Default().Channels, n.Channels)
}

func TestNormalized_ClampsChannelsToMono(t *testing.T) {
	// The recording pipeline encodes mono WAV; a stereo channel count would
	// halve the effective sample rate at the engine.
	cfg := Default()
	cfg.Channels = 2
	assert.Equal(t, 1, cfg.normalized().Channels)
}
