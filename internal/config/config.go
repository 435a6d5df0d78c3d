// Package config loads and persists voxd settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"voxd/internal/domain"
)

// Config holds all user-tunable settings. Loaded from a JSON file in the
// config directory; a missing file means defaults.
type Config struct {
	Hotkey              string      `json:"hotkey"`
	Mode                domain.Mode `json:"mode"`
	Engine              string      `json:"engine"`
	EngineEndpoint      string      `json:"engine_endpoint"`
	OutputMode          string      `json:"output_mode"` // "auto", "clipboard", "inject"
	SampleRate          int         `json:"sample_rate"`
	Channels            int         `json:"channels"`
	MaxRecordingSeconds int         `json:"max_recording_seconds"`
	Notifications       bool        `json:"notifications"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Hotkey:              "ctrl+shift+space",
		Mode:                domain.ModePushToTalk,
		Engine:              "whisper",
		EngineEndpoint:      "http://127.0.0.1:8080/inference",
		OutputMode:          "auto",
		SampleRate:          16000,
		Channels:            1,
		MaxRecordingSeconds: 120,
		Notifications:       true,
	}
}

// Dir returns the config directory, honoring VOXD_CONFIG_DIR.
func Dir() string {
	if dir := os.Getenv("VOXD_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "voxd")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// LogPath returns the append-only daemon log file path.
func LogPath() string {
	return filepath.Join(Dir(), "daemon.log")
}

// Load reads the config file, filling gaps with defaults. A missing file is
// not an error; a malformed one is, so a typo never silently reverts the
// user to defaults.
func Load() (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", Path(), err)
	}
	return cfg.normalized(), nil
}

// Save writes the config file, creating the directory if needed.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg.normalized(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0o600)
}

func (c Config) normalized() Config {
	d := Default()
	if c.Hotkey == "" {
		c.Hotkey = d.Hotkey
	}
	if c.Mode != domain.ModeToggle && c.Mode != domain.ModePushToTalk {
		c.Mode = d.Mode
	}
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.EngineEndpoint == "" {
		c.EngineEndpoint = d.EngineEndpoint
	}
	switch c.OutputMode {
	case "auto", "clipboard", "inject":
	default:
		c.OutputMode = d.OutputMode
	}
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	// The capture and WAV encode path is mono end to end; anything else
	// would play back at the wrong speed.
	if c.Channels != 1 {
		c.Channels = d.Channels
	}
	if c.MaxRecordingSeconds < 0 {
		c.MaxRecordingSeconds = d.MaxRecordingSeconds
	}
	return c
}
