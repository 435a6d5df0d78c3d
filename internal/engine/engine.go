// Package engine provides speech-to-text backends.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"voxd/internal/config"
	"voxd/internal/domain"
)

// Build returns the engine named in the config.
// An unknown engine name is a configuration error.
func Build(cfg config.Config, logger *zap.Logger) (domain.Engine, error) {
	switch cfg.Engine {
	case "whisper":
		return NewWhisper(cfg.EngineEndpoint, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}
