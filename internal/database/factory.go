package database

import (
	"fmt"
	"path/filepath"

	"sft-go/internal/config"
	"sft-go/internal/sft"
)

// NewRegistryFromConfig creates a Registry implementation based on the
// database config type.
func NewRegistryFromConfig(cfg config.DatabaseConfig) (sft.Registry, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return NewRegistryDatabase(filepath.Join(cfg.DataDir, "sft.db"))
	case "memory":
		return NewRegistryDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
