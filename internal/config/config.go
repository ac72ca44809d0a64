// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default values.
const (
	DefaultFile  = "~/.todo/tasks.json"
	DefaultColor = ColorAuto
)

// Config holds the full configuration for todo.
type Config struct {
	// File is the path of the JSON task store.
	File string `toml:"file"`

	// Color controls ANSI color output: auto, always, or never.
	Color string `toml:"color"`

	// Log enables the append-only command log.
	Log bool `toml:"log"`

	// LogFile overrides the log path. Defaults to todo.log next to the
	// task store.
	LogFile string `toml:"log_file"`
}

func setDefaults(cfg *Config) {
	cfg.File = DefaultFile
	cfg.Color = DefaultColor
	cfg.Log = false
	cfg.LogFile = ""
}

// finalizeConfig expands paths and validates enumerated values.
func finalizeConfig(cfg *Config) error {
	expanded, err := expandHome(cfg.File)
	if err != nil {
		return fmt.Errorf("resolving task file path: %w", err)
	}
	cfg.File = expanded

	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q, must be one of: auto, always, never", cfg.Color)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.File), "todo.log")
	} else {
		expanded, err := expandHome(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("resolving log file path: %w", err)
		}
		cfg.LogFile = expanded
	}

	return nil
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
