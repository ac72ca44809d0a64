package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (<user config dir>/todo/todo.toml)
// 3. Project config file (.todo.toml in the current directory)
// 4. Environment variables (TODO_FILE, TODO_COLOR, TODO_LOG, TODO_LOG_FILE)
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, err
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func findUserConfigFile() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(configDir, "todo", "todo.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	path := filepath.Join(wd, ".todo.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODO_COLOR"); v != "" {
		cfg.Color = strings.ToLower(v)
	}
	if v := os.Getenv("TODO_LOG"); v != "" {
		cfg.Log = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.File, "file", cfg.File, "Path of the task store file")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Color output (auto|always|never)")
	noColor := fs.Bool("no-color", false, "Disable color output")
	fs.BoolVar(&cfg.Log, "log", cfg.Log, "Append executed commands to the command log")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *noColor {
		cfg.Color = ColorNever
	}

	return nil
}
