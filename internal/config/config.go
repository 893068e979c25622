// Package config provides configuration management for nsoview.
// Configuration is read from an optional YAML file and may be overridden by
// environment variables and command-line flags in main.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GameListConfig controls how the fetched play histories are reshaped before
// they are printed.
type GameListConfig struct {
	// Device filters the list to one device family: "switch", "3ds" or "all".
	Device string `yaml:"device"`

	// Top truncates the sorted list to the first N titles. Zero keeps all.
	Top int `yaml:"top"`
}

// Config represents the application configuration loaded from a YAML file.
type Config struct {
	// AuthDir is the directory where session-token files are stored.
	AuthDir string `yaml:"auth-dir"`

	// ProxyURL routes all outbound HTTP through a socks5/http/https proxy.
	ProxyURL string `yaml:"proxy-url"`

	// AccountFamily selects the client application the login flow impersonates:
	// "game-server" or "my-account". The two are not interchangeable.
	AccountFamily string `yaml:"account-family"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`

	// LoggingToFile redirects logs from stdout to rotating files in AuthDir.
	LoggingToFile bool `yaml:"logging-to-file"`

	// GameList holds the list reshaping options.
	GameList GameListConfig `yaml:"game-list"`
}

// DefaultAuthDir is used when the config file does not set auth-dir.
const DefaultAuthDir = "~/.nsoview"

// LoadConfig reads a YAML configuration file from the given path. A missing
// file is not an error; defaults are returned instead so the CLI works with
// zero configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		AuthDir:       DefaultAuthDir,
		AccountFamily: "my-account",
		GameList:      GameListConfig{Device: "all"},
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.AuthDir == "" {
		cfg.AuthDir = DefaultAuthDir
	}
	if cfg.AccountFamily == "" {
		cfg.AccountFamily = "my-account"
	}
	if cfg.GameList.Device == "" {
		cfg.GameList.Device = "all"
	}
	if cfg.GameList.Top < 0 {
		cfg.GameList.Top = 0
	}
	return cfg, nil
}

// ResolveAuthDir expands a leading "~" in the auth directory path to the
// current user's home directory.
func ResolveAuthDir(dir string) (string, error) {
	if len(dir) >= 2 && dir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, dir[2:]), nil
	}
	return dir, nil
}
