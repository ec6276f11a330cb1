// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for Infrakeep. It uses Viper for file/env/flag parsing and
// exposes utility functions to read and write the configuration file,
// which doubles as the persisted user-preference document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/infrakeep/infrakeep/internal/model"
)

// Config is the top-level configuration document.
type Config struct {
	// DataDir is the root of the knowledge base's on-disk layout.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// Language selects the CLI locale.
	Language string `mapstructure:"language" yaml:"language"`
	// Preferences is the flat user-preference record.
	Preferences model.Preferences `mapstructure:"preferences" yaml:"preferences"`
}

// DefaultDataDir returns the per-user knowledge base directory.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(configDir, "infrakeep", "knowledge"), nil
}

// Defaults returns the viper default map used when no config file exists.
func Defaults() map[string]any {
	prefs := model.DefaultPreferences()
	return map[string]any{
		"language":                              "en",
		"preferences.auto_inject_context":       prefs.AutoInjectContext,
		"preferences.show_ssh_suggestions":      prefs.ShowSSHSuggestions,
		"preferences.default_terminal":          string(prefs.DefaultTerminal),
		"preferences.confirm_ssh_commands":      prefs.ConfirmSSHCommands,
		"preferences.auto_discover_credentials": prefs.AutoDiscoverCredentials,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Infrakeep")
		default: // Linux, macOS, etc.
			configDir = "/etc/infrakeep"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "infrakeep")
	}

	return filepath.Join(configDir, "infrakeep.yaml"), nil
}

// LoadConfig reads configuration from the standard locations, an
// explicit --config path, environment variables (INFRAKEEP_ prefix) and
// bound command flags, in ascending precedence. The second return value
// reports whether a config file was found; when false the returned
// config is built purely from defaults, env and flags, and callers may
// want to persist it as the first-run file.
func LoadConfig(cmd *cobra.Command, defaults map[string]any, explicitPath *string) (Config, bool, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("infrakeep")
	v.SetConfigType("yaml")

	if explicitPath != nil && *explicitPath != "" {
		v.SetConfigFile(*explicitPath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	fromFile := true
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine on first run; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, false, err
		}
		fromFile = false
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("infrakeep")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, false, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, false, err
	}

	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return c, false, err
		}
		c.DataDir = dir
	}
	return c, fromFile, nil
}

// WriteConfigFile persists the configuration (including preferences) to
// the user or system config location.
func WriteConfigFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file can hold a password hint.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	return nil
}
