// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/infrakeep/infrakeep/internal/config"
	"github.com/infrakeep/infrakeep/internal/model"
)

func isolateConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfigHome(t)

	c, fromFile, err := config.LoadConfig(nil, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if fromFile {
		t.Error("no config file exists, but LoadConfig reported one")
	}
	if c.Language != "en" {
		t.Errorf("Language = %q, want en", c.Language)
	}
	if c.DataDir == "" {
		t.Error("DataDir not defaulted")
	}
	defaults := model.DefaultPreferences()
	if c.Preferences.AutoInjectContext != defaults.AutoInjectContext ||
		c.Preferences.DefaultTerminal != defaults.DefaultTerminal {
		t.Errorf("Preferences = %+v, want defaults", c.Preferences)
	}
}

func TestLoadConfigFromExplicitPath(t *testing.T) {
	isolateConfigHome(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "data_dir: /srv/infrakeep\n" +
		"language: de\n" +
		"preferences:\n" +
		"  auto_inject_context: false\n" +
		"  password_hint: usual one\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, fromFile, err := config.LoadConfig(nil, config.Defaults(), &path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !fromFile {
		t.Error("explicit config file was read, but LoadConfig reported none")
	}
	if c.DataDir != "/srv/infrakeep" || c.Language != "de" {
		t.Errorf("loaded = %+v", c)
	}
	if c.Preferences.AutoInjectContext {
		t.Error("file value did not override the preference default")
	}
	if c.Preferences.PasswordHint != "usual one" {
		t.Errorf("PasswordHint = %q", c.Preferences.PasswordHint)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	isolateConfigHome(t)
	t.Setenv("INFRAKEEP_LANGUAGE", "fr")

	c, _, err := config.LoadConfig(nil, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Language != "fr" {
		t.Errorf("Language = %q, want env override fr", c.Language)
	}
}

func TestWriteConfigFileRoundTrip(t *testing.T) {
	home := isolateConfigHome(t)

	c := &config.Config{
		DataDir:  "/srv/kb",
		Language: "en",
		Preferences: model.Preferences{
			AutoInjectContext: true,
			DefaultTerminal:   model.TerminalIntegrated,
			PasswordHint:      "usual one",
		},
	}
	if err := config.WriteConfigFile(c, false); err != nil {
		t.Fatalf("WriteConfigFile: %v", err)
	}

	path := filepath.Join(home, "infrakeep", "infrakeep.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(raw), "data_dir: /srv/kb") {
		t.Errorf("unexpected config content:\n%s", raw)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	loaded, fromFile, err := config.LoadConfig(nil, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig after write: %v", err)
	}
	if !fromFile {
		t.Error("written config file was not picked up on reload")
	}
	if loaded.DataDir != "/srv/kb" || loaded.Preferences.PasswordHint != "usual one" {
		t.Errorf("round trip = %+v", loaded)
	}
}
