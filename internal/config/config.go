/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
	// Telemetry token is not stored on disk; it lives in the OS keychain.
}

type WorkspaceConfig struct {
	// Root holds one directory per domain; empty means <Documents>/Dolo.
	Root string `yaml:"root"`
}

type NameserverConfig struct {
	Host     string `yaml:"host"`
	TestMode bool   `yaml:"test_mode"` // bind the unprivileged test port
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       GeneralConfig    `yaml:"general"`
	Workspace     WorkspaceConfig  `yaml:"workspace"`
	Nameserver    NameserverConfig `yaml:"nameserver"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Workspace:     WorkspaceConfig{Root: ""},
		Nameserver:    NameserverConfig{Host: "127.0.0.1", TestMode: true},
		Logging:       LoggingConfig{Level: "info", Format: "diag", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile     = "DOLO_CONFIG"
	EnvWorkspaceRoot  = "DOLO_WORKSPACE"
	EnvNameserverHost = "DOLO_NS_HOST"
	EnvNameserverTest = "DOLO_NS_TEST"
	EnvTelemetryOptIn = "DOLO_TELEMETRY_OPT_IN"
	EnvTheme          = "DOLO_THEME"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "DOLO_LOG_LEVEL"
	EnvLogFormat = "DOLO_LOG_FORMAT"
	EnvLogSource = "DOLO_LOG_SOURCE"
	EnvLogFile   = "DOLO_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigFile)); v != "" {
		return v, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Dolo")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Dolo")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "dolo")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DefaultWorkspaceRoot returns <home>/Documents/Dolo.
func DefaultWorkspaceRoot() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "Dolo")
	}
	return filepath.Join(home, "Documents", "Dolo")
}

// WorkspaceRoot returns the configured root or the default one.
func (c AppConfig) WorkspaceRoot() string {
	if r := strings.TrimSpace(c.Workspace.Root); r != "" {
		return r
	}
	return DefaultWorkspaceRoot()
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the telemetry token from the keyring (returned separately).
func Load() (AppConfig, string, error) {
	cfg, tok, err := LoadFile()
	applyEnvOverrides(&cfg)
	return cfg, tok, err
}

// LoadFile is Load without environment overrides: defaults merged with the
// user config file. Callers that write the config back start from this.
func LoadFile() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		if fileCfg, set, err := decodeFile(data); err == nil {
			mergeInto(&cfg, &fileCfg, set)
		}
	}
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// WithEnv returns cfg with the environment overrides applied.
func WithEnv(cfg AppConfig) AppConfig {
	applyEnvOverrides(&cfg)
	return cfg
}

// fileBools records which boolean keys a config file sets; a missing key
// keeps the default instead of decoding as false.
type fileBools struct {
	General struct {
		TelemetryOptIn *bool `yaml:"telemetry_opt_in"`
	} `yaml:"general"`
	Nameserver struct {
		TestMode *bool `yaml:"test_mode"`
	} `yaml:"nameserver"`
	Logging struct {
		Source *bool `yaml:"source"`
	} `yaml:"logging"`
}

func decodeFile(data []byte) (AppConfig, fileBools, error) {
	var cfg AppConfig
	var set fileBools
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, set, err
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return cfg, set, err
	}
	return cfg, set, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig, set fileBools) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if set.General.TelemetryOptIn != nil {
		dst.General.TelemetryOptIn = *set.General.TelemetryOptIn
	}
	if r := strings.TrimSpace(src.Workspace.Root); r != "" {
		dst.Workspace.Root = r
	}
	if h := strings.TrimSpace(src.Nameserver.Host); h != "" {
		dst.Nameserver.Host = h
	}
	if set.Nameserver.TestMode != nil {
		dst.Nameserver.TestMode = *set.Nameserver.TestMode
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if set.Logging.Source != nil {
		dst.Logging.Source = *set.Logging.Source
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvWorkspaceRoot)); v != "" {
		cfg.Workspace.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNameserverHost)); v != "" {
		cfg.Nameserver.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNameserverTest)); v != "" {
		cfg.Nameserver.TestMode = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
// The settings window uses it to lock fields it cannot persist.
func EnvOverrideFor(key string) (string, bool) {
	var name string
	switch key {
	case "workspace.root":
		name = EnvWorkspaceRoot
	case "nameserver.host":
		name = EnvNameserverHost
	case "nameserver.test_mode":
		name = EnvNameserverTest
	case "general.telemetry_opt_in":
		name = EnvTelemetryOptIn
	case "general.theme":
		name = EnvTheme
	case "logging.level":
		name = EnvLogLevel
	case "logging.format":
		name = EnvLogFormat
	case "logging.source":
		name = EnvLogSource
	case "logging.file":
		name = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}
