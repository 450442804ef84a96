/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"dolo/internal/config"
	"dolo/internal/zone"
)

// RouteIndex is the entry point of the application content.
const RouteIndex = "index"

var (
	themeChoices = []string{"system", "light", "dark"}
	levelChoices = []string{"debug", "info", "warn", "error"}
)

// SettingsStore loads and persists the user configuration. Load must return
// the file configuration without environment overrides.
type SettingsStore struct {
	Load func() (config.AppConfig, string, error)
	Save func(cfg config.AppConfig, token string) error
}

// DefaultSettingsStore reads and writes the per-user config file.
func DefaultSettingsStore() SettingsStore {
	return SettingsStore{Load: config.LoadFile, Save: config.Save}
}

// SettingsContent returns a ContentFactory serving RouteIndex with the
// settings form backed by store.
func SettingsContent(store SettingsStore) ContentFactory {
	return func(route string, w fyne.Window) (fyne.CanvasObject, error) {
		if route != RouteIndex {
			return nil, fmt.Errorf("unknown route %q", route)
		}
		cfg, token, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		f := newSettingsForm(cfg)
		f.onSave = func(next config.AppConfig) error {
			if err := store.Save(next, token); err != nil {
				logger().Error("save settings failed", slog.Any("err", err))
				return err
			}
			logger().Info("settings saved")
			return nil
		}
		return f.content(), nil
	}
}

// settingsForm holds the widgets of the settings window. Fields overridden
// by environment variables show the effective value but are disabled.
type settingsForm struct {
	base config.AppConfig // file values; what save writes back

	theme     *widget.Select
	telemetry *widget.Check
	root      *widget.Entry
	nsHost    *widget.Entry
	nsTest    *widget.Check
	port      *widget.Label
	logLevel  *widget.Select
	status    *widget.Label

	onSave func(config.AppConfig) error
}

func newSettingsForm(file config.AppConfig) *settingsForm {
	f := &settingsForm{base: file}
	cfg := config.WithEnv(file)

	f.theme = widget.NewSelect(themeChoices, nil)
	f.theme.SetSelected(choiceOr(themeChoices, cfg.General.Theme, "system"))
	f.telemetry = widget.NewCheck("Send anonymous usage data", nil)
	f.telemetry.SetChecked(cfg.General.TelemetryOptIn)

	f.root = widget.NewEntry()
	f.root.SetText(cfg.WorkspaceRoot())

	f.nsHost = widget.NewEntry()
	f.nsHost.SetText(cfg.Nameserver.Host)
	f.port = widget.NewLabel("")
	f.nsTest = widget.NewCheck("Test mode", func(on bool) { f.port.SetText(portText(on)) })
	f.nsTest.SetChecked(cfg.Nameserver.TestMode)
	f.port.SetText(portText(cfg.Nameserver.TestMode))

	f.logLevel = widget.NewSelect(levelChoices, nil)
	f.logLevel.SetSelected(choiceOr(levelChoices, cfg.Logging.Level, "info"))

	f.status = widget.NewLabel("")

	lock := func(key string, w fyne.Disableable) {
		if env, ok := config.EnvOverrideFor(key); ok {
			w.Disable()
			f.status.SetText("Some fields are set by " + env + " and cannot be changed here.")
		}
	}
	lock("general.theme", f.theme)
	lock("general.telemetry_opt_in", f.telemetry)
	lock("workspace.root", f.root)
	lock("nameserver.host", f.nsHost)
	lock("nameserver.test_mode", f.nsTest)
	lock("logging.level", f.logLevel)
	return f
}

func portText(test bool) string {
	return fmt.Sprintf("Port %d", zone.NameserverPort(test))
}

func choiceOr(choices []string, v, fallback string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, c := range choices {
		if c == v {
			return c
		}
	}
	return fallback
}

// values returns the base configuration with the form values applied.
// Locked fields keep their file values so env overrides are never persisted.
func (f *settingsForm) values() config.AppConfig {
	out := f.base
	if !f.theme.Disabled() {
		out.General.Theme = f.theme.Selected
	}
	if !f.telemetry.Disabled() {
		out.General.TelemetryOptIn = f.telemetry.Checked
	}
	if !f.root.Disabled() {
		root := strings.TrimSpace(f.root.Text)
		if root == config.DefaultWorkspaceRoot() {
			root = ""
		}
		out.Workspace.Root = root
	}
	if !f.nsHost.Disabled() {
		out.Nameserver.Host = strings.TrimSpace(f.nsHost.Text)
	}
	if !f.nsTest.Disabled() {
		out.Nameserver.TestMode = f.nsTest.Checked
	}
	if !f.logLevel.Disabled() {
		out.Logging.Level = f.logLevel.Selected
	}
	return out
}

func (f *settingsForm) save() {
	next := f.values()
	if next.Nameserver.Host == "" {
		f.status.SetText("Nameserver host is required.")
		return
	}
	if f.onSave == nil {
		return
	}
	if err := f.onSave(next); err != nil {
		f.status.SetText("Could not save settings: " + err.Error())
		return
	}
	f.base = next
	f.status.SetText("Settings saved.")
}

func (f *settingsForm) content() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Theme", f.theme),
		widget.NewFormItem("Telemetry", f.telemetry),
		widget.NewFormItem("Workspace", f.root),
		widget.NewFormItem("Nameserver", f.nsHost),
		widget.NewFormItem("", container.NewHBox(f.nsTest, f.port)),
		widget.NewFormItem("Log Level", f.logLevel),
	)
	saveBtn := widget.NewButton("Save", f.save)
	saveBtn.Importance = widget.HighImportance
	return container.NewBorder(nil, container.NewBorder(nil, nil, nil, saveBtn, f.status), nil, nil, form)
}
