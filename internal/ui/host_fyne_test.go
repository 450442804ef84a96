//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests drive FyneHost and the settings form through Fyne's headless
// test app. They are gated behind the "fyne" build tag like the rest of the
// widget tests:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/zalando/go-keyring"

	"dolo/internal/config"
)

func labelContent(string, fyne.Window) (fyne.CanvasObject, error) {
	return widget.NewLabel("settings"), nil
}

func TestFyneHostCreateAndLookup(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	h := NewFyneHost(a, labelContent)

	if _, ok := h.Window(SettingsWindowName); ok {
		t.Fatalf("registry should start empty")
	}
	w, err := h.CreateWindow(SettingsWindowOptions())
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	select {
	case <-w.Ready():
	default:
		t.Fatalf("content attached synchronously; Ready must be closed")
	}
	fw := w.(*fyneWindow)
	if fw.Visible() {
		t.Fatalf("settings window must be created hidden")
	}
	if !fw.Fyne().FixedSize() || fw.Fyne().Title() != "Settings" {
		t.Fatalf("window not configured from options")
	}
	got, ok := h.Window(SettingsWindowName)
	if !ok || got != w {
		t.Fatalf("lookup returned %v, %v", got, ok)
	}
	if err := w.Show(); err != nil || !fw.Visible() {
		t.Fatalf("Show: %v", err)
	}

	if _, err := h.CreateWindow(SettingsWindowOptions()); !errors.Is(err, ErrWindowExists) {
		t.Fatalf("duplicate name: %v", err)
	}
}

func TestFyneHostClosedWindowIsForgotten(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	h := NewFyneHost(a, labelContent)
	w, err := h.CreateWindow(SettingsWindowOptions())
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	w.(*fyneWindow).Fyne().Close()

	if _, ok := h.Window(SettingsWindowName); ok {
		t.Fatalf("closed window still registered")
	}
	if err := w.Show(); !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("Show on closed window: %v", err)
	}

	var buf bytes.Buffer
	NewSettingsController(h, testLogger(&buf)).Show()
	again, ok := h.Window(SettingsWindowName)
	if !ok || again == w {
		t.Fatalf("controller should recreate a closed settings window")
	}
}

func TestFyneHostContentFailure(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	h := NewFyneHost(a, func(string, fyne.Window) (fyne.CanvasObject, error) {
		return nil, errors.New("bundle missing")
	})
	if _, err := h.CreateWindow(SettingsWindowOptions()); err == nil {
		t.Fatalf("expected content error")
	}
	if len(h.Names()) != 0 {
		t.Fatalf("failed window registered: %v", h.Names())
	}
}

func TestFyneHostRejectsBadOptions(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	h := NewFyneHost(a, nil)
	if _, err := h.CreateWindow(WindowOptions{Width: 10, Height: 10}); err == nil {
		t.Fatalf("missing name accepted")
	}
	if _, err := h.CreateWindow(WindowOptions{Name: "x"}); err == nil {
		t.Fatalf("zero size accepted")
	}
}

func TestFyneHostRegisterMainWindow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	h := NewFyneHost(a, nil)
	main := a.NewWindow("Dolo")
	if err := h.Register("main", main); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := h.Register("main", main); !errors.Is(err, ErrWindowExists) {
		t.Fatalf("duplicate register: %v", err)
	}
	h.HideAll()
	h.ShowAll()
	w, _ := h.Window("main")
	if !w.(*fyneWindow).Visible() {
		t.Fatalf("ShowAll should show registered windows")
	}
}

func TestSettingsContentUnknownRoute(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	store := SettingsStore{
		Load: func() (config.AppConfig, string, error) { return config.Defaults(), "", nil },
		Save: func(config.AppConfig, string) error { return nil },
	}
	if _, err := SettingsContent(store)("about", a.NewWindow("x")); err == nil {
		t.Fatalf("unknown route accepted")
	}
}

func TestSettingsFormSave(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	var saved config.AppConfig
	var savedToken string
	store := SettingsStore{
		Load: func() (config.AppConfig, string, error) { return config.Defaults(), "tok", nil },
		Save: func(c config.AppConfig, tok string) error { saved, savedToken = c, tok; return nil },
	}
	f := newSettingsForm(config.Defaults())
	f.onSave = func(c config.AppConfig) error { return store.Save(c, "tok") }

	f.theme.SetSelected("dark")
	f.nsTest.SetChecked(false)
	f.save()

	if saved.General.Theme != "dark" || saved.Nameserver.TestMode || savedToken != "tok" {
		t.Fatalf("saved %#v", saved)
	}
	if saved.Workspace.Root != "" {
		t.Fatalf("default root should be stored empty, got %q", saved.Workspace.Root)
	}
	if f.port.Text != "Port 53" {
		t.Fatalf("port label = %q", f.port.Text)
	}
	if f.status.Text != "Settings saved." {
		t.Fatalf("status = %q", f.status.Text)
	}
}

func TestSettingsFormDoesNotPersistEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigFile, path)
	keyring.MockInit()
	if err := os.WriteFile(path, []byte("general:\n  theme: light\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvTheme, "dark")
	t.Setenv(config.EnvLogFile, "/tmp/dolo-env.log")

	a := test.NewApp()
	defer a.Quit()
	store := DefaultSettingsStore()
	file, tok, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := newSettingsForm(file)
	f.onSave = func(c config.AppConfig) error { return store.Save(c, tok) }

	if !f.theme.Disabled() || f.theme.Selected != "dark" {
		t.Fatalf("env theme should be shown locked, got %q disabled=%v", f.theme.Selected, f.theme.Disabled())
	}
	f.nsHost.SetText("192.0.2.53")
	f.save()
	if f.status.Text != "Settings saved." {
		t.Fatalf("status = %q", f.status.Text)
	}

	saved, _, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if saved.General.Theme != "light" {
		t.Fatalf("env theme persisted: %q", saved.General.Theme)
	}
	if saved.Logging.File != "" {
		t.Fatalf("env log file persisted: %q", saved.Logging.File)
	}
	if saved.Nameserver.Host != "192.0.2.53" || !saved.Nameserver.TestMode {
		t.Fatalf("nameserver not saved from form: %#v", saved.Nameserver)
	}
}
