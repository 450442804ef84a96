/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"errors"
	"log/slog"
	"time"

	applog "dolo/internal/log"
)

// SettingsWindowName is the reserved registry name of the settings window.
// Any window registered under it must use SettingsWindowOptions.
const SettingsWindowName = "settings"

// SettingsReadyTimeout bounds the wait for the settings content before showing.
const SettingsReadyTimeout = 2 * time.Second

// ErrWindowClosed is returned by Show on a window the user already closed.
var ErrWindowClosed = errors.New("window closed")

// WindowOptions describes a window to create.
type WindowOptions struct {
	Name        string
	Title       string
	Route       string // content entry point, resolved by the host
	Width       float32
	Height      float32
	Resizable   bool
	Minimizable bool
	Visible     bool // false: created hidden and shown by the caller
}

// SettingsWindowOptions is the fixed configuration of the settings window.
func SettingsWindowOptions() WindowOptions {
	return WindowOptions{
		Name:        SettingsWindowName,
		Title:       "Settings",
		Route:       RouteIndex,
		Width:       800,
		Height:      350,
		Resizable:   false,
		Minimizable: false,
		Visible:     false,
	}
}

// Window is a window owned by the host runtime.
type Window interface {
	Show() error
	// Ready is closed once the window content finished loading.
	Ready() <-chan struct{}
}

// WindowHost is the host runtime's window registry. Implementations serialize
// registry access themselves.
type WindowHost interface {
	Window(name string) (Window, bool)
	CreateWindow(opts WindowOptions) (Window, error)
}

// EventSink receives anonymous usage events; telemetry.Event satisfies it.
type EventSink func(name string, props map[string]any)

// SettingsController shows the settings window, creating it on first use.
type SettingsController struct {
	host         WindowHost
	log          *slog.Logger
	readyTimeout time.Duration
	events       EventSink
}

// SettingsOption customizes a SettingsController.
type SettingsOption func(*SettingsController)

// WithLogger routes diagnostics to l instead of the ui component logger.
func WithLogger(l *slog.Logger) SettingsOption {
	return func(c *SettingsController) { c.log = l }
}

// WithReadyTimeout overrides SettingsReadyTimeout.
func WithReadyTimeout(d time.Duration) SettingsOption {
	return func(c *SettingsController) { c.readyTimeout = d }
}

// WithEvents reports settings_window_shown events to sink.
func WithEvents(sink EventSink) SettingsOption {
	return func(c *SettingsController) { c.events = sink }
}

// NewSettingsController binds a controller to host.
func NewSettingsController(host WindowHost, opts ...SettingsOption) *SettingsController {
	c := &SettingsController{host: host, readyTimeout: SettingsReadyTimeout}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logger()
	}
	return c
}

// Show makes the settings window visible. An existing window is reused; a
// missing one is created hidden, given time to load its content and then
// shown. Failures are logged once and end the call; nothing is retried.
func (c *SettingsController) Show() {
	l := applog.WithOperation(c.log, "show_settings")

	if w, ok := c.host.Window(SettingsWindowName); ok {
		if err := w.Show(); err != nil {
			l.Error("error showing settings window", slog.Any("err", err))
			return
		}
		c.emit(false)
		return
	}

	l.Info("settings window not found, creating a new one")
	w, err := c.host.CreateWindow(SettingsWindowOptions())
	if err != nil {
		l.Error("failed to create settings window", slog.Any("err", err))
		return
	}

	if !c.awaitReady(w) {
		l.Info("settings content not ready, showing anyway", slog.Duration("waited", c.readyTimeout))
	}
	if err := w.Show(); err != nil {
		l.Error("error showing new settings window", slog.Any("err", err))
		return
	}
	c.emit(true)
}

func (c *SettingsController) awaitReady(w Window) bool {
	ready := w.Ready()
	if ready == nil {
		return true
	}
	select {
	case <-ready:
		return true
	default:
	}
	if c.readyTimeout <= 0 {
		return false
	}
	t := time.NewTimer(c.readyTimeout)
	defer t.Stop()
	select {
	case <-ready:
		return true
	case <-t.C:
		return false
	}
}

func (c *SettingsController) emit(created bool) {
	if c.events != nil {
		c.events("settings_window_shown", map[string]any{"created": created})
	}
}

func logger() *slog.Logger { return applog.WithComponent("ui") }
