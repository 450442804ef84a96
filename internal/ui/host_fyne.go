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
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
)

// ErrWindowExists is returned when creating a window under a name already in use.
var ErrWindowExists = errors.New("window name already registered")

// ContentFactory builds the content for a route. It runs before the window is
// shown; an error aborts window creation.
type ContentFactory func(route string, w fyne.Window) (fyne.CanvasObject, error)

// FyneHost is a WindowHost backed by a fyne.App. Fyne windows carry no name,
// so the host keeps its own registry; closing a window removes its entry.
type FyneHost struct {
	app     fyne.App
	content ContentFactory

	mu      sync.Mutex
	windows map[string]*fyneWindow
	active  string // last window shown
}

// NewFyneHost returns a host creating windows in a and filling them via content.
func NewFyneHost(a fyne.App, content ContentFactory) *FyneHost {
	return &FyneHost{app: a, content: content, windows: map[string]*fyneWindow{}}
}

// Window looks up a registered window.
func (h *FyneHost) Window(name string) (Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[name]
	if !ok {
		return nil, false
	}
	return w, true
}

// Register adds a window created elsewhere (the main window) under name.
func (h *FyneHost) Register(name string, w fyne.Window) error {
	fw := newFyneWindow(w, WindowOptions{Name: name, Title: w.Title(), Resizable: !w.FixedSize(), Minimizable: true, Visible: true})
	fw.visible = true
	close(fw.ready)
	if err := h.add(name, fw); err != nil {
		return err
	}
	h.watch(name, fw)
	return nil
}

// CreateWindow builds a window from opts. Content is attached before the
// window is returned, so Ready is already closed on success.
func (h *FyneHost) CreateWindow(opts WindowOptions) (Window, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, errors.New("window name is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("window %q: invalid size %vx%v", opts.Name, opts.Width, opts.Height)
	}
	if _, ok := h.Window(opts.Name); ok {
		return nil, fmt.Errorf("window %q: %w", opts.Name, ErrWindowExists)
	}

	w := h.app.NewWindow(opts.Title)
	w.Resize(fyne.NewSize(opts.Width, opts.Height))
	w.SetFixedSize(!opts.Resizable)
	// Fyne has no minimize toggle; Minimizable stays recorded in Options.

	if h.content != nil {
		obj, err := h.content(opts.Route, w)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("window %q: load %s: %w", opts.Name, opts.Route, err)
		}
		w.SetContent(obj)
		// SetContent may grow the window to the content's MinSize
		w.Resize(fyne.NewSize(opts.Width, opts.Height))
	}

	fw := newFyneWindow(w, opts)
	close(fw.ready)
	if err := h.add(opts.Name, fw); err != nil {
		w.Close()
		return nil, err
	}
	h.watch(opts.Name, fw)

	if opts.Visible {
		if err := fw.Show(); err != nil {
			return nil, err
		}
	}
	return fw, nil
}

// Names lists the registered window names.
func (h *FyneHost) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.windows))
	for n := range h.windows {
		out = append(out, n)
	}
	return out
}

// HideAll hides every registered window.
func (h *FyneHost) HideAll() {
	for _, w := range h.snapshot() {
		w.hide()
	}
}

// ShowAll shows every registered window.
func (h *FyneHost) ShowAll() {
	for _, w := range h.snapshot() {
		_ = w.Show()
	}
}

func (h *FyneHost) snapshot() []*fyneWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*fyneWindow, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	return out
}

func (h *FyneHost) add(name string, fw *fyneWindow) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.windows[name]; ok {
		return fmt.Errorf("window %q: %w", name, ErrWindowExists)
	}
	h.windows[name] = fw
	fw.onShow = func() { h.setActive(name) }
	if fw.visible {
		h.active = name
	}
	return nil
}

func (h *FyneHost) setActive(name string) {
	h.mu.Lock()
	h.active = name
	h.mu.Unlock()
}

// Active returns the window shown most recently that is still open.
func (h *FyneHost) Active() (fyne.Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fw, ok := h.windows[h.active]; ok {
		return fw.w, true
	}
	return nil, false
}

func (h *FyneHost) watch(name string, fw *fyneWindow) {
	fw.w.SetOnClosed(func() {
		fw.markClosed()
		h.mu.Lock()
		if h.windows[name] == fw {
			delete(h.windows, name)
		}
		if h.active == name {
			h.active = ""
		}
		h.mu.Unlock()
	})
}

type fyneWindow struct {
	w     fyne.Window
	opts  WindowOptions
	ready chan struct{}

	onShow func()

	mu      sync.Mutex
	closed  bool
	visible bool
}

func newFyneWindow(w fyne.Window, opts WindowOptions) *fyneWindow {
	return &fyneWindow{w: w, opts: opts, ready: make(chan struct{})}
}

func (f *fyneWindow) Show() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return fmt.Errorf("window %q: %w", f.opts.Name, ErrWindowClosed)
	}
	f.visible = true
	f.mu.Unlock()
	f.w.Show()
	f.w.RequestFocus()
	if f.onShow != nil {
		f.onShow()
	}
	return nil
}

func (f *fyneWindow) hide() {
	f.mu.Lock()
	f.visible = false
	f.mu.Unlock()
	f.w.Hide()
}

func (f *fyneWindow) Ready() <-chan struct{} { return f.ready }

// Options returns the configuration the window was created with.
func (f *fyneWindow) Options() WindowOptions { return f.opts }

// Visible reports whether Show succeeded since creation.
func (f *fyneWindow) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Fyne returns the underlying fyne window.
func (f *fyneWindow) Fyne() fyne.Window { return f.w }

func (f *fyneWindow) markClosed() {
	f.mu.Lock()
	f.closed = true
	f.visible = false
	f.mu.Unlock()
}
