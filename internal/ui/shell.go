/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dolo/internal/fsextra"
	"dolo/internal/version"
	"dolo/internal/workspace"
)

// AppName titles the application submenu and the main window.
const AppName = "Dolo"

// MainWindowName is the registry name of the main window.
const MainWindowName = "main"

// ShellOptions configures NewShell.
type ShellOptions struct {
	AppName   string
	Workspace *workspace.Workspace
	Store     SettingsStore
	Events    EventSink
	Theme     string
}

// Shell wires the main window, the window host, the command table and the
// application menu of one running app.
type Shell struct {
	App      fyne.App
	Host     *FyneHost
	Commands *Commands
	Settings *SettingsController
	Main     fyne.Window
	Menu     *fyne.MainMenu

	ws     *workspace.Workspace
	log    *slog.Logger
	rows   []workspace.DomainRow
	list   *widget.List
	status *widget.Label
}

// NewShell builds the shell on a. The main window is created and registered
// but not shown.
func NewShell(a fyne.App, opts ShellOptions) (*Shell, error) {
	if opts.AppName == "" {
		opts.AppName = AppName
	}
	if opts.Store.Load == nil || opts.Store.Save == nil {
		opts.Store = DefaultSettingsStore()
	}
	applyTheme(a, opts.Theme)

	s := &Shell{
		App:      a,
		Host:     NewFyneHost(a, SettingsContent(opts.Store)),
		Commands: NewCommands(),
		ws:       opts.Workspace,
		log:      logger(),
	}
	var ctrlOpts []SettingsOption
	if opts.Events != nil {
		ctrlOpts = append(ctrlOpts, WithEvents(opts.Events))
	}
	s.Settings = NewSettingsController(s.Host, ctrlOpts...)

	BindSettings(s.Commands, s.Settings)
	s.Commands.RegisterPlugin(fsextra.Init())
	s.bindMenu(opts.AppName)

	s.Main = a.NewWindow(opts.AppName)
	s.Main.Resize(fyne.NewSize(900, 600))
	s.Main.SetContent(s.mainContent())
	if err := s.Host.Register(MainWindowName, s.Main); err != nil {
		return nil, err
	}
	s.Menu = BuildMenu(opts.AppName, s.Commands.HandleMenuEvent)
	s.Main.SetMainMenu(s.Menu)
	s.Main.SetMaster()
	return s, nil
}

func (s *Shell) bindMenu(appName string) {
	c := s.Commands
	c.OnMenu(MenuAbout, s.showAbout)
	c.OnMenu(MenuHide, s.Host.HideAll)
	c.OnMenu(MenuShowAll, s.Host.ShowAll)
	c.OnMenu(MenuQuit, s.App.Quit)
	c.OnMenu(MenuCloseWindow, func() {
		if w, ok := s.Host.Active(); ok {
			w.Close()
		}
	})
	// Fyne cannot iconify a window; hiding is the closest it offers.
	c.OnMenu(MenuMinimize, func() {
		if w, ok := s.Host.Active(); ok {
			w.Hide()
		}
	})
	c.OnMenu(MenuFullScreen, func() {
		if w, ok := s.Host.Active(); ok {
			w.SetFullScreen(!w.FullScreen())
		}
	})
	edit := map[string]func(fyne.Clipboard) fyne.Shortcut{
		MenuCut:       func(cb fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutCut{Clipboard: cb} },
		MenuCopy:      func(cb fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutCopy{Clipboard: cb} },
		MenuPaste:     func(cb fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutPaste{Clipboard: cb} },
		MenuSelectAll: func(fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutSelectAll{} },
		MenuUndo:      func(fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutUndo{} },
		MenuRedo:      func(fyne.Clipboard) fyne.Shortcut { return &fyne.ShortcutRedo{} },
	}
	for id, mk := range edit {
		c.OnMenu(id, func() { s.typeShortcut(mk) })
	}
	s.log.Debug("menu bound", slog.String("app", appName))
}

// typeShortcut forwards an edit action to the focused widget of the active window.
func (s *Shell) typeShortcut(mk func(fyne.Clipboard) fyne.Shortcut) {
	w, ok := s.Host.Active()
	if !ok {
		return
	}
	if sc, ok := w.Canvas().Focused().(fyne.Shortcutable); ok {
		sc.TypedShortcut(mk(w.Clipboard()))
	}
}

func (s *Shell) showAbout() {
	exe, _ := os.Executable()
	root := ""
	if s.ws != nil {
		root = s.ws.Root
	}
	info := fmt.Sprintf("Dolo\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorkspace: %s",
		version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, root)
	dialog.ShowInformation("About Dolo", info, s.Main)
}

func (s *Shell) mainContent() fyne.CanvasObject {
	s.status = widget.NewLabel("Ready")
	s.list = widget.NewList(
		func() int { return len(s.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < 0 || int(i) >= len(s.rows) {
				o.(*widget.Label).SetText("")
				return
			}
			o.(*widget.Label).SetText(domainLine(s.rows[i]))
		},
	)
	rebuild := widget.NewButton("Rebuild Index", func() { s.RefreshDomains(true) })
	settings := widget.NewButton("Settings", func() {
		if _, err := s.Commands.Invoke(context.Background(), CmdShowSettingsWindow, nil); err != nil {
			s.log.Error("invoke settings failed", slog.Any("err", err))
		}
	})
	header := container.NewHBox(widget.NewLabelWithStyle("Domains", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), rebuild, settings)
	return container.NewBorder(header, s.status, nil, nil, s.list)
}

func domainLine(r workspace.DomainRow) string {
	if !r.Valid {
		return fmt.Sprintf("%s  (invalid: %s)", r.Name, firstLine(r.Problem))
	}
	cert := "no certificate"
	if r.HasCert {
		cert = "certificate"
	}
	return fmt.Sprintf("%s  %s  %s", r.Name, r.Host, cert)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RefreshDomains reloads the domain list, rebuilding the index when asked
// or when it was never built.
func (s *Shell) RefreshDomains(rebuild bool) {
	if s.ws == nil {
		s.status.SetText("No workspace")
		return
	}
	ctx := context.Background()
	ix, err := workspace.OpenIndex(ctx, s.ws)
	if err != nil {
		s.log.Error("open workspace index failed", slog.Any("err", err))
		s.status.SetText("Index unavailable: " + err.Error())
		return
	}
	defer ix.Close()
	if rebuild {
		if _, err := ix.Rebuild(ctx); err != nil {
			s.log.Error("rebuild index failed", slog.Any("err", err))
			s.status.SetText("Rebuild failed: " + err.Error())
			return
		}
	}
	rows, err := ix.ListOrRebuild(ctx)
	if err != nil {
		s.log.Error("list domains failed", slog.Any("err", err))
		s.status.SetText("Listing failed: " + err.Error())
		return
	}
	s.rows = rows
	s.list.Refresh()
	s.status.SetText(fmt.Sprintf("%d domains in %s", len(rows), s.ws.Root))
}

// Rows returns the domains currently listed.
func (s *Shell) Rows() []workspace.DomainRow { return s.rows }

type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

// applyTheme pins the light or dark variant; "system" follows the OS.
func applyTheme(a fyne.App, name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		a.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
	case "dark":
		a.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
	}
}
