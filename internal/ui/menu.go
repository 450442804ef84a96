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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Menu item identifiers. Every item built here reports its identifier through
// the dispatch callback instead of carrying its own behavior.
const (
	MenuAbout        = "about"
	MenuHide         = "hide"
	MenuShowAll      = "show_all"
	MenuQuit         = "quit"
	MenuCloseWindow  = "close_window"
	MenuUndo         = "undo"
	MenuRedo         = "redo"
	MenuCut          = "cut"
	MenuCopy         = "copy"
	MenuPaste        = "paste"
	MenuSelectAll    = "select_all"
	MenuFullScreen   = "fullscreen"
	MenuMinimize     = "minimize"
	MenuShowSettings = "show_settings"
)

// SettingsAccelerator is the shortcut bound to the Settings item.
const SettingsAccelerator = "CmdOrCtrl+,"

// MenuEvent is delivered when the user activates a menu item.
type MenuEvent struct {
	ItemID string
}

func customItem(id, label, accel string, dispatch func(MenuEvent)) *fyne.MenuItem {
	it := fyne.NewMenuItem(label, func() {
		if dispatch != nil {
			dispatch(MenuEvent{ItemID: id})
		}
	})
	if accel != "" {
		sc, err := ParseAccelerator(accel)
		if err != nil {
			// accelerators are compile-time constants here
			panic(err)
		}
		it.Shortcut = sc
	}
	return it
}

// DefaultMenu returns the platform default menu for appName: an application
// submenu titled appName (About first), then File, Edit, View and Window.
func DefaultMenu(appName string, dispatch func(MenuEvent)) *fyne.MainMenu {
	quit := customItem(MenuQuit, "Quit "+appName, "CmdOrCtrl+Q", dispatch)
	quit.IsQuit = true

	appMenu := fyne.NewMenu(appName,
		customItem(MenuAbout, "About "+appName, "", dispatch),
		fyne.NewMenuItemSeparator(),
		customItem(MenuHide, "Hide "+appName, "CmdOrCtrl+H", dispatch),
		customItem(MenuShowAll, "Show All", "", dispatch),
		fyne.NewMenuItemSeparator(),
		quit,
	)
	fileMenu := fyne.NewMenu("File",
		customItem(MenuCloseWindow, "Close Window", "CmdOrCtrl+W", dispatch),
	)
	editMenu := fyne.NewMenu("Edit",
		customItem(MenuUndo, "Undo", "CmdOrCtrl+Z", dispatch),
		customItem(MenuRedo, "Redo", "CmdOrCtrl+Shift+Z", dispatch),
		fyne.NewMenuItemSeparator(),
		customItem(MenuCut, "Cut", "CmdOrCtrl+X", dispatch),
		customItem(MenuCopy, "Copy", "CmdOrCtrl+C", dispatch),
		customItem(MenuPaste, "Paste", "CmdOrCtrl+V", dispatch),
		customItem(MenuSelectAll, "Select All", "CmdOrCtrl+A", dispatch),
	)
	viewMenu := fyne.NewMenu("View",
		customItem(MenuFullScreen, "Enter Full Screen", "Ctrl+Cmd+F", dispatch),
	)
	windowMenu := fyne.NewMenu("Window",
		customItem(MenuMinimize, "Minimize", "CmdOrCtrl+M", dispatch),
		fyne.NewMenuItemSeparator(),
		customItem(MenuCloseWindow, "Close Window", "", dispatch),
	)
	return fyne.NewMainMenu(appMenu, fileMenu, editMenu, viewMenu, windowMenu)
}

// NewSettingsMenuItem returns the "Settings" entry bound to CmdOrCtrl+,.
func NewSettingsMenuItem(dispatch func(MenuEvent)) *fyne.MenuItem {
	return customItem(MenuShowSettings, "Settings", SettingsAccelerator, dispatch)
}

// InjectSettings inserts a separator and the Settings item at index 1 of the
// submenu titled exactly appName, i.e. right after About. The first matching
// submenu wins. When no submenu matches the menu is left untouched.
func InjectSettings(menu *fyne.MainMenu, appName string, dispatch func(MenuEvent)) bool {
	if menu == nil {
		return false
	}
	for _, sub := range menu.Items {
		if sub == nil || sub.Label != appName {
			continue
		}
		sub.Items = insertItem(sub.Items, 1, NewSettingsMenuItem(dispatch))
		sub.Items = insertItem(sub.Items, 1, fyne.NewMenuItemSeparator())
		return true
	}
	return false
}

func insertItem(items []*fyne.MenuItem, at int, it *fyne.MenuItem) []*fyne.MenuItem {
	if at > len(items) {
		at = len(items)
	}
	items = append(items, nil)
	copy(items[at+1:], items[at:])
	items[at] = it
	return items
}

// BuildMenu returns the application menu: the platform default for appName
// with the Settings entry injected.
func BuildMenu(appName string, dispatch func(MenuEvent)) *fyne.MainMenu {
	menu := DefaultMenu(appName, dispatch)
	if !InjectSettings(menu, appName, dispatch) {
		logger().Debug("application submenu not found; settings item not added", "app", appName)
	}
	return menu
}

var namedKeys = map[string]fyne.KeyName{
	",": fyne.KeyComma, ".": fyne.KeyPeriod, "/": fyne.KeySlash, ";": fyne.KeySemicolon,
	"'": fyne.KeyApostrophe, "[": fyne.KeyLeftBracket, "]": fyne.KeyRightBracket,
	"-": fyne.KeyMinus, "=": fyne.KeyEqual, "`": fyne.KeyBackTick, "\\": fyne.KeyBackslash,
	"ESC": fyne.KeyEscape, "ESCAPE": fyne.KeyEscape, "ENTER": fyne.KeyReturn, "RETURN": fyne.KeyReturn,
	"TAB": fyne.KeyTab, "SPACE": fyne.KeySpace, "DELETE": fyne.KeyDelete, "BACKSPACE": fyne.KeyBackspace,
	"UP": fyne.KeyUp, "DOWN": fyne.KeyDown, "LEFT": fyne.KeyLeft, "RIGHT": fyne.KeyRight,
	"HOME": fyne.KeyHome, "END": fyne.KeyEnd, "PAGEUP": fyne.KeyPageUp, "PAGEDOWN": fyne.KeyPageDown,
	"F1": fyne.KeyF1, "F2": fyne.KeyF2, "F3": fyne.KeyF3, "F4": fyne.KeyF4, "F5": fyne.KeyF5, "F6": fyne.KeyF6,
	"F7": fyne.KeyF7, "F8": fyne.KeyF8, "F9": fyne.KeyF9, "F10": fyne.KeyF10, "F11": fyne.KeyF11, "F12": fyne.KeyF12,
}

// ParseAccelerator turns "CmdOrCtrl+Shift+S" style notation into a desktop
// shortcut. Modifiers are case-insensitive; the key is the last segment.
func ParseAccelerator(s string) (*desktop.CustomShortcut, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty accelerator")
	}
	// a trailing "+" key would be split away
	var parts []string
	if strings.HasSuffix(s, "++") {
		parts = append(strings.Split(strings.TrimSuffix(s, "++"), "+"), "+")
	} else {
		parts = strings.Split(s, "+")
	}
	key := parts[len(parts)-1]
	var mod fyne.KeyModifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "cmdorctrl", "commandorcontrol", "cmdorcontrol":
			mod |= fyne.KeyModifierShortcutDefault
		case "ctrl", "control":
			mod |= fyne.KeyModifierControl
		case "cmd", "command", "super", "meta":
			mod |= fyne.KeyModifierSuper
		case "alt", "option":
			mod |= fyne.KeyModifierAlt
		case "shift":
			mod |= fyne.KeyModifierShift
		default:
			return nil, fmt.Errorf("accelerator %q: unknown modifier %q", s, p)
		}
	}
	name, err := keyName(key)
	if err != nil {
		return nil, fmt.Errorf("accelerator %q: %w", s, err)
	}
	return &desktop.CustomShortcut{KeyName: name, Modifier: mod}, nil
}

func keyName(k string) (fyne.KeyName, error) {
	if k == "" {
		return "", fmt.Errorf("missing key")
	}
	if n, ok := namedKeys[strings.ToUpper(k)]; ok {
		return n, nil
	}
	if len(k) == 1 {
		c := strings.ToUpper(k)[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return fyne.KeyName(string(c)), nil
		}
		if k == "+" {
			return fyne.KeyName("+"), nil
		}
	}
	return "", fmt.Errorf("unknown key %q", k)
}
