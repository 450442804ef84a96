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
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// CmdShowSettingsWindow is the command the application content invokes to open settings.
const CmdShowSettingsWindow = "show_settings_window"

// ErrUnknownCommand is returned by Invoke for unregistered names.
var ErrUnknownCommand = errors.New("unknown command")

// Handler serves one named command.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Plugin contributes commands under "plugin:<name>|<command>".
type Plugin interface {
	Name() string
	Commands() map[string]func(ctx context.Context, args map[string]any) (any, error)
}

// Commands routes content-initiated invocations and menu clicks.
type Commands struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	menu     map[string]func()
	log      *slog.Logger
}

// NewCommands returns an empty command table.
func NewCommands() *Commands {
	return &Commands{handlers: map[string]Handler{}, menu: map[string]func(){}, log: logger()}
}

// Register binds name to h, replacing any previous handler.
func (c *Commands) Register(name string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = h
}

// OnMenu binds a menu item identifier to fn.
func (c *Commands) OnMenu(itemID string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menu[itemID] = fn
}

// RegisterPlugin activates p's commands.
func (c *Commands) RegisterPlugin(p Plugin) {
	for name, fn := range p.Commands() {
		c.Register(PluginCommand(p.Name(), name), Handler(fn))
	}
	c.log.Debug("plugin registered", slog.String("plugin", p.Name()))
}

// PluginCommand returns the invocation name of a plugin command.
func PluginCommand(plugin, cmd string) string {
	return fmt.Sprintf("plugin:%s|%s", plugin, cmd)
}

// Invoke runs a named command.
func (c *Commands) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	c.mu.RLock()
	h, ok := c.handlers[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return h(ctx, args)
}

// HandleMenuEvent is the dispatch target for every menu item.
func (c *Commands) HandleMenuEvent(ev MenuEvent) {
	c.mu.RLock()
	fn, ok := c.menu[ev.ItemID]
	c.mu.RUnlock()
	if !ok {
		c.log.Debug("menu item without action", slog.String("item", ev.ItemID))
		return
	}
	fn()
}

// Names lists registered command names, sorted.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.handlers))
	for n := range c.handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// BindSettings routes both the show_settings_window command and the
// show_settings menu item to ctrl.Show.
func BindSettings(c *Commands, ctrl *SettingsController) {
	c.Register(CmdShowSettingsWindow, func(context.Context, map[string]any) (any, error) {
		ctrl.Show()
		return nil, nil
	})
	c.OnMenu(MenuShowSettings, ctrl.Show)
}
