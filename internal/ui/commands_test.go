/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type echoPlugin struct{}

func (echoPlugin) Name() string { return "echo" }

func (echoPlugin) Commands() map[string]func(context.Context, map[string]any) (any, error) {
	return map[string]func(context.Context, map[string]any) (any, error){
		"say": func(_ context.Context, args map[string]any) (any, error) { return args["text"], nil },
	}
}

func TestTriggerPathsAreEquivalent(t *testing.T) {
	viaCommand := newFakeHost()
	viaMenu := newFakeHost()
	var buf bytes.Buffer

	cmdTable := NewCommands()
	BindSettings(cmdTable, NewSettingsController(viaCommand, testLogger(&buf)))
	if _, err := cmdTable.Invoke(context.Background(), CmdShowSettingsWindow, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	menuTable := NewCommands()
	BindSettings(menuTable, NewSettingsController(viaMenu, testLogger(&buf)))
	menuTable.HandleMenuEvent(MenuEvent{ItemID: MenuShowSettings})

	if len(viaCommand.created) != 1 || len(viaMenu.created) != 1 {
		t.Fatalf("both paths must create the window once: %d %d", len(viaCommand.created), len(viaMenu.created))
	}
	if viaCommand.created[0] != viaMenu.created[0] {
		t.Fatalf("paths created different windows: %#v vs %#v", viaCommand.created[0], viaMenu.created[0])
	}
	if viaCommand.windows[SettingsWindowName].showCount() != viaMenu.windows[SettingsWindowName].showCount() {
		t.Fatalf("paths showed the window a different number of times")
	}
}

func TestMenuClickThroughBuiltMenu(t *testing.T) {
	host := newFakeHost()
	var buf bytes.Buffer
	table := NewCommands()
	BindSettings(table, NewSettingsController(host, testLogger(&buf)))

	menu := BuildMenu("Dolo", table.HandleMenuEvent)
	menu.Items[0].Items[2].Action()
	if len(host.created) != 1 {
		t.Fatalf("clicking Settings should create the settings window")
	}
}

func TestInvokeUnknownCommand(t *testing.T) {
	_, err := NewCommands().Invoke(context.Background(), "nope", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestUnboundMenuItemIsIgnored(t *testing.T) {
	NewCommands().HandleMenuEvent(MenuEvent{ItemID: MenuAbout})
}

func TestRegisterPlugin(t *testing.T) {
	c := NewCommands()
	c.RegisterPlugin(echoPlugin{})
	name := PluginCommand("echo", "say")
	if name != "plugin:echo|say" {
		t.Fatalf("PluginCommand = %q", name)
	}
	out, err := c.Invoke(context.Background(), name, map[string]any{"text": "hi"})
	if err != nil || out != "hi" {
		t.Fatalf("Invoke = %v, %v", out, err)
	}
	names := c.Names()
	if len(names) != 1 || names[0] != name {
		t.Fatalf("Names = %v", names)
	}
}
