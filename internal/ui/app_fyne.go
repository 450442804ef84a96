//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"dolo/internal/config"
	"dolo/internal/crash"
	applog "dolo/internal/log"
	"dolo/internal/telemetry"
	"dolo/internal/workspace"
)

// Run starts the desktop shell. workspaceDir overrides the configured root.
func Run(workspaceDir string) error {
	cfg, token, err := config.Load()
	if err != nil {
		applog.WithComponent("ui").Warn("load config failed, using defaults", slog.Any("err", err))
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("ui")

	root := cfg.WorkspaceRoot()
	if workspaceDir != "" {
		root = workspaceDir
	}
	defer crash.Recover(root)

	ws, err := workspace.Open(root)
	if err != nil {
		return err
	}
	l.Info("starting UI", slog.String("workspace", ws.Root))

	tc := telemetry.New(telemetry.FromEnv().WithUserSettings(cfg.General.TelemetryOptIn, token))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		tc.Flush(ctx)
		tc.Close()
	}()

	fyneApp := app.NewWithID("io.dolo.app")
	shell, err := NewShell(fyneApp, ShellOptions{
		AppName:   AppName,
		Workspace: ws,
		Store:     DefaultSettingsStore(),
		Events:    tc.Event,
		Theme:     cfg.General.Theme,
	})
	if err != nil {
		return err
	}

	prefs := fyneApp.Preferences()
	shell.Main.Resize(fyne.NewSize(
		float32(max(prefs.IntWithFallback("window.width", 900), 640)),
		float32(max(prefs.IntWithFallback("window.height", 600), 400)),
	))
	shell.Main.SetCloseIntercept(func() {
		sz := shell.Main.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		shell.Main.Close()
	})

	shell.RefreshDomains(false)
	shell.Main.ShowAndRun()
	return nil
}
