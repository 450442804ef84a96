/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli holds the dolo command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dolo/internal/config"
	applog "dolo/internal/log"
	"dolo/internal/ui"
)

var workspaceFlag string

var rootCmd = &cobra.Command{
	Use:   "dolo",
	Short: "Dolo manages self-hosted DNSSEC-signed domains",
	Long: `Dolo keeps one directory per domain under the workspace root and serves
the signed zones. Without a subcommand it launches the desktop shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.Name()), slog.Int("args", len(args)))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(workspaceFlag)
	},
}

var uiCmd = &cobra.Command{
	Use:   "ui [workspaceDir]",
	Short: "Launch the desktop shell (build with -tags fyne)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := workspaceFlag
		if len(args) == 1 {
			dir = args[0]
		}
		return ui.Run(dir)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "workspace root (default from config or "+config.EnvWorkspaceRoot+")")
	rootCmd.AddCommand(uiCmd)
}

// workspaceRoot resolves the root for commands working on domains.
func workspaceRoot() string {
	if workspaceFlag != "" {
		return workspaceFlag
	}
	cfg, _, err := config.Load()
	if err != nil {
		applog.WithComponent("cli").Warn("load config failed, using defaults", slog.Any("err", err))
	}
	return cfg.WorkspaceRoot()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	return 1
}
