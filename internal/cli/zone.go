/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dolo/internal/zone"
)

var now = time.Now

var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Zone file helpers",
}

var zoneDedupeCmd = &cobra.Command{
	Use:   "dedupe <file>",
	Short: "Print a zone file with duplicate records removed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading zone: %w", err)
		}
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		fmt.Fprint(cmd.OutOrStdout(), zone.DedupeLines(lines))
		return nil
	},
}

var zoneExpiryCmd = &cobra.Command{
	Use:   "expiry",
	Short: "Print the certificate expiry date one year from today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), zone.NextYearDate(now()))
		return nil
	},
}

func init() {
	zoneCmd.AddCommand(zoneDedupeCmd, zoneExpiryCmd)
	rootCmd.AddCommand(zoneCmd)
}
