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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dolo/internal/export"
	"dolo/internal/workspace"
)

var (
	domainsRebuild bool
	domainsPDF     string
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the domains of the workspace",
	Long: `List the domains found under the workspace root. The list comes from the
workspace index, which is built on first use and refreshed with --rebuild.
With --pdf the list is also written as a report; relative paths go to
<workspace>/reports.`,
	Args: cobra.NoArgs,
	RunE: runDomains,
}

func init() {
	domainsCmd.Flags().BoolVar(&domainsRebuild, "rebuild", false, "Rescan the workspace before listing")
	domainsCmd.Flags().StringVar(&domainsPDF, "pdf", "", "Also write the list as a PDF report")
	rootCmd.AddCommand(domainsCmd)
}

func runDomains(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Open(workspaceRoot())
	if err != nil {
		return err
	}
	ix, err := workspace.OpenIndex(cmd.Context(), ws)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer ix.Close()

	if domainsRebuild {
		if _, err := ix.Rebuild(cmd.Context()); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
	}
	rows, err := ix.ListOrRebuild(cmd.Context())
	if err != nil {
		return err
	}
	if domainsPDF != "" {
		path, err := export.DomainsPDF(ws.Root, rows, domainsPDF, export.PDFOptions{})
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		defer fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	}
	if len(rows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No domains in %s.\n", ws.Root)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tHOST\tCERT\tSTATUS")
	for _, r := range rows {
		status := "ok"
		if !r.Valid {
			status = "invalid"
		}
		cert := "-"
		if r.HasCert {
			cert = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Host, cert, status)
	}
	return w.Flush()
}
