/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes workspace reports.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"dolo/internal/version"
	"dolo/internal/workspace"
)

// ReportsDirName is where relative report paths resolve inside the workspace.
const ReportsDirName = "reports"

// RGB is a report color.
type RGB struct{ R, G, B int }

type PDFOptions struct {
	Title     string // defaults to "Dolo domains"
	HeaderRGB RGB    // header row fill; zero means light gray
	Generated time.Time
}

var columns = []struct {
	title string
	width float64 // mm
}{
	{"Domain", 60},
	{"Host", 45},
	{"Certificate", 30},
	{"Status", 45},
}

// DomainsPDF writes an A4 inventory of rows. A relative outPath resolves
// under <root>/reports.
func DomainsPDF(root string, rows []workspace.DomainRow, outPath string, opt PDFOptions) (string, error) {
	title := opt.Title
	if title == "" {
		title = "Dolo domains"
	}
	head := opt.HeaderRGB
	if head == (RGB{}) {
		head = RGB{R: 230, G: 230, B: 230}
	}
	generated := opt.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Dolo "+version.String(), false)
	pdf.SetCreationDate(generated)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Workspace: %s", root), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", generated.Format("2006/01/02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(head.R, head.G, head.B)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(0, 7, "No domains.", "1", 1, "L", false, 0, "")
	}
	for _, r := range rows {
		cert := "missing"
		if r.HasCert {
			cert = "present"
		}
		status := "ok"
		if !r.Valid {
			status = "invalid"
		}
		cells := []string{r.Name, r.Host, cert, status}
		for i, c := range columns {
			pdf.CellFormat(c.width, 7, tr(cells[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(root, ReportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return outPath, nil
}
