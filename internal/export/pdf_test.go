/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dolo/internal/workspace"
)

func TestDomainsPDF_CreatesFile(t *testing.T) {
	root := t.TempDir()
	rows := []workspace.DomainRow{
		{Name: "example", Host: "192.0.2.1", HasCert: true, Valid: true},
		{Name: "broken", Problem: "missing [zsk]"},
	}
	path, err := DomainsPDF(root, rows, "domains.pdf", PDFOptions{})
	if err != nil {
		t.Fatalf("DomainsPDF: %v", err)
	}
	if path != filepath.Join(root, ReportsDirName, "domains.pdf") {
		t.Fatalf("relative path resolved to %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Fatalf("not a PDF file")
	}
}

func TestDomainsPDF_EmptyInventory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "empty.pdf")
	path, err := DomainsPDF("/ws", nil, out, PDFOptions{Title: "Inventory"})
	if err != nil {
		t.Fatalf("DomainsPDF: %v", err)
	}
	if path != out {
		t.Fatalf("absolute path changed: %s", path)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("pdf missing or empty: %v", err)
	}
}
