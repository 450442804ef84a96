/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exampleOutput = `[main]
domain = "example."
host = "192.0.2.1"

[ksk]
private = "Kexample.+013+11111.private"
public = "Kexample.+013+11111.key"

[zsk]
private = "Kexample.+013+22222.private"
public = "Kexample.+013+22222.key"
`

func writeDomain(t *testing.T, root, name, output string, withCert bool) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, TLSDirName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, OutputFileName), []byte(output), 0o644); err != nil {
		t.Fatalf("write output: %v", err)
	}
	if withCert {
		if err := os.WriteFile(filepath.Join(dir, TLSDirName, name+".crt"), []byte("-----BEGIN CERTIFICATE-----\n"), 0o644); err != nil {
			t.Fatalf("write cert: %v", err)
		}
	}
}

func TestOpenDefaultsAndRejectsFile(t *testing.T) {
	ws, err := Open("")
	if err != nil {
		t.Fatalf("Open default: %v", err)
	}
	if filepath.Base(ws.Root) != "Dolo" {
		t.Fatalf("default root = %q", ws.Root)
	}
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(f); err == nil {
		t.Fatalf("Open on a file should fail")
	}
}

func TestDomainsListing(t *testing.T) {
	root := t.TempDir()
	writeDomain(t, root, "zeta", exampleOutput, false)
	writeDomain(t, root, "example", exampleOutput, false)
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	ws, _ := Open(root)
	got, err := ws.Domains()
	if err != nil {
		t.Fatalf("Domains: %v", err)
	}
	if strings.Join(got, ",") != "example,zeta" {
		t.Fatalf("Domains = %v", got)
	}

	missing, _ := Open(filepath.Join(root, "nope"))
	if got, err := missing.Domains(); err != nil || len(got) != 0 {
		t.Fatalf("missing root: %v, %v", got, err)
	}
}

func TestLoadDomainConfig(t *testing.T) {
	root := t.TempDir()
	writeDomain(t, root, "example", exampleOutput, true)
	ws, _ := Open(root)
	cfg, err := ws.LoadDomainConfig("example.")
	if err != nil {
		t.Fatalf("LoadDomainConfig: %v", err)
	}
	if cfg.Name() != "example" || cfg.Main.Host != "192.0.2.1" {
		t.Fatalf("decoded %#v", cfg)
	}
	if want := filepath.Join(root, "example", "ksk", "Kexample.+013+11111.key"); cfg.KSKPublicPath() != want {
		t.Fatalf("KSKPublicPath = %q", cfg.KSKPublicPath())
	}
	if want := filepath.Join(root, "example", "zsk", "Kexample.+013+22222.private"); cfg.ZSKPrivatePath() != want {
		t.Fatalf("ZSKPrivatePath = %q", cfg.ZSKPrivatePath())
	}
	if !cfg.HasCertificate() || filepath.Base(cfg.CertificatePath()) != "example.crt" {
		t.Fatalf("certificate not found at %s", cfg.CertificatePath())
	}
}

func TestLoadDomainConfigErrors(t *testing.T) {
	root := t.TempDir()
	ws, _ := Open(root)
	if _, err := ws.LoadDomainConfig("absent"); !errors.Is(err, ErrNotDomain) {
		t.Fatalf("missing output.toml: %v", err)
	}

	writeDomain(t, root, "broken", "[main\n", false)
	if _, err := ws.LoadDomainConfig("broken"); err == nil {
		t.Fatalf("expected decode error")
	}

	noDot := strings.Replace(exampleOutput, `domain = "example."`, `domain = "example"`, 1)
	writeDomain(t, root, "nodot", noDot, false)
	_, err := ws.LoadDomainConfig("nodot")
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Issues) == 0 {
		t.Fatalf("expected schema violation, got %v", err)
	}

	noZSK := exampleOutput[:strings.Index(exampleOutput, "[zsk]")]
	writeDomain(t, root, "nozsk", noZSK, false)
	if _, err := ws.LoadDomainConfig("nozsk"); !errors.As(err, &ve) {
		t.Fatalf("missing zsk accepted: %v", err)
	}
}

func TestIndexRebuildAndList(t *testing.T) {
	root := t.TempDir()
	writeDomain(t, root, "example", exampleOutput, true)
	writeDomain(t, root, "broken", "[main]\n", false)
	ws, _ := Open(root)
	ctx := context.Background()

	ix, err := OpenIndex(ctx, ws)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	defer ix.Close()
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	rows, err := ix.ListOrRebuild(ctx)
	if err != nil {
		t.Fatalf("ListOrRebuild: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "broken" || rows[1].Name != "example" {
		t.Fatalf("rows = %#v", rows)
	}
	if rows[0].Valid || rows[0].Problem == "" {
		t.Fatalf("broken domain should be invalid with a problem: %#v", rows[0])
	}
	if !rows[1].Valid || !rows[1].HasCert || rows[1].Host != "192.0.2.1" {
		t.Fatalf("example row = %#v", rows[1])
	}
	last, err := ix.LastRebuild(ctx)
	if err != nil || last.IsZero() {
		t.Fatalf("LastRebuild = %v, %v", last, err)
	}

	if err := os.RemoveAll(filepath.Join(root, "broken")); err != nil {
		t.Fatal(err)
	}
	n, err := ix.Rebuild(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Rebuild = %d, %v", n, err)
	}
	rows, _ = ix.List(ctx)
	if len(rows) != 1 || rows[0].Name != "example" {
		t.Fatalf("rows after rebuild = %#v", rows)
	}
}

func TestIndexReopenKeepsRows(t *testing.T) {
	root := t.TempDir()
	writeDomain(t, root, "example", exampleOutput, false)
	ws, _ := Open(root)
	ctx := context.Background()

	ix, err := OpenIndex(ctx, ws)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	if _, err := ix.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	_ = ix.Close()

	ix, err = OpenIndex(ctx, ws)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ix.Close()
	rows, err := ix.List(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows after reopen = %#v, %v", rows, err)
	}
}
