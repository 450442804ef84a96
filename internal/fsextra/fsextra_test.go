/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fsextra

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestExistsAndStat(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "output.toml")
	if err := os.WriteFile(f, []byte("[main]\n"), 0o444); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !Exists(f) || !Exists(dir) {
		t.Fatalf("expected file and dir to exist")
	}
	if Exists(filepath.Join(dir, "missing")) {
		t.Fatalf("missing path reported as existing")
	}
	md, err := Stat(f)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !md.IsFile || md.IsDir || md.Size != 7 || !md.ReadOnly {
		t.Fatalf("unexpected metadata: %+v", md)
	}
	dmd, err := Stat(dir)
	if err != nil || !dmd.IsDir || dmd.IsFile {
		t.Fatalf("unexpected dir metadata: %+v %v", dmd, err)
	}
}

func TestCommands(t *testing.T) {
	p := Init()
	if p.Name() != "fs-extra" {
		t.Fatalf("name = %q", p.Name())
	}
	cmds := p.Commands()
	dir := t.TempDir()

	got, err := cmds["exists"](context.Background(), map[string]any{"path": dir})
	if err != nil || got != true {
		t.Fatalf("exists = %v, %v", got, err)
	}
	if _, err := cmds["exists"](context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := cmds["metadata"](context.Background(), map[string]any{"path": 42}); err == nil {
		t.Fatalf("expected error for non-string path")
	}
	if _, err := cmds["metadata"](context.Background(), map[string]any{"path": filepath.Join(dir, "nope")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	md, err := cmds["metadata"](context.Background(), map[string]any{"path": dir})
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if !md.(Metadata).IsDir {
		t.Fatalf("expected dir metadata, got %+v", md)
	}
}
