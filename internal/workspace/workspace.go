/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package workspace reads the per-domain material Dolo keeps under the
// workspace root: one directory per domain holding output.toml, the ksk/ and
// zsk/ key files and tls/<domain>.crt.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dolo/internal/config"
)

const (
	OutputFileName = "output.toml"
	KSKDirName     = "ksk"
	ZSKDirName     = "zsk"
	TLSDirName     = "tls"
)

// ErrNotDomain is returned for directories without an output.toml.
var ErrNotDomain = errors.New("not a domain directory")

// Workspace is an opened workspace root.
type Workspace struct {
	Root string
}

// Open resolves root, falling back to the default workspace directory.
// The directory does not need to exist yet.
func Open(root string) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = config.DefaultWorkspaceRoot()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return &Workspace{Root: abs}, nil
}

// DomainDir returns the directory of a domain. A trailing dot is ignored.
func (w *Workspace) DomainDir(domain string) string {
	return filepath.Join(w.Root, strings.TrimSuffix(domain, "."))
}

// Domains lists the domain directories under the root, sorted by name.
// A missing root yields an empty list.
func (w *Workspace) Domains() ([]string, error) {
	entries, err := os.ReadDir(w.Root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(w.Root, e.Name(), OutputFileName)); err == nil {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
