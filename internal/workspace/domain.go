/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package workspace

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed domain.schema.json
var domainSchema []byte

// KeyPair names the private and public key files of a signing key.
type KeyPair struct {
	Private string `toml:"private"`
	Public  string `toml:"public"`
}

// MainSection is the [main] table of output.toml.
type MainSection struct {
	Domain string `toml:"domain"` // fully qualified, with trailing dot
	Host   string `toml:"host"`
}

// DomainConfig is the decoded output.toml of one domain.
type DomainConfig struct {
	Main MainSection `toml:"main"`
	KSK  KeyPair     `toml:"ksk"`
	ZSK  KeyPair     `toml:"zsk"`

	dir string
}

// ValidationError lists the schema violations of an output.toml.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid domain config: %s", e.Path, strings.Join(e.Issues, "; "))
}

// LoadDomainConfig decodes and validates <root>/<domain>/output.toml.
func (w *Workspace) LoadDomainConfig(domain string) (*DomainConfig, error) {
	dir := w.DomainDir(domain)
	path := filepath.Join(dir, OutputFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDomain)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseDomainConfig(path, data)
	if err != nil {
		return nil, err
	}
	cfg.dir = dir
	return cfg, nil
}

// ParseDomainConfig decodes output.toml content; path is used in errors.
func ParseDomainConfig(path string, data []byte) (*DomainConfig, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(domainSchema), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	if !res.Valid() {
		ve := &ValidationError{Path: path}
		for _, e := range res.Errors() {
			ve.Issues = append(ve.Issues, e.String())
		}
		return nil, ve
	}
	var cfg DomainConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &cfg, nil
}

// Name is the domain without its trailing dot.
func (c *DomainConfig) Name() string { return strings.TrimSuffix(c.Main.Domain, ".") }

// KSKPublicPath returns the path of the key-signing public key file.
func (c *DomainConfig) KSKPublicPath() string { return filepath.Join(c.dir, KSKDirName, c.KSK.Public) }

// KSKPrivatePath returns the path of the key-signing private key file.
func (c *DomainConfig) KSKPrivatePath() string {
	return filepath.Join(c.dir, KSKDirName, c.KSK.Private)
}

// ZSKPublicPath returns the path of the zone-signing public key file.
func (c *DomainConfig) ZSKPublicPath() string { return filepath.Join(c.dir, ZSKDirName, c.ZSK.Public) }

// ZSKPrivatePath returns the path of the zone-signing private key file.
func (c *DomainConfig) ZSKPrivatePath() string {
	return filepath.Join(c.dir, ZSKDirName, c.ZSK.Private)
}

// CertificatePath returns tls/<domain>.crt.
func (c *DomainConfig) CertificatePath() string {
	return filepath.Join(c.dir, TLSDirName, c.Name()+".crt")
}

// HasCertificate reports whether the TLS certificate exists.
func (c *DomainConfig) HasCertificate() bool {
	fi, err := os.Stat(c.CertificatePath())
	return err == nil && !fi.IsDir()
}
