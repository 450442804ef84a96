/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fsextra is the filesystem-extension capability activated at startup.
// It answers existence and metadata queries for paths handed in by the
// application content.
package fsextra

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	applog "dolo/internal/log"
)

// Name is the capability name commands are registered under.
const Name = "fs-extra"

// Metadata describes a filesystem entry.
type Metadata struct {
	ModifiedAt time.Time   `json:"modifiedAt"`
	Size       int64       `json:"size"`
	Mode       fs.FileMode `json:"mode"`
	IsDir      bool        `json:"isDir"`
	IsFile     bool        `json:"isFile"`
	IsSymlink  bool        `json:"isSymlink"`
	ReadOnly   bool        `json:"readonly"`
}

// Plugin implements the command set.
type Plugin struct {
	log *slog.Logger
}

// Init returns the capability ready for registration.
func Init() *Plugin {
	return &Plugin{log: applog.WithComponent("fsextra")}
}

func (p *Plugin) Name() string { return Name }

// Commands returns the invocable commands keyed by name.
func (p *Plugin) Commands() map[string]func(ctx context.Context, args map[string]any) (any, error) {
	return map[string]func(ctx context.Context, args map[string]any) (any, error){
		"exists": func(_ context.Context, args map[string]any) (any, error) {
			path, err := pathArg(args)
			if err != nil {
				return nil, err
			}
			return Exists(path), nil
		},
		"metadata": func(_ context.Context, args map[string]any) (any, error) {
			path, err := pathArg(args)
			if err != nil {
				return nil, err
			}
			md, err := Stat(path)
			if err != nil {
				p.log.Debug("metadata failed", slog.String("path", path), slog.Any("err", err))
				return nil, err
			}
			return md, nil
		},
	}
}

func pathArg(args map[string]any) (string, error) {
	v, ok := args["path"]
	if !ok {
		return "", errors.New("missing argument: path")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("argument path: want non-empty string, got %T", v)
	}
	return s, nil
}

// Exists reports whether path resolves to an existing entry.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat returns metadata for path without following a final symlink.
func Stat(path string) (Metadata, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	md := Metadata{
		ModifiedAt: fi.ModTime(),
		Size:       fi.Size(),
		Mode:       fi.Mode(),
		IsDir:      fi.IsDir(),
		IsFile:     fi.Mode().IsRegular(),
		IsSymlink:  fi.Mode()&fs.ModeSymlink != 0,
		ReadOnly:   fi.Mode().Perm()&0o222 == 0,
	}
	return md, nil
}
