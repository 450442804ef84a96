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
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "dolo/internal/log"
	"dolo/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName holds disposable per-workspace data under the root.
	IndexDirName  = ".dolo"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the index schema. The index can always be rebuilt
	// from disk, so an outdated schema is dropped instead of migrated.
	schemaVersion = 1
)

// IndexPath returns the path of the workspace index database.
func IndexPath(root string) string {
	return filepath.Join(root, IndexDirName, IndexFileName)
}

// DomainRow is one indexed domain.
type DomainRow struct {
	Name      string
	Host      string
	HasCert   bool
	Valid     bool
	Problem   string // load or validation error for invalid rows
	ScannedAt time.Time
}

// Index is the workspace domain index.
type Index struct {
	ws *Workspace
	db *sql.DB
}

// OpenIndex opens or creates the index of ws, enabling WAL and ensuring the
// meta, version and domains tables exist.
func OpenIndex(ctx context.Context, ws *Workspace) (*Index, error) {
	l := applog.WithOperation(applog.WithComponent("workspace"), "index_open").With(
		slog.String("root", ws.Root),
	)
	if err := os.MkdirAll(filepath.Join(ws.Root, IndexDirName), 0o755); err != nil {
		l.Error("create index dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create %s dir: %w", IndexDirName, err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(IndexPath(ws.Root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("index ready")
	return &Index{ws: ws, db: db}, nil
}

// Close releases the database.
func (ix *Index) Close() error { return ix.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			schemaVersion, version.String(), now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur != schemaVersion:
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS domains`); err != nil {
			return fmt.Errorf("drop outdated domains: %w", err)
		}
		if _, err := db.ExecContext(ctx, `UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`,
			schemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, version.String(), now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS domains (
			name       TEXT PRIMARY KEY,
			host       TEXT NOT NULL DEFAULT '',
			has_cert   INTEGER NOT NULL DEFAULT 0,
			valid      INTEGER NOT NULL DEFAULT 0,
			problem    TEXT NOT NULL DEFAULT '',
			scanned_at TEXT NOT NULL
		);`); err != nil {
		return fmt.Errorf("create domains: %w", err)
	}
	return nil
}

// Rebuild rescans the workspace and replaces the indexed rows. Domains whose
// output.toml fails to load are kept as invalid rows with the problem text.
func (ix *Index) Rebuild(ctx context.Context) (int, error) {
	l := applog.WithOperation(applog.WithComponent("workspace"), "index_rebuild")
	names, err := ix.ws.Domains()
	if err != nil {
		return 0, err
	}
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM domains`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear domains: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO domains(name, host, has_cert, valid, problem, scanned_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, name := range names {
		row := DomainRow{Name: name}
		cfg, err := ix.ws.LoadDomainConfig(name)
		if err != nil {
			row.Problem = err.Error()
			l.Warn("domain config invalid", slog.String("domain", name), slog.Any("err", err))
		} else {
			row.Valid = true
			row.Host = cfg.Main.Host
			row.HasCert = cfg.HasCertificate()
		}
		if _, err := stmt.ExecContext(ctx, row.Name, row.Host, boolInt(row.HasCert), boolInt(row.Valid), row.Problem, now); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES('last_rebuild', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, now); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("record rebuild: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	l.Info("index rebuilt", slog.Int("domains", len(names)))
	return len(names), nil
}

// List returns the indexed domains ordered by name.
func (ix *Index) List(ctx context.Context) ([]DomainRow, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT name, host, has_cert, valid, problem, scanned_at FROM domains ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()
	var out []DomainRow
	for rows.Next() {
		var r DomainRow
		var cert, valid int
		var ts string
		if err := rows.Scan(&r.Name, &r.Host, &cert, &valid, &r.Problem, &ts); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		r.HasCert = cert != 0
		r.Valid = valid != 0
		r.ScannedAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRebuild returns the time of the last Rebuild, or the zero time.
func (ix *Index) LastRebuild(ctx context.Context) (time.Time, error) {
	var v string
	err := ix.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='last_rebuild'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last rebuild: %w", err)
	}
	return time.Parse(time.RFC3339, strings.TrimSpace(v))
}

// ListOrRebuild lists the index, rebuilding it first when it was never built.
func (ix *Index) ListOrRebuild(ctx context.Context) ([]DomainRow, error) {
	last, err := ix.LastRebuild(ctx)
	if err != nil {
		return nil, err
	}
	if last.IsZero() {
		if _, err := ix.Rebuild(ctx); err != nil {
			return nil, err
		}
	}
	return ix.List(ctx)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
