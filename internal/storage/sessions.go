/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"grapher/internal/graph"
	applog "grapher/internal/log"
)

// ErrNotFound is returned by LoadView for an expression never saved.
var ErrNotFound = errors.New("session not found")

// Session is the persisted state of one expression.
type Session struct {
	Expr      string
	View      graph.View
	Window    graph.WindowSize
	UpdatedAt time.Time
}

// ExportRecord is one row of the export log.
type ExportRecord struct {
	ID        int64
	Expr      string
	Path      string
	Format    string
	CreatedAt time.Time
}

const tsLayout = time.RFC3339Nano

func normExpr(expr string) (string, error) {
	e := strings.TrimSpace(expr)
	if e == "" {
		return "", errors.New("expression is required")
	}
	return e, nil
}

// SaveView upserts the last view and window for expr.
func (s *Store) SaveView(ctx context.Context, expr string, v graph.View, w graph.WindowSize) error {
	e, err := normExpr(expr)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions(expr, cx, cy, scale, width, height, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(expr) DO UPDATE SET cx=excluded.cx, cy=excluded.cy, scale=excluded.scale,
			width=excluded.width, height=excluded.height, updated_at=excluded.updated_at`,
		e, v.Centre.X, v.Centre.Y, v.Scale, w.Width, w.Height, time.Now().UTC().Format(tsLayout))
	if err != nil {
		applog.WithOperation(applog.WithComponent("storage"), "save_view").Error("upsert failed", slog.String("expr", e), slog.Any("err", err))
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

// LoadView returns the saved session for expr or ErrNotFound.
func (s *Store) LoadView(ctx context.Context, expr string) (Session, error) {
	e, err := normExpr(expr)
	if err != nil {
		return Session{}, err
	}
	var (
		sess Session
		ts   string
	)
	sess.Expr = e
	err = s.db.QueryRowContext(ctx, `SELECT cx, cy, scale, width, height, updated_at FROM sessions WHERE expr=?`, e).
		Scan(&sess.View.Centre.X, &sess.View.Centre.Y, &sess.View.Scale, &sess.Window.Width, &sess.Window.Height, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load view: %w", err)
	}
	sess.UpdatedAt, _ = time.Parse(tsLayout, ts)
	return sess, nil
}

// DeleteView forgets expr. Deleting an unknown expression is not an error.
func (s *Store) DeleteView(ctx context.Context, expr string) error {
	e, err := normExpr(expr)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expr=?`, e); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	return nil
}

// RecentSessions lists sessions, most recently updated first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT expr, cx, cy, scale, width, height, updated_at
		FROM sessions ORDER BY updated_at DESC, expr ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var (
			sess Session
			ts   string
		)
		if err := rows.Scan(&sess.Expr, &sess.View.Centre.X, &sess.View.Centre.Y, &sess.View.Scale, &sess.Window.Width, &sess.Window.Height, &ts); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.UpdatedAt, _ = time.Parse(tsLayout, ts)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// RecordExport appends to the export log.
func (s *Store) RecordExport(ctx context.Context, expr, path, format string) error {
	e, err := normExpr(expr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("export path is required")
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exports(expr, path, format, created_at) VALUES(?, ?, ?, ?)`,
		e, path, strings.ToLower(format), time.Now().UTC().Format(tsLayout))
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// Exports lists the export log for expr, newest first. An empty expr lists all.
func (s *Store) Exports(ctx context.Context, expr string, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, expr, path, format, created_at FROM exports`
	args := []any{}
	if e := strings.TrimSpace(expr); e != "" {
		q += ` WHERE expr=?`
		args = append(args, e)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()
	var out []ExportRecord
	for rows.Next() {
		var (
			r  ExportRecord
			ts string
		)
		if err := rows.Scan(&r.ID, &r.Expr, &r.Path, &r.Format, &ts); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		r.CreatedAt, _ = time.Parse(tsLayout, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
