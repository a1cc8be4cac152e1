/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"testing"

	"grapher/internal/graph"
)

func TestSaveAndLoadView(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	v := graph.View{Centre: graph.Pt(1.5, -2), Scale: 12.5}
	w := graph.WindowSize{Width: 800, Height: 600}
	if err := s.SaveView(ctx, " sin(x) ", v, w); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadView(ctx, "sin(x)")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.View != v || got.Window != w {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}

	v2 := graph.View{Scale: 3}
	if err := s.SaveView(ctx, "sin(x)", v2, w); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = s.LoadView(ctx, "sin(x)")
	if got.View != v2 {
		t.Fatalf("upsert did not overwrite: %+v", got.View)
	}
}

func TestLoadViewMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.LoadView(context.Background(), "x^2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveViewRejectsInvalid(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.SaveView(ctx, "x", graph.View{Scale: 0}, graph.DefaultWindow()); !errors.Is(err, graph.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if err := s.SaveView(ctx, "x", graph.DefaultView(), graph.WindowSize{}); !errors.Is(err, graph.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if err := s.SaveView(ctx, "", graph.DefaultView(), graph.DefaultWindow()); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestRecentSessionsAndDelete(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for _, e := range []string{"x", "x^2", "sin(x)"} {
		if err := s.SaveView(ctx, e, graph.DefaultView(), graph.DefaultWindow()); err != nil {
			t.Fatalf("save %s: %v", e, err)
		}
	}
	list, err := s.RecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected limit 2, got %d", len(list))
	}
	if err := s.DeleteView(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteView(ctx, "never"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
	all, _ := s.RecentSessions(ctx, 0)
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions after delete, got %d", len(all))
	}
}

func TestExportLog(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if err := s.RecordExport(ctx, "x", "/tmp/a.png", "PNG"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordExport(ctx, "x", "/tmp/b.svg", "svg"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordExport(ctx, "cos(x)", "/tmp/c.pdf", "pdf"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordExport(ctx, "x", " ", "pdf"); err == nil {
		t.Fatalf("expected error for empty path")
	}
	xs, err := s.Exports(ctx, "x", 10)
	if err != nil {
		t.Fatalf("exports: %v", err)
	}
	if len(xs) != 2 || xs[0].Path != "/tmp/b.svg" || xs[1].Format != "png" {
		t.Fatalf("unexpected export log: %+v", xs)
	}
	all, _ := s.Exports(ctx, "", 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 exports, got %d", len(all))
	}
}
