//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based canvas widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"grapher/internal/config"
)

func newTestCanvas(t *testing.T) (*GraphCanvas, *Session) {
	t.Helper()
	test.NewApp()
	sess, err := NewSession(Options{Expr: "x", Config: config.Defaults()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return NewGraphCanvas(sess), sess
}

func TestGraphCanvas_ScrollZooms(t *testing.T) {
	gc, sess := newTestCanvas(t)
	before := sess.Frame().View.Scale
	gc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: ScrollStep}})
	f, changed, err := sess.Tick()
	if err != nil || !changed {
		t.Fatalf("tick after scroll: changed=%v err=%v", changed, err)
	}
	if f.View.Scale >= before {
		t.Fatalf("scroll up should zoom in: %g -> %g", before, f.View.Scale)
	}
}

func TestGraphCanvas_DragPansAndResizeUpdatesWindow(t *testing.T) {
	gc, sess := newTestCanvas(t)
	gc.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 10}})
	gc.DragEnd()
	f, _, err := sess.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if f.View.Centre.X >= 0 {
		t.Fatalf("dragging right should move the centre left, got %v", f.View.Centre)
	}

	gc.Resize(fyne.NewSize(800, 400))
	f, _, err = sess.Tick()
	if err != nil {
		t.Fatalf("tick after resize: %v", err)
	}
	if f.Window.Width != 800 || f.Window.Height != 400 {
		t.Fatalf("window not resized: %+v", f.Window)
	}
}

func TestGraphCanvas_Renderer(t *testing.T) {
	gc, _ := newTestCanvas(t)
	r := test.WidgetRenderer(gc)
	if len(r.Objects()) != 2 {
		t.Fatalf("expected background and raster, got %d objects", len(r.Objects()))
	}
	r.Layout(fyne.NewSize(300, 200))
	for _, o := range r.Objects() {
		if o.Size() != fyne.NewSize(300, 200) {
			t.Fatalf("object not laid out to full size: %v", o.Size())
		}
	}
	if img := gc.draw(300, 200); img == nil {
		t.Fatalf("draw returned nil image")
	}
}
