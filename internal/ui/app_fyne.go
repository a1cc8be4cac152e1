//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"grapher/internal/crash"
	"grapher/internal/engine"
	applog "grapher/internal/log"
)

// tickInterval paces the engine loop at roughly 60 frames per second.
const tickInterval = 16 * time.Millisecond

// Run opens the plot window and blocks until it is closed.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("expr", opts.Expr))

	sess, err := NewSession(opts)
	if err != nil {
		return err
	}
	guard := crash.Guard{State: sess.Snapshot}
	if opts.Store != nil {
		guard.Store = opts.Store
	}
	defer crash.Recover(guard)

	fyneApp := app.NewWithID("grapher")
	w := fyneApp.NewWindow(WindowTitle)
	win := opts.Config.Window()
	w.Resize(fyne.NewSize(float32(win.Width), float32(win.Height)))

	status := widget.NewLabel(sess.Caption())
	gc := NewGraphCanvas(sess)
	gc.OnFrame = func(f *engine.Frame) {
		status.SetText(statusText(sess.Caption(), f))
	}
	w.SetContent(container.NewBorder(nil, status, nil, nil, gc))

	sc := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	sc(fyne.KeyZ, fyne.KeyModifierShortcutDefault, func() { sess.Undo() })
	sc(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, func() { sess.Redo() })
	sc(fyne.KeyY, fyne.KeyModifierShortcutDefault, func() { sess.Redo() })
	sc(fyne.Key0, fyne.KeyModifierShortcutDefault, sess.Reset)
	sc(fyne.KeyS, fyne.KeyModifierShortcutDefault, func() {
		name := fmt.Sprintf("grapher-%s.%s", time.Now().Format("20060102-150405"), opts.Config.Export.Format)
		path := filepath.Join(opts.Config.Export.OutDir, name)
		if err := sess.Export(path); err != nil {
			l.Error("export failed", slog.Any("err", err))
			status.SetText("Export failed: " + err.Error())
			return
		}
		status.SetText("Saved " + path)
	})

	done := make(chan struct{})
	crash.Go(guard, func() { gc.loop(done) })
	w.SetOnClosed(func() {
		close(done)
		if err := sess.Close(); err != nil {
			l.Warn("save view failed", slog.Any("err", err))
		}
	})

	w.ShowAndRun()
	return nil
}

func statusText(caption string, f *engine.Frame) string {
	return fmt.Sprintf("%s    centre %s    scale %.4g", caption, f.View.Centre, f.View.Scale)
}

// GraphCanvas shows the session's frames and feeds pointer input back to it.
// Wheel zooms, primary drag pans, resizing the widget resizes the window
// the engine plots into.
type GraphCanvas struct {
	widget.BaseWidget
	sess   *Session
	raster *canvas.Raster
	// OnFrame runs on the UI goroutine after a new frame was drawn.
	OnFrame func(*engine.Frame)
}

func NewGraphCanvas(sess *Session) *GraphCanvas {
	g := &GraphCanvas{sess: sess}
	g.raster = canvas.NewRaster(g.draw)
	g.ExtendBaseWidget(g)
	return g
}

func (g *GraphCanvas) draw(w, h int) image.Image {
	img, err := g.sess.Render()
	if err != nil {
		applog.WithOperation(applog.WithComponent("ui"), "draw").Error("render failed", slog.Any("err", err))
		blank := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
		for i := range blank.Pix {
			blank.Pix[i] = 0xff
		}
		return blank
	}
	return img
}

func (g *GraphCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &graphRenderer{g: g, bg: bg, objects: []fyne.CanvasObject{bg, g.raster}}
}

func (g *GraphCanvas) MinSize() fyne.Size { return fyne.NewSize(160, 160) }

func (g *GraphCanvas) Resize(s fyne.Size) {
	if s == g.Size() {
		return
	}
	g.BaseWidget.Resize(s)
	if s.Width > 0 && s.Height > 0 {
		g.sess.Resize(float64(s.Width), float64(s.Height))
	}
}

func (g *GraphCanvas) Scrolled(e *fyne.ScrollEvent) { g.sess.Scroll(float64(e.Scrolled.DY)) }

func (g *GraphCanvas) Dragged(e *fyne.DragEvent) {
	g.sess.Drag(float64(e.Dragged.DX), float64(e.Dragged.DY))
}

func (g *GraphCanvas) DragEnd() { g.sess.Release() }

// step runs one engine tick and redraws when the frame changed.
func (g *GraphCanvas) step() {
	f, changed, _ := g.sess.Tick()
	if !changed {
		return
	}
	fyne.Do(func() {
		g.raster.Refresh()
		if g.OnFrame != nil {
			g.OnFrame(f)
		}
	})
}

func (g *GraphCanvas) loop(done <-chan struct{}) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			g.step()
		}
	}
}

type graphRenderer struct {
	g       *GraphCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *graphRenderer) Destroy()                     {}
func (r *graphRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *graphRenderer) MinSize() fyne.Size           { return r.g.MinSize() }
func (r *graphRenderer) Refresh()                     { r.Layout(r.g.Size()); canvas.Refresh(r.g) }

func (r *graphRenderer) Layout(size fyne.Size) {
	for _, o := range r.objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
}
