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
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"grapher/internal/config"
	"grapher/internal/crash"
	"grapher/internal/engine"
	"grapher/internal/export"
	"grapher/internal/expr"
	"grapher/internal/graph"
	"grapher/internal/history"
	applog "grapher/internal/log"
	"grapher/internal/storage"
)

// Options configures a plotting session.
type Options struct {
	Expr   string
	Config config.AppConfig
	// Store restores and saves the view per expression. Optional.
	Store *storage.Store
}

// Session is the host-independent half of the UI: it owns the engine and
// turns queued input into frames. All methods are safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	expr  *expr.Expression
	eng   *engine.Engine
	hist  *history.Manager
	store *storage.Store
	style export.Style
	queue inputQueue
	log   *slog.Logger

	// last is the view after the latest tick, readable without mu.
	snapMu sync.Mutex
	last   crash.Snapshot
}

// NewSession compiles the expression and builds the first frame. A view
// saved for the same expression is restored.
func NewSession(opts Options) (*Session, error) {
	l := applog.WithComponent("ui")
	ex, err := expr.Compile(opts.Expr)
	if err != nil {
		return nil, err
	}
	eo, err := opts.Config.EngineOptions()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	st, err := opts.Config.ExportStyle()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	hist := history.NewManager(history.Config{})
	eo.History = hist
	eng, err := engine.New(ex, eo)
	if err != nil {
		return nil, err
	}
	s := &Session{expr: ex, eng: eng, hist: hist, store: opts.Store, style: st, log: l}
	if opts.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		sess, err := opts.Store.LoadView(ctx, ex.Source())
		switch {
		case err == nil:
			if err := eng.SetView(sess.View); err == nil {
				if _, err := eng.Tick(graph.InputBatch{}); err != nil {
					l.Warn("restore view failed", slog.Any("err", err))
				} else {
					l.Info("view restored", slog.String("expr", ex.Source()), slog.String("centre", sess.View.Centre.String()), slog.Float64("scale", sess.View.Scale))
				}
			}
		case errors.Is(err, storage.ErrNotFound):
		default:
			l.Warn("load view failed", slog.Any("err", err))
		}
	}
	s.record()
	return s, nil
}

// WindowTitle is the desktop window title.
const WindowTitle = "Grapher"

// Caption names the plotted function, e.g. "f(x) = sin(x)".
func (s *Session) Caption() string { return s.expr.String() }

func (s *Session) Scroll(dy float64)  { s.queue.scroll(dy) }
func (s *Session) Drag(dx, dy float64) { s.queue.drag(dx, dy) }
func (s *Session) Release()            { s.queue.release() }
func (s *Session) Resize(w, h float64) { s.queue.resize(w, h) }

// Tick drains the queued input into one engine tick. changed reports whether
// the frame differs from the previous one.
func (s *Session) Tick() (f *engine.Frame, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.eng.Frame()
	in := s.queue.drain()
	f, err = s.eng.Tick(in)
	if err != nil {
		s.log.Warn("tick rejected", slog.Any("err", err))
	}
	s.record()
	return f, f != before, err
}

// record copies the engine state for Snapshot. Callers hold mu.
func (s *Session) record() {
	st := s.eng.State()
	s.snapMu.Lock()
	s.last = crash.Snapshot{Expr: s.expr.Source(), View: st.View, Window: st.Window}
	s.snapMu.Unlock()
}

func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Undo()
}

func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Redo()
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Reset()
}

// Frame returns the latest frame.
func (s *Session) Frame() *engine.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Frame()
}

// Render rasterises the latest frame at its window size.
func (s *Session) Render() (image.Image, error) {
	return export.RenderImage(s.Frame(), s.style)
}

// Export writes the latest frame to path and logs it in the store.
func (s *Session) Export(path string) error {
	f := s.Frame()
	opt := export.Options{Style: s.style, Title: s.expr.String()}
	if err := export.ToFile(path, f, opt); err != nil {
		return err
	}
	if s.store != nil {
		format, _ := export.FormatFromPath(path)
		if format == "" {
			format = export.FormatPNG
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.RecordExport(ctx, s.expr.Source(), path, string(format)); err != nil {
			s.log.Warn("record export failed", slog.Any("err", err))
		}
	}
	return nil
}

// Snapshot feeds crash reports. It does not wait for a tick holding the
// lock; in that case the state after the previous tick is returned.
func (s *Session) Snapshot() crash.Snapshot {
	if s.mu.TryLock() {
		s.record()
		s.mu.Unlock()
	}
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	return s.last
}

// Close saves the current view for the next start.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	st := s.eng.State()
	s.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.store.SaveView(ctx, s.expr.Source(), st.View, st.Window)
}
