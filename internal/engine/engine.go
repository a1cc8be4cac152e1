/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package engine runs the per-tick pipeline of the plotter. Each Tick folds
// one batch of input into the view, checks the hysteresis predicate and,
// only when it fires, replaces the generation bounds and rebuilds every
// mesh from scratch. Hosts draw the Frame it hands back.
//
// The engine is single threaded; hosts serialise calls onto one goroutine.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"grapher/internal/graph"
	"grapher/internal/history"
	applog "grapher/internal/log"
	"grapher/internal/mesh"
)

// Evaluator is the compiled expression. It maps a batch of x values to
// y values of the same length. Construction can fail; evaluation cannot.
type Evaluator interface {
	Evaluate(xs []float64) []float64
}

// EvaluatorFunc adapts a plain function.
type EvaluatorFunc func(xs []float64) []float64

func (f EvaluatorFunc) Evaluate(xs []float64) []float64 { return f(xs) }

var ErrNoEvaluator = errors.New("engine: evaluator is required")

// Options configures an Engine. Zero values take the defaults.
type Options struct {
	View   graph.View
	Window graph.WindowSize
	// Factor is the pregeneration distance factor (default 2).
	Factor      float64
	Controller  graph.ControllerConfig
	Tessellator mesh.Tessellator
	IndexWidth  mesh.IndexWidth
	// CacheTTL bounds how long sampled curves are kept; negative disables
	// the cache.
	CacheTTL time.Duration
	// History receives the view before every input-driven change. Optional.
	History *history.Manager
	Logger  *slog.Logger
	Clock   func() time.Time
}

func DefaultOptions() Options {
	return Options{
		View:        graph.DefaultView(),
		Window:      graph.DefaultWindow(),
		Factor:      graph.PregenerateDistanceFactor,
		Tessellator: mesh.DefaultTessellator(),
		IndexWidth:  mesh.Index32,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.View == (graph.View{}) {
		o.View = d.View
	}
	if o.Window == (graph.WindowSize{}) {
		o.Window = d.Window
	}
	if o.Factor == 0 {
		o.Factor = d.Factor
	}
	if o.Tessellator.Resolution == 0 {
		o.Tessellator.Resolution = mesh.DefaultResolution
	}
	if o.Tessellator.HalfWidth == 0 {
		o.Tessellator.HalfWidth = mesh.DefaultHalfWidth
	}
	if o.IndexWidth == 0 {
		o.IndexWidth = d.IndexWidth
	}
	if o.Logger == nil {
		o.Logger = applog.WithComponent("engine")
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// State is everything the pipeline carries between ticks. The dirty flags
// are set by input and cleared by the stage that consumes them.
type State struct {
	View       graph.View
	Window     graph.WindowSize
	Bounds     graph.GenerationBounds
	Spacing    graph.AxisSpacingInfo
	Projection graph.Projection

	viewChanged   bool
	windowChanged bool
	boundsChanged bool
}

// Dirty reports whether any stage has pending work.
func (s State) Dirty() bool { return s.viewChanged || s.windowChanged || s.boundsChanged }

type Engine struct {
	opts  Options
	eval  Evaluator
	ctrl  graph.Controller
	state State
	frame *Frame
	cache *sampleCache
	log   *slog.Logger
}

// New validates the options and builds the first frame.
func New(eval Evaluator, opts Options) (*Engine, error) {
	if eval == nil {
		return nil, ErrNoEvaluator
	}
	opts = opts.withDefaults()
	if err := opts.IndexWidth.Validate(); err != nil {
		return nil, err
	}
	if opts.Tessellator.Resolution < 2 {
		return nil, fmt.Errorf("%w: resolution %d", mesh.ErrInvalidSampleCount, opts.Tessellator.Resolution)
	}
	ctrl := graph.NewController(opts.Controller)
	view := opts.View
	view.Scale = ctrl.ClampScale(view.Scale)
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Window.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:  opts,
		eval:  eval,
		ctrl:  ctrl,
		cache: newSampleCache(opts.CacheTTL),
		log:   opts.Logger,
		state: State{View: view, Window: opts.Window},
	}
	e.state.Projection = view.Projection(opts.Window)
	if err := e.regenerate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Tick runs one frame of the pipeline. On error the state and the
// previous frame are left untouched and nothing is pushed to the history.
func (e *Engine) Tick(in graph.InputBatch) (*Frame, error) {
	saved := e.state
	vc, wc, err := e.ctrl.Apply(&e.state.View, &e.state.Window, in)
	if err != nil {
		e.state = saved
		return e.frame, err
	}
	if vc {
		e.state.viewChanged = true
	}
	if wc {
		e.state.windowChanged = true
	}
	if err := e.update(); err != nil {
		e.state = saved
		return e.frame, err
	}
	if vc && e.opts.History != nil {
		e.opts.History.Push(saved.View, e.opts.Clock())
	}
	return e.frame, nil
}

// update consumes the dirty flags in pipeline order.
func (e *Engine) update() error {
	s := &e.state
	if s.viewChanged || s.windowChanged {
		s.Projection = s.View.Projection(s.Window)
		if graph.NeedsRegeneration(s.View, s.Window, s.Bounds, e.opts.Factor) {
			s.boundsChanged = true
		} else {
			e.frame = e.frame.withView(s.View, s.Window, s.Projection)
		}
		s.viewChanged, s.windowChanged = false, false
	}
	if s.boundsChanged {
		if err := e.regenerate(); err != nil {
			return err
		}
	}
	return nil
}

// regenerate replaces bounds and spacing as a unit and rebuilds every mesh.
// Nothing is committed unless the whole frame builds.
func (e *Engine) regenerate() error {
	s := &e.state
	bounds, err := graph.RecalculateGraphingBounds(s.View, s.Window, e.opts.Factor)
	if err != nil {
		return err
	}
	spacing, err := graph.ComputeSpacing(s.View, bounds)
	if err != nil {
		return err
	}
	curve, err := e.tessellate(bounds)
	if err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	f := &Frame{
		View:        s.View,
		Window:      s.Window,
		Bounds:      bounds,
		Spacing:     spacing,
		Projection:  s.Projection,
		Main:        mesh.MainAxis(bounds),
		Mid:         mesh.MidAxis(spacing, bounds),
		Minor:       mesh.MinorAxis(spacing, bounds),
		Curve:       curve.Mesh,
		Labels:      graph.AxisLabels(bounds, spacing),
		Substituted: curve.Substituted,
	}
	for _, m := range f.Meshes() {
		if err := m.CheckIndexWidth(e.opts.IndexWidth); err != nil {
			return err
		}
	}
	if e.frame != nil {
		f.Version = e.frame.Version + 1
	}
	s.Bounds, s.Spacing = bounds, spacing
	s.boundsChanged = false
	e.frame = f
	e.log.Debug("regenerated",
		slog.String("bounds", bounds.String()),
		slog.Float64("separation", spacing.Separation),
		slog.Int("substituted", curve.Substituted),
		slog.Uint64("version", f.Version))
	return nil
}

func (e *Engine) tessellate(bounds graph.GenerationBounds) (mesh.Curve, error) {
	t := e.opts.Tessellator
	xs, dx, err := mesh.SampleXs(bounds.XBounds, t.Resolution)
	if err != nil {
		return mesh.Curve{}, err
	}
	ys, ok := e.cache.get(bounds.XBounds, t.Resolution)
	if !ok {
		ys = e.eval.Evaluate(xs)
		if len(ys) == len(xs) {
			e.cache.put(bounds.XBounds, t.Resolution, ys)
		}
	}
	return t.Build(xs, ys, dx, bounds, e.state.View.Scale)
}

// SetView replaces the view outside of input handling, e.g. on undo or
// when a stored session is restored. It takes effect on the next Tick.
func (e *Engine) SetView(v graph.View) error {
	v.Scale = e.ctrl.ClampScale(v.Scale)
	if err := v.Validate(); err != nil {
		return err
	}
	if v != e.state.View {
		e.state.View = v
		e.state.viewChanged = true
		if e.opts.History != nil {
			e.opts.History.Mark()
		}
	}
	return nil
}

// Undo steps back to the previous view in the history.
func (e *Engine) Undo() bool {
	if e.opts.History == nil {
		return false
	}
	v, ok := e.opts.History.Undo(e.state.View)
	if !ok {
		return false
	}
	return e.SetView(v) == nil
}

// Redo reverses the last Undo.
func (e *Engine) Redo() bool {
	if e.opts.History == nil {
		return false
	}
	v, ok := e.opts.History.Redo(e.state.View)
	if !ok {
		return false
	}
	return e.SetView(v) == nil
}

// Reset returns to the startup view; the jump itself can be undone.
func (e *Engine) Reset() {
	home := e.opts.View
	home.Scale = e.ctrl.ClampScale(home.Scale)
	if home == e.state.View {
		return
	}
	if e.opts.History != nil {
		e.opts.History.Mark()
		e.opts.History.Push(e.state.View, e.opts.Clock())
	}
	_ = e.SetView(home)
}

func (e *Engine) Frame() *Frame { return e.frame }

// State returns a copy of the pipeline state.
func (e *Engine) State() State { return e.state }

// CacheStats reports sample cache hits and misses.
func (e *Engine) CacheStats() (hits, misses int) { return e.cache.hits, e.cache.misses }
