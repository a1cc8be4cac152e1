/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grapher/internal/graph"
	"grapher/internal/history"
	"grapher/internal/mesh"
)

// countingEval evaluates sin(x) and records every batch it receives.
type countingEval struct {
	calls   int
	batches [][]float64
}

func (c *countingEval) Evaluate(xs []float64) []float64 {
	c.calls++
	c.batches = append(c.batches, append([]float64(nil), xs...))
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x)
	}
	return ys
}

func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// manualClock only moves when told to.
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func drag(dx, dy float64) graph.InputBatch {
	return graph.InputBatch{Drags: []graph.Point{{X: dx, Y: dy}}, Pressed: true}
}

func TestNewBuildsInitialFrame(t *testing.T) {
	ev := &countingEval{}
	e, err := New(ev, Options{})
	require.NoError(t, err)

	f := e.Frame()
	require.NotNil(t, f)
	assert.Equal(t, uint64(0), f.Version)
	assert.Equal(t, graph.I(-10, 10), f.Bounds.XBounds)
	assert.Equal(t, graph.I(-10, 10), f.Bounds.YBounds)
	assert.Equal(t, 1.0, f.Spacing.Separation)
	assert.Equal(t, 4, f.Main.VertexCount())
	assert.Equal(t, 84, f.Mid.VertexCount())
	assert.Equal(t, 2*mesh.DefaultResolution, f.Curve.VertexCount())
	assert.Equal(t, mesh.TriangleStrip, f.Curve.Topology)
	assert.NotEmpty(t, f.Labels)

	require.Equal(t, 1, ev.calls)
	xs := ev.batches[0]
	require.Len(t, xs, mesh.DefaultResolution)
	assert.Equal(t, -10.0, xs[0])
	assert.InDelta(t, 20.0/256, xs[1]-xs[0], 1e-12)
	assert.False(t, e.State().Dirty())
}

func TestTickWithoutInputIsIdempotent(t *testing.T) {
	ev := &countingEval{}
	e, err := New(ev, Options{})
	require.NoError(t, err)
	first := e.Frame()

	for i := 0; i < 3; i++ {
		f, err := e.Tick(graph.InputBatch{})
		require.NoError(t, err)
		assert.Same(t, first, f)
	}
	assert.Equal(t, 1, ev.calls)
}

func TestSmallPanKeepsGeometry(t *testing.T) {
	ev := &countingEval{}
	e, err := New(ev, Options{})
	require.NoError(t, err)
	before := e.Frame()

	f, err := e.Tick(drag(100, 0))
	require.NoError(t, err)
	assert.Equal(t, before.Version, f.Version)
	assert.Same(t, before.Curve, f.Curve)
	assert.InDelta(t, -1.5625, f.View.Centre.X, 1e-12)
	assert.InDelta(t, -1.5625, f.Projection.Translation.X, 1e-12)
	assert.Equal(t, 1, ev.calls)
}

func TestPanPastEdgeRegenerates(t *testing.T) {
	ev := &countingEval{}
	e, err := New(ev, Options{})
	require.NoError(t, err)

	f, err := e.Tick(drag(400, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.Version)
	assert.Equal(t, 2, ev.calls)
	assert.InDelta(t, -6.25, f.Bounds.XBounds.Centre(), 1e-12)
	assert.True(t, f.Bounds.XBounds.Contains(f.View.VisibleXBounds()))

	// fresh bounds must not fire again
	f2, err := e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Equal(t, f.Version, f2.Version)
}

func TestZoomInRegeneratesWithFinerSpacing(t *testing.T) {
	e, err := New(&countingEval{}, Options{})
	require.NoError(t, err)
	f, err := e.Tick(graph.InputBatch{Scrolls: []float64{10}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.Version)
	assert.Less(t, f.Spacing.Separation, 1.0)
	assert.Less(t, f.View.Scale, 5.0)
}

func TestInvalidInputLeavesStateUntouched(t *testing.T) {
	e, err := New(&countingEval{}, Options{})
	require.NoError(t, err)
	before := e.State()

	f, err := e.Tick(graph.InputBatch{Resizes: []graph.WindowSize{{Width: -1, Height: 10}}})
	require.ErrorIs(t, err, graph.ErrInvalidWindow)
	assert.Same(t, e.Frame(), f)
	assert.Equal(t, before, e.State())
}

func TestFailedRegenerationRollsBack(t *testing.T) {
	calls := 0
	ev := EvaluatorFunc(func(xs []float64) []float64 {
		calls++
		ys := make([]float64, len(xs))
		if calls > 1 {
			return ys[:len(ys)-1]
		}
		return ys
	})
	h := history.NewManager(history.Config{})
	e, err := New(ev, Options{History: h, Clock: steppingClock()})
	require.NoError(t, err)
	before := e.State()
	first := e.Frame()

	f, err := e.Tick(drag(1000, 0))
	require.ErrorIs(t, err, mesh.ErrSampleMismatch)
	assert.Same(t, first, f)
	assert.Equal(t, before, e.State())
	assert.Equal(t, f.View, e.State().View)
	u, _ := h.Stats()
	assert.Equal(t, 0, u, "a rejected tick must not leave a history entry")
}

func TestUndoRedoUsesSampleCache(t *testing.T) {
	ev := &countingEval{}
	h := history.NewManager(history.Config{MinInterval: time.Millisecond})
	e, err := New(ev, Options{History: h, Clock: steppingClock()})
	require.NoError(t, err)

	_, err = e.Tick(drag(400, 0))
	require.NoError(t, err)
	require.Equal(t, 2, ev.calls)

	require.True(t, e.Undo())
	f, err := e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Equal(t, graph.DefaultView(), f.View)
	assert.Equal(t, uint64(2), f.Version)
	assert.Equal(t, 2, ev.calls, "undo back to the start should hit the cache")
	hits, _ := e.CacheStats()
	assert.Equal(t, 1, hits)

	require.True(t, e.Redo())
	f, err = e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.InDelta(t, -6.25, f.View.Centre.X, 1e-12)
	assert.Equal(t, 2, ev.calls)
	assert.False(t, e.Redo())
}

func TestReset(t *testing.T) {
	h := history.NewManager(history.Config{MinInterval: time.Millisecond})
	e, err := New(&countingEval{}, Options{History: h, Clock: steppingClock()})
	require.NoError(t, err)
	_, err = e.Tick(graph.InputBatch{Scrolls: []float64{-20}})
	require.NoError(t, err)

	e.Reset()
	f, err := e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Equal(t, graph.DefaultView(), f.View)

	// the reset itself is undoable
	require.True(t, e.Undo())
	f, err = e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Greater(t, f.View.Scale, 5.0)
}

func TestResetRightAfterGestureIsUndoable(t *testing.T) {
	clk := &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := history.NewManager(history.Config{MinInterval: 250 * time.Millisecond})
	e, err := New(&countingEval{}, Options{History: h, Clock: clk.Now})
	require.NoError(t, err)

	_, err = e.Tick(drag(100, 0))
	require.NoError(t, err)
	clk.advance(50 * time.Millisecond)
	f, err := e.Tick(drag(100, 0))
	require.NoError(t, err)
	preReset := f.View
	require.InDelta(t, -3.125, preReset.Centre.X, 1e-12)

	clk.advance(50 * time.Millisecond)
	e.Reset()
	_, err = e.Tick(graph.InputBatch{})
	require.NoError(t, err)

	require.True(t, e.Undo())
	f, err = e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Equal(t, preReset, f.View)

	// the drag before the reset is still one gesture
	require.True(t, e.Undo())
	f, err = e.Tick(graph.InputBatch{})
	require.NoError(t, err)
	assert.Equal(t, graph.DefaultView(), f.View)
}

func TestNonFiniteSamplesAreSubstituted(t *testing.T) {
	ev := EvaluatorFunc(func(xs []float64) []float64 {
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = 1 / x
			if x < 0 {
				ys[i] = math.NaN()
			}
		}
		return ys
	})
	e, err := New(ev, Options{})
	require.NoError(t, err)
	f := e.Frame()
	assert.Greater(t, f.Substituted, 0)
	for _, p := range f.Curve.Positions {
		assert.False(t, math.IsNaN(p[1]) || math.IsInf(p[1], 0))
	}
}

func TestConstructionErrors(t *testing.T) {
	_, err := New(nil, Options{})
	require.ErrorIs(t, err, ErrNoEvaluator)

	_, err = New(&countingEval{}, Options{IndexWidth: 24})
	require.ErrorIs(t, err, mesh.ErrInvalidIndexWidth)

	_, err = New(&countingEval{}, Options{Tessellator: mesh.Tessellator{Resolution: 1}})
	require.ErrorIs(t, err, mesh.ErrInvalidSampleCount)

	short := EvaluatorFunc(func(xs []float64) []float64 { return xs[:1] })
	_, err = New(short, Options{})
	require.ErrorIs(t, err, mesh.ErrSampleMismatch)

	big := Options{IndexWidth: mesh.Index16, Tessellator: mesh.Tessellator{Resolution: 40000}}
	_, err = New(&countingEval{}, big)
	require.ErrorIs(t, err, mesh.ErrIndexOverflow)
}

func TestScaleIsClamped(t *testing.T) {
	e, err := New(&countingEval{}, Options{Controller: graph.ControllerConfig{MinScale: 1, MaxScale: 100}})
	require.NoError(t, err)
	f, err := e.Tick(graph.InputBatch{Scrolls: []float64{1000}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.View.Scale)
}

func TestPolylineStyle(t *testing.T) {
	tess := mesh.DefaultTessellator()
	tess.Style = mesh.StylePolyline
	e, err := New(&countingEval{}, Options{Tessellator: tess})
	require.NoError(t, err)
	assert.Equal(t, mesh.LineStrip, e.Frame().Curve.Topology)
	assert.Equal(t, mesh.DefaultResolution, e.Frame().Curve.VertexCount())
}
