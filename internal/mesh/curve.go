/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package mesh

import (
	"fmt"
	"math"
	"strings"

	"grapher/internal/graph"
)

const (
	DefaultResolution = 256
	DefaultHalfWidth  = 0.03
)

// WidthMode decides what the ribbon half width is measured in.
type WidthMode int

const (
	// WidthScreen keeps the apparent width constant: the half width is given
	// at DefaultScale and grows with the scale at regeneration time.
	WidthScreen WidthMode = iota
	// WidthWorld keeps the half width constant in world units.
	WidthWorld
)

func (m WidthMode) String() string {
	if m == WidthWorld {
		return "world"
	}
	return "screen"
}

func ParseWidthMode(s string) (WidthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "screen":
		return WidthScreen, nil
	case "world":
		return WidthWorld, nil
	}
	return WidthScreen, fmt.Errorf("unknown width mode %q", s)
}

// Style picks the curve geometry.
type Style int

const (
	StyleRibbon Style = iota
	StylePolyline
)

func (s Style) String() string {
	if s == StylePolyline {
		return "polyline"
	}
	return "ribbon"
}

func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ribbon":
		return StyleRibbon, nil
	case "polyline", "line":
		return StylePolyline, nil
	}
	return StyleRibbon, fmt.Errorf("unknown curve style %q", s)
}

// Tessellator turns one batch of samples into curve geometry.
type Tessellator struct {
	Resolution int
	HalfWidth  float64
	Mode       WidthMode
	Style      Style
}

func DefaultTessellator() Tessellator {
	return Tessellator{Resolution: DefaultResolution, HalfWidth: DefaultHalfWidth}
}

// EffectiveHalfWidth resolves the width mode against the view scale.
func (t Tessellator) EffectiveHalfWidth(scale float64) float64 {
	if t.Mode == WidthWorld {
		return t.HalfWidth
	}
	return t.HalfWidth * scale / graph.DefaultScale
}

// SampleXs returns R evenly spaced abscissae start + i*dx with dx = extent/R.
// The last sample sits one step short of End.
func SampleXs(xb graph.Interval, resolution int) ([]float64, float64, error) {
	if resolution < 2 {
		return nil, 0, fmt.Errorf("%w: resolution %d", ErrInvalidSampleCount, resolution)
	}
	if !(xb.Extent() > 0) {
		return nil, 0, fmt.Errorf("%w: %s", graph.ErrInvalidInterval, xb)
	}
	dx := xb.Extent() / float64(resolution)
	xs := make([]float64, resolution)
	for i := range xs {
		xs[i] = xb.Start + float64(i)*dx
	}
	return xs, dx, nil
}

// Normals returns one unit normal per sample. Normal i is perpendicular to
// the chord from sample i to i+1: for slope s it is (-s, 1)/sqrt(s²+1).
// The last chord's normal is repeated for the final sample.
func Normals(ys []float64, dx float64) ([]graph.Point, error) {
	if len(ys) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, len(ys))
	}
	ns := make([]graph.Point, len(ys))
	for i := 0; i+1 < len(ys); i++ {
		s := (ys[i+1] - ys[i]) / dx
		h := math.Hypot(s, 1)
		ns[i] = graph.Point{X: -s / h, Y: 1 / h}
	}
	ns[len(ns)-1] = ns[len(ns)-2]
	return ns, nil
}

// ClampRange is the y interval curve samples are held to: the generation
// y bounds widened by their own extent on each side.
func ClampRange(yb graph.Interval) graph.Interval {
	e := yb.Extent()
	return graph.I(yb.Start-e, yb.End+e)
}

// Sanitize makes every sample finite and keeps it inside clamp. NaN takes
// the nearest preceding finite value (leading NaNs the first finite one;
// clamp's centre when there is none). Infinities and large values are
// clipped. It returns the number of samples it replaced or clipped.
func Sanitize(ys []float64, clamp graph.Interval) ([]float64, int) {
	out := make([]float64, len(ys))
	fill := math.NaN()
	for _, y := range ys {
		if !math.IsNaN(y) {
			fill = y
			break
		}
	}
	if math.IsNaN(fill) {
		fill = clamp.Centre()
	}
	changed := 0
	for i, y := range ys {
		v := y
		if math.IsNaN(v) {
			v = fill
		}
		v = clamp.Clamp(v)
		if v != y {
			changed++
		}
		out[i] = v
		fill = v
	}
	return out, changed
}

// Ribbon builds a triangle strip of width 2*halfWidth around the samples.
// Each sample yields sample+n*halfWidth then sample-n*halfWidth, with
// per-vertex normals +n and -n, indexed 0..2R.
func Ribbon(xs, ys []float64, normals []graph.Point, halfWidth float64) (*Mesh, error) {
	if len(xs) != len(ys) || len(ys) != len(normals) {
		return nil, fmt.Errorf("%w: %d xs, %d ys, %d normals", ErrSampleMismatch, len(xs), len(ys), len(normals))
	}
	n := 2 * len(xs)
	m := &Mesh{
		Topology:  TriangleStrip,
		Positions: make([]Vec3, 0, n),
		Normals:   make([]Vec3, 0, n),
		Indices:   make([]uint32, 0, n),
	}
	for i := range xs {
		nx, ny := normals[i].X, normals[i].Y
		m.add(V2(xs[i]+nx*halfWidth, ys[i]+ny*halfWidth), V2(nx, ny))
		m.add(V2(xs[i]-nx*halfWidth, ys[i]-ny*halfWidth), V2(-nx, -ny))
	}
	return m, nil
}

// Polyline builds a line strip through the samples. The normals are those
// of the ribbon so hosts can offset it themselves.
func Polyline(xs, ys []float64, normals []graph.Point) (*Mesh, error) {
	if len(xs) != len(ys) || len(ys) != len(normals) {
		return nil, fmt.Errorf("%w: %d xs, %d ys, %d normals", ErrSampleMismatch, len(xs), len(ys), len(normals))
	}
	m := &Mesh{
		Topology:  LineStrip,
		Positions: make([]Vec3, 0, len(xs)),
		Normals:   make([]Vec3, 0, len(xs)),
		Indices:   make([]uint32, 0, len(xs)),
	}
	for i := range xs {
		m.add(V2(xs[i], ys[i]), V2(normals[i].X, normals[i].Y))
	}
	return m, nil
}

// Curve is the tessellator's output for one regeneration.
type Curve struct {
	Mesh *Mesh
	// Substituted counts samples that were NaN, infinite or clipped.
	Substituted int
}

// Build sanitises one batch of samples taken at xs (spacing dx) and emits
// geometry in the configured style. scale is the view scale the bounds were
// generated for.
func (t Tessellator) Build(xs, ys []float64, dx float64, bounds graph.GenerationBounds, scale float64) (Curve, error) {
	if len(ys) != len(xs) {
		return Curve{}, fmt.Errorf("%w: evaluator returned %d values for %d samples", ErrSampleMismatch, len(ys), len(xs))
	}
	clean, changed := Sanitize(ys, ClampRange(bounds.YBounds))
	normals, err := Normals(clean, dx)
	if err != nil {
		return Curve{}, err
	}
	var m *Mesh
	if t.Style == StylePolyline {
		m, err = Polyline(xs, clean, normals)
	} else {
		m, err = Ribbon(xs, clean, normals, t.EffectiveHalfWidth(scale))
	}
	if err != nil {
		return Curve{}, err
	}
	return Curve{Mesh: m, Substituted: changed}, nil
}
