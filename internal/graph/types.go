/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package graph holds the viewport model of the plotter: the view and window
// value types, the generation bounds with their hysteresis predicate, the
// grid spacing engine and the controller that folds input into the view.
//
// Everything here is plain value arithmetic; geometry lives in package mesh.
package graph

import "fmt"

const (
	DefaultWindowWidth  = 640.0
	DefaultWindowHeight = 640.0

	// DefaultScale is half the visible x range on startup: x spans -5..5.
	DefaultScale = 5.0

	// PregenerateDistanceFactor is how much larger the generated region is
	// than the visible one, per axis.
	PregenerateDistanceFactor = 2.0

	ZoomFactor = 1.1

	DefaultMinScale = 1e-6
	DefaultMaxScale = 1e9
)

// Point is a 2D world- or screen-space position.
type Point struct{ X, Y float64 }

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point      { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point      { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Mul(f float64) Point    { return Point{p.X * f, p.Y * f} }
func (p Point) LengthSquared() float64 { return p.X*p.X + p.Y*p.Y }
func (p Point) String() string         { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Interval is a closed range on one axis. Start <= End.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

func I(start, end float64) Interval { return Interval{Start: start, End: end} }

func (iv Interval) Centre() float64 { return (iv.Start + iv.End) / 2 }
func (iv Interval) Extent() float64 { return iv.End - iv.Start }

// Contains reports whether o lies entirely within iv.
func (iv Interval) Contains(o Interval) bool { return o.Start >= iv.Start && o.End <= iv.End }

// ContainsValue reports whether v lies strictly inside iv.
func (iv Interval) ContainsValue(v float64) bool { return iv.Start < v && v < iv.End }

// Clamp limits v to [Start, End].
func (iv Interval) Clamp(v float64) float64 {
	if v < iv.Start {
		return iv.Start
	}
	if v > iv.End {
		return iv.End
	}
	return v
}

// Validate checks the ordering invariant.
func (iv Interval) Validate() error {
	if !(iv.Start <= iv.End) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, iv.Start, iv.End)
	}
	return nil
}

func (iv Interval) String() string { return fmt.Sprintf("[%g, %g]", iv.Start, iv.End) }

// View is the pan/zoom state. Scale is half the visible x range and is
// always positive.
type View struct {
	Centre Point
	Scale  float64
}

// DefaultView is the startup view centred on the origin.
func DefaultView() View { return View{Scale: DefaultScale} }

func (v View) Validate() error {
	if !(v.Scale > 0) || isInf(v.Scale) {
		return fmt.Errorf("%w: %g", ErrInvalidScale, v.Scale)
	}
	return nil
}

// WindowSize is the host surface size in pixels.
type WindowSize struct {
	Width  float64
	Height float64
}

func DefaultWindow() WindowSize {
	return WindowSize{Width: DefaultWindowWidth, Height: DefaultWindowHeight}
}

func (w WindowSize) Validate() error {
	if !(w.Width > 0) || !(w.Height > 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidWindow, w.Width, w.Height)
	}
	return nil
}

// Aspect is height over width; it scales the y extent of the view.
func (w WindowSize) Aspect() float64 { return w.Height / w.Width }

// GenerationBounds is the world rectangle geometry is currently built for.
// It is replaced as a whole on regeneration.
type GenerationBounds struct {
	XBounds Interval
	YBounds Interval
}

func (b GenerationBounds) String() string {
	return fmt.Sprintf("x=%s y=%s", b.XBounds, b.YBounds)
}

// AxisSpacingInfo describes one grid tier. It is derived together with the
// GenerationBounds it belongs to.
type AxisSpacingInfo struct {
	Separation     float64
	XLineCount     int
	YLineCount     int
	RoundedXCentre float64
	RoundedYCentre float64
}

// MinorRatio is the fixed subdivision of a mid-tier cell into minor cells.
const MinorRatio = 5

// Minor returns the minor tier: a fifth of the separation, five times the
// lines, same reference centres.
func (a AxisSpacingInfo) Minor() AxisSpacingInfo {
	return AxisSpacingInfo{
		Separation:     a.Separation / MinorRatio,
		XLineCount:     a.XLineCount * MinorRatio,
		YLineCount:     a.YLineCount * MinorRatio,
		RoundedXCentre: a.RoundedXCentre,
		RoundedYCentre: a.RoundedYCentre,
	}
}
