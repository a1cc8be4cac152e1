/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package graph

// Projection is an orthographic camera: a box around the view centre in
// world units plus the screen it maps onto. Hosts use it to place geometry.
type Projection struct {
	Left, Right float64
	Top, Bottom float64
	Translation Point
	Window      WindowSize
}

// Projection derives the camera for the current view and window.
func (v View) Projection(w WindowSize) Projection {
	py := v.Scale * w.Height / w.Width
	return Projection{
		Left:        -v.Scale,
		Right:       v.Scale,
		Top:         py,
		Bottom:      -py,
		Translation: v.Centre,
		Window:      w,
	}
}

// PixelsPerUnit is the number of screen pixels per world unit along x.
func (p Projection) PixelsPerUnit() float64 {
	return p.Window.Width / (p.Right - p.Left)
}

// WorldToScreen maps a world point to pixels, origin top-left, y down.
func (p Projection) WorldToScreen(pt Point) Point {
	x := (pt.X - p.Translation.X - p.Left) / (p.Right - p.Left) * p.Window.Width
	y := (p.Top - (pt.Y - p.Translation.Y)) / (p.Top - p.Bottom) * p.Window.Height
	return Point{X: x, Y: y}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (p Projection) ScreenToWorld(px Point) Point {
	x := px.X/p.Window.Width*(p.Right-p.Left) + p.Left + p.Translation.X
	y := p.Top - px.Y/p.Window.Height*(p.Top-p.Bottom) + p.Translation.Y
	return Point{X: x, Y: y}
}
