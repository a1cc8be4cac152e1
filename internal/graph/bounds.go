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

import "fmt"

// boundsTolerance is relative to the generation extent. Bounds computed on
// one tick must not fire the predicate on the next through rounding alone.
const boundsTolerance = 1e-9

// VisibleXBounds is the x range on screen; it depends on scale only.
func (v View) VisibleXBounds() Interval {
	return I(v.Centre.X-v.Scale, v.Centre.X+v.Scale)
}

// VisibleYBounds is the y range on screen. The half height follows the
// window aspect so shapes are not distorted.
func (v View) VisibleYBounds(w WindowSize) Interval {
	dy := v.Scale * w.Height / w.Width
	return I(v.Centre.Y-dy, v.Centre.Y+dy)
}

// Visible returns both visible ranges as one rectangle.
func (v View) Visible(w WindowSize) GenerationBounds {
	return GenerationBounds{XBounds: v.VisibleXBounds(), YBounds: v.VisibleYBounds(w)}
}

// RecalculateGraphingBounds centres new generation bounds on the visible
// region, factor times as wide and as tall.
func RecalculateGraphingBounds(view View, window WindowSize, factor float64) (GenerationBounds, error) {
	if err := view.Validate(); err != nil {
		return GenerationBounds{}, err
	}
	if err := window.Validate(); err != nil {
		return GenerationBounds{}, err
	}
	if !(factor >= 1) {
		return GenerationBounds{}, fmt.Errorf("%w: %g", ErrInvalidFactor, factor)
	}
	vis := view.Visible(window)
	return GenerationBounds{
		XBounds: grow(vis.XBounds, factor),
		YBounds: grow(vis.YBounds, factor),
	}, nil
}

func grow(vis Interval, factor float64) Interval {
	c := vis.Centre()
	d := vis.Extent() * factor / 2
	return I(c-d, c+d)
}

// NeedsRegeneration is the hysteresis predicate. It fires when the visible
// region runs off an edge of the generation bounds, or when it has shrunk
// below 1/factor of them on either axis.
func NeedsRegeneration(view View, window WindowSize, bounds GenerationBounds, factor float64) bool {
	vis := view.Visible(window)
	return axisStale(vis.XBounds, bounds.XBounds, factor) ||
		axisStale(vis.YBounds, bounds.YBounds, factor)
}

func axisStale(vis, gen Interval, factor float64) bool {
	tol := gen.Extent() * boundsTolerance
	return vis.Start < gen.Start-tol ||
		vis.End > gen.End+tol ||
		vis.Extent()*factor < gen.Extent()-tol
}
