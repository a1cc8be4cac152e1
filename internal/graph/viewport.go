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

import (
	"fmt"
	"math"
)

// panDeadZone is the squared drag length below which a tick's drag is
// treated as pointer jitter.
const panDeadZone = 0.01

// InputBatch is everything the host collected during one tick.
type InputBatch struct {
	// Scrolls are vertical wheel deltas; positive zooms in.
	Scrolls []float64
	// Drags are pointer motion deltas in screen pixels, y down.
	Drags []Point
	// Pressed is the primary button state at the end of the tick.
	Pressed bool
	// Resizes are window resize notifications in arrival order.
	Resizes []WindowSize
}

// ScrollDelta sums the tick's wheel events. Non-finite entries are dropped.
func (b InputBatch) ScrollDelta() float64 {
	var n float64
	for _, s := range b.Scrolls {
		if isFinite(s) {
			n += s
		}
	}
	return n
}

// DragDelta sums the tick's pointer motion. Non-finite entries are dropped.
func (b InputBatch) DragDelta() Point {
	var d Point
	for _, m := range b.Drags {
		if isFinite(m.X) && isFinite(m.Y) {
			d = d.Add(m)
		}
	}
	return d
}

// LastResize returns the final resize of the batch, if any.
func (b InputBatch) LastResize() (WindowSize, bool) {
	if len(b.Resizes) == 0 {
		return WindowSize{}, false
	}
	return b.Resizes[len(b.Resizes)-1], true
}

func (b InputBatch) Empty() bool {
	return len(b.Scrolls) == 0 && len(b.Drags) == 0 && len(b.Resizes) == 0
}

// ControllerConfig tunes zoom behaviour. Zero values take the defaults.
type ControllerConfig struct {
	ZoomFactor float64
	MinScale   float64
	MaxScale   float64
}

// Controller turns input deltas into View and WindowSize mutations. It does
// no geometry work.
type Controller struct {
	cfg ControllerConfig
}

func NewController(cfg ControllerConfig) Controller {
	if cfg.ZoomFactor <= 1 {
		cfg.ZoomFactor = ZoomFactor
	}
	if cfg.MinScale <= 0 {
		cfg.MinScale = DefaultMinScale
	}
	if cfg.MaxScale <= cfg.MinScale {
		cfg.MaxScale = DefaultMaxScale
	}
	return Controller{cfg: cfg}
}

// ClampScale limits s to the configured scale range.
func (c Controller) ClampScale(s float64) float64 {
	return math.Min(math.Max(s, c.cfg.MinScale), c.cfg.MaxScale)
}

// Zoom multiplies the scale by ZoomFactor^(-n). Scrolling up (n > 0) zooms
// in. It reports whether the view changed.
func (c Controller) Zoom(v *View, n float64) bool {
	if n == 0 || !isFinite(n) {
		return false
	}
	next := c.ClampScale(v.Scale * math.Pow(c.cfg.ZoomFactor, -n))
	if next == v.Scale {
		return false
	}
	v.Scale = next
	return true
}

// Pan moves the centre by a screen-space drag while the primary button is
// held. One pixel is 2*scale/width world units, so drag speed follows zoom.
func (c Controller) Pan(v *View, w WindowSize, delta Point, pressed bool) bool {
	if !pressed || delta.LengthSquared() <= panDeadZone {
		return false
	}
	// screen y grows downward, world y upward
	delta.Y = -delta.Y
	v.Centre = v.Centre.Sub(delta.Mul(2 * v.Scale / w.Width))
	return true
}

// Resize overwrites the cached window size.
func (c Controller) Resize(w *WindowSize, size WindowSize) (bool, error) {
	if err := size.Validate(); err != nil {
		return false, err
	}
	if *w == size {
		return false, nil
	}
	*w = size
	return true, nil
}

// Apply folds one tick of input into the view and window: resize first so
// panning uses the new width, then zoom, then pan. The batch is validated
// before anything is mutated.
func (c Controller) Apply(v *View, w *WindowSize, in InputBatch) (viewChanged, windowChanged bool, err error) {
	if err := v.Validate(); err != nil {
		return false, false, err
	}
	size, resized := in.LastResize()
	if resized {
		if err := size.Validate(); err != nil {
			return false, false, fmt.Errorf("resize: %w", err)
		}
	} else if err := w.Validate(); err != nil {
		return false, false, err
	}
	if in.Empty() {
		return false, false, nil
	}
	if resized {
		windowChanged, _ = c.Resize(w, size)
	}
	if c.Zoom(v, in.ScrollDelta()) {
		viewChanged = true
	}
	if c.Pan(v, *w, in.DragDelta(), in.Pressed) {
		viewChanged = true
	}
	return viewChanged, windowChanged, nil
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
