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
	"errors"
	"math"
	"testing"
)

func TestPanExample(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	w := DefaultWindow()
	vc, wc, err := c.Apply(&v, &w, InputBatch{Drags: []Point{{X: 100, Y: 0}}, Pressed: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !vc || wc {
		t.Fatalf("flags = %v,%v, want true,false", vc, wc)
	}
	if !approx(v.Centre.X, -1.5625) || v.Centre.Y != 0 {
		t.Fatalf("centre = %s, want (-1.5625, 0)", v.Centre)
	}
}

func TestPanInvertsY(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	if !c.Pan(&v, DefaultWindow(), Pt(0, 64), true) {
		t.Fatalf("pan should apply")
	}
	// dragging down moves the view up
	if !approx(v.Centre.Y, 1) {
		t.Fatalf("centre = %s, want (0, 1)", v.Centre)
	}
}

func TestPanRequiresButtonAndDeadZone(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	w := DefaultWindow()
	if c.Pan(&v, w, Pt(50, 50), false) {
		t.Fatalf("pan without button must not apply")
	}
	if c.Pan(&v, w, Pt(0.05, 0.05), true) {
		t.Fatalf("jitter inside the dead zone must not apply")
	}
	if v != DefaultView() {
		t.Fatalf("view changed: %+v", v)
	}
}

func TestZoomDirectionAndFractionalSteps(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	c.Zoom(&v, 1)
	if !approx(v.Scale, 5/1.1) {
		t.Fatalf("scroll up should zoom in: scale %g", v.Scale)
	}
	v = DefaultView()
	c.Zoom(&v, -2)
	if !approx(v.Scale, 5*1.1*1.1) {
		t.Fatalf("scroll down should zoom out: scale %g", v.Scale)
	}
	v = DefaultView()
	c.Zoom(&v, 0.5)
	if !approx(v.Scale, 5*math.Pow(1.1, -0.5)) {
		t.Fatalf("fractional scroll: scale %g", v.Scale)
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewController(ControllerConfig{MinScale: 1, MaxScale: 10})
	v := DefaultView()
	c.Zoom(&v, 1000)
	if v.Scale != 1 {
		t.Fatalf("scale = %g, want clamp to 1", v.Scale)
	}
	if c.Zoom(&v, 5) {
		t.Fatalf("zoom at the clamp must report no change")
	}
	c.Zoom(&v, -1000)
	if v.Scale != 10 {
		t.Fatalf("scale = %g, want clamp to 10", v.Scale)
	}
}

func TestApplyFoldsBatch(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	w := DefaultWindow()
	in := InputBatch{
		Scrolls: []float64{1, -1, math.NaN()},
		Resizes: []WindowSize{{Width: 100, Height: 100}, {Width: 1280, Height: 640}},
		Drags:   []Point{{X: 100}, {X: 28}},
		Pressed: true,
	}
	vc, wc, err := c.Apply(&v, &w, in)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !vc || !wc {
		t.Fatalf("flags = %v,%v", vc, wc)
	}
	if w != (WindowSize{Width: 1280, Height: 640}) {
		t.Fatalf("last resize should win: %+v", w)
	}
	if !approx(v.Scale, 5) {
		t.Fatalf("scrolls should cancel: %g", v.Scale)
	}
	// pan uses the resized width: 128 * 10 / 1280
	if !approx(v.Centre.X, -1) {
		t.Fatalf("centre = %s", v.Centre)
	}
}

func TestApplyRejectsBadResizeWithoutMutation(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	w := DefaultWindow()
	_, _, err := c.Apply(&v, &w, InputBatch{
		Scrolls: []float64{3},
		Resizes: []WindowSize{{Width: 0, Height: 480}},
	})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if v != DefaultView() || w != DefaultWindow() {
		t.Fatalf("state mutated on error: %+v %+v", v, w)
	}
}

func TestApplyEmptyBatch(t *testing.T) {
	c := NewController(ControllerConfig{})
	v := DefaultView()
	w := DefaultWindow()
	vc, wc, err := c.Apply(&v, &w, InputBatch{Pressed: true})
	if err != nil || vc || wc {
		t.Fatalf("empty batch: %v %v %v", vc, wc, err)
	}
	if v != DefaultView() || w != DefaultWindow() {
		t.Fatalf("empty batch moved view %+v window %+v", v, w)
	}
}
