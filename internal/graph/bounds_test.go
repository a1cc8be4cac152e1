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
	"testing"
)

func TestDefaultViewBounds(t *testing.T) {
	v := DefaultView()
	w := DefaultWindow()
	vis := v.Visible(w)
	if vis.XBounds != I(-5, 5) || vis.YBounds != I(-5, 5) {
		t.Fatalf("visible = %s", vis)
	}
	b, err := RecalculateGraphingBounds(v, w, PregenerateDistanceFactor)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if b.XBounds != I(-10, 10) || b.YBounds != I(-10, 10) {
		t.Fatalf("generation bounds = %s", b)
	}
}

func TestVisibleYBoundsFollowAspect(t *testing.T) {
	v := View{Centre: Pt(1, 2), Scale: 4}
	y := v.VisibleYBounds(WindowSize{Width: 800, Height: 400})
	if y != I(0, 4) {
		t.Fatalf("y bounds = %s, want [0, 4]", y)
	}
}

func TestBoundsContainVisibleAndScaleByFactor(t *testing.T) {
	views := []View{
		{Centre: Pt(0.1, 0.3), Scale: 0.7},
		{Centre: Pt(-1234.5, 88), Scale: 3e4},
		{Centre: Pt(1e-3, -2e-3), Scale: 1e-5},
	}
	w := WindowSize{Width: 800, Height: 333}
	for _, v := range views {
		b, err := RecalculateGraphingBounds(v, w, 2)
		if err != nil {
			t.Fatalf("recalculate: %v", err)
		}
		vis := v.Visible(w)
		if !b.XBounds.Contains(vis.XBounds) || !b.YBounds.Contains(vis.YBounds) {
			t.Fatalf("bounds %s do not contain visible %s", b, vis)
		}
		if !approx(b.XBounds.Extent(), 2*vis.XBounds.Extent()) || !approx(b.YBounds.Extent(), 2*vis.YBounds.Extent()) {
			t.Fatalf("bounds %s are not twice visible %s", b, vis)
		}
		if NeedsRegeneration(v, w, b, 2) {
			t.Fatalf("fresh bounds %s for view %+v fired the predicate", b, v)
		}
		// idempotent: asking again with nothing changed gives the same answer
		if NeedsRegeneration(v, w, b, 2) {
			t.Fatalf("predicate not idempotent")
		}
	}
}

func TestNeedsRegeneration(t *testing.T) {
	w := DefaultWindow()
	b, _ := RecalculateGraphingBounds(DefaultView(), w, 2)

	cases := []struct {
		name string
		view View
		want bool
	}{
		{"unchanged", DefaultView(), false},
		{"small pan", View{Centre: Pt(3, -2), Scale: 5}, false},
		{"pan to edge", View{Centre: Pt(5, 5), Scale: 5}, false},
		{"pan past right edge", View{Centre: Pt(5.1, 0), Scale: 5}, true},
		{"pan past bottom edge", View{Centre: Pt(0, -5.1), Scale: 5}, true},
		{"slight zoom in", View{Scale: 4}, true},
		{"zoom out past bounds", View{Scale: 11}, true},
	}
	for _, c := range cases {
		if got := NeedsRegeneration(c.view, w, b, 2); got != c.want {
			t.Fatalf("%s: NeedsRegeneration = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNeedsRegenerationOnResize(t *testing.T) {
	v := DefaultView()
	b, _ := RecalculateGraphingBounds(v, DefaultWindow(), 2)
	if !NeedsRegeneration(v, WindowSize{Width: 640, Height: 1400}, b, 2) {
		t.Fatalf("taller window should leave the y bounds")
	}
	if !NeedsRegeneration(v, WindowSize{Width: 640, Height: 300}, b, 2) {
		t.Fatalf("much shorter window should shrink below the y bounds")
	}
}

func TestRecalculateRejectsBadInput(t *testing.T) {
	if _, err := RecalculateGraphingBounds(View{Scale: -1}, DefaultWindow(), 2); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if _, err := RecalculateGraphingBounds(DefaultView(), WindowSize{Width: 0, Height: 10}, 2); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := RecalculateGraphingBounds(DefaultView(), DefaultWindow(), 0.5); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("expected ErrInvalidFactor, got %v", err)
	}
}

func TestIntervalValidate(t *testing.T) {
	if err := I(1, 0).Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if err := I(0, 0).Validate(); err != nil {
		t.Fatalf("empty interval should be valid: %v", err)
	}
}
