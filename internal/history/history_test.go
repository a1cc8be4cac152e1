/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"testing"
	"time"

	"grapher/internal/graph"
)

func view(x float64) graph.View { return graph.View{Centre: graph.Pt(x, 0), Scale: 5} }

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxDepth: 10, MinInterval: 10 * time.Millisecond})
	t0 := time.Now()
	m.Push(view(0), t0)
	m.Push(view(1), t0.Add(20*time.Millisecond))
	if u, r := m.Stats(); u != 2 || r != 0 {
		t.Fatalf("expected 2 undo entries, got undo=%d redo=%d", u, r)
	}
	v, ok := m.Undo(view(2))
	if !ok || v != view(1) {
		t.Fatalf("undo expected view 1, got ok=%v view=%+v", ok, v)
	}
	v, ok = m.Redo(v)
	if !ok || v != view(2) {
		t.Fatalf("redo expected view 2, got ok=%v view=%+v", ok, v)
	}
	if u, r := m.Stats(); u != 2 || r != 0 {
		t.Fatalf("after redo undo=%d redo=%d", u, r)
	}
}

func TestCoalesceKeepsGestureStart(t *testing.T) {
	m := NewManager(Config{MaxDepth: 10, MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	// a drag: one push per tick, each within the interval of the last
	for i := 0; i < 10; i++ {
		m.Push(view(float64(i)), t0.Add(time.Duration(i)*30*time.Millisecond))
	}
	if u, _ := m.Stats(); u != 1 {
		t.Fatalf("expected a single coalesced entry, got %d", u)
	}
	v, ok := m.Undo(view(10))
	if !ok || v != view(0) {
		t.Fatalf("expected the gesture start, got ok=%v view=%+v", ok, v)
	}
}

func TestDepthCap(t *testing.T) {
	m := NewManager(Config{MaxDepth: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		m.Push(view(float64(i)), t0.Add(time.Duration(i)*time.Second))
	}
	if u, _ := m.Stats(); u != 2 {
		t.Fatalf("expected depth cap of 2, got %d", u)
	}
	v, _ := m.Undo(view(10))
	if v != view(9) {
		t.Fatalf("newest entry lost: %+v", v)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	t0 := time.Now()
	m.Push(view(0), t0)
	m.Undo(view(1))
	m.Push(view(0), t0.Add(time.Second))
	if _, ok := m.Redo(view(0)); ok {
		t.Fatalf("redo should be empty after a new push")
	}
}

func TestPushAfterUndoStartsNewGesture(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Hour})
	t0 := time.Now()
	m.Push(view(0), t0)
	m.Push(view(1), t0.Add(2*time.Hour))
	if u, _ := m.Stats(); u != 2 {
		t.Fatalf("expected 2 entries, got %d", u)
	}
	m.Undo(view(2))
	m.Push(view(1), t0.Add(2*time.Hour+time.Second))
	if u, _ := m.Stats(); u != 2 {
		t.Fatalf("expected a fresh entry after undo, got %d", u)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(Config{})
	m.Push(view(0), time.Now())
	m.Clear()
	if u, r := m.Stats(); u != 0 || r != 0 {
		t.Fatalf("expected empty stacks, got %d/%d", u, r)
	}
	if _, ok := m.Undo(view(0)); ok {
		t.Fatalf("undo on empty manager should fail")
	}
}

func TestMarkClosesGesture(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	t0 := time.Now()
	m.Push(view(0), t0)
	m.Push(view(1), t0.Add(10*time.Millisecond))
	m.Mark()
	m.Push(view(2), t0.Add(20*time.Millisecond))
	if u, _ := m.Stats(); u != 2 {
		t.Fatalf("expected a new entry after Mark, got %d", u)
	}
	if v, _ := m.Undo(view(3)); v != view(2) {
		t.Fatalf("undo after Mark = %+v", v)
	}
	if v, _ := m.Undo(view(2)); v != view(0) {
		t.Fatalf("gesture start lost: %+v", v)
	}
}
