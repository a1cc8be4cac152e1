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
	"sync"
	"time"

	"grapher/internal/graph"
)

// Entry is a view the user can return to. TS is when the gesture that left
// it started or last continued.
type Entry struct {
	View graph.View
	TS   time.Time
}

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth limits the undo stack (0 means the default of 100).
	MaxDepth int
	// MinInterval joins pushes closer together than this into one gesture,
	// so a continuous drag or scroll undoes in a single step.
	MinInterval time.Duration
}

// Manager is an undo/redo stack of views. It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Entry
	redo []Entry
	// last time a push extended the current gesture
	lastTS time.Time
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg}
}

// Push records the view as it was before a change at ts. Pushes within
// MinInterval of the previous one keep the earlier entry, the start of the
// gesture, and only extend its timestamp. Any push clears redo.
func (m *Manager) Push(before graph.View, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.undo); n > 0 && !m.lastTS.IsZero() && ts.Sub(m.lastTS) < m.cfg.MinInterval {
		m.undo[n-1].TS = ts
		m.lastTS = ts
		return
	}
	m.undo = append(m.undo, Entry{View: before, TS: ts})
	m.lastTS = ts
	if len(m.undo) > m.cfg.MaxDepth {
		drop := len(m.undo) - m.cfg.MaxDepth
		m.undo = append([]Entry{}, m.undo[drop:]...)
	}
}

// Mark closes the open gesture so the next Push starts a new entry.
func (m *Manager) Mark() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTS = time.Time{}
}

// Undo returns the previous view and remembers current for Redo.
func (m *Manager) Undo(current graph.View) (graph.View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return graph.View{}, false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, Entry{View: current, TS: time.Now()})
	m.lastTS = time.Time{}
	return e.View, true
}

// Redo reverses the last Undo.
func (m *Manager) Redo(current graph.View) (graph.View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		return graph.View{}, false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, Entry{View: current, TS: time.Now()})
	m.lastTS = time.Time{}
	return e.View, true
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
	m.lastTS = time.Time{}
}

// Stats returns the stack depths for diagnostics.
func (m *Manager) Stats() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}
