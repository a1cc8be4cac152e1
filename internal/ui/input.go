/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"sync"

	"grapher/internal/graph"
)

// ScrollStep is the host wheel delta of one notch. One notch zooms by one
// ZoomFactor step.
const ScrollStep = 10.0

// inputQueue collects host events between ticks. Event callbacks and the
// tick loop may run on different goroutines.
type inputQueue struct {
	mu      sync.Mutex
	scrolls []float64
	drags   []graph.Point
	resizes []graph.WindowSize
	pressed bool
	// dragged is set when motion arrived while pressed during this tick
	dragged bool
}

func (q *inputQueue) scroll(dy float64) {
	q.mu.Lock()
	q.scrolls = append(q.scrolls, dy/ScrollStep)
	q.mu.Unlock()
}

func (q *inputQueue) drag(dx, dy float64) {
	q.mu.Lock()
	q.drags = append(q.drags, graph.Pt(dx, dy))
	q.pressed, q.dragged = true, true
	q.mu.Unlock()
}

func (q *inputQueue) release() {
	q.mu.Lock()
	q.pressed = false
	q.mu.Unlock()
}

func (q *inputQueue) resize(w, h float64) {
	q.mu.Lock()
	q.resizes = append(q.resizes, graph.WindowSize{Width: w, Height: h})
	q.mu.Unlock()
}

// drain returns the batch for one tick and empties the queue. Motion that
// arrived before a release in the same tick still pans.
func (q *inputQueue) drain() graph.InputBatch {
	q.mu.Lock()
	defer q.mu.Unlock()
	b := graph.InputBatch{
		Scrolls: q.scrolls,
		Drags:   q.drags,
		Resizes: q.resizes,
		Pressed: q.pressed || q.dragged,
	}
	q.scrolls, q.drags, q.resizes = nil, nil, nil
	q.dragged = false
	return b
}
