/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package engine

import (
	"grapher/internal/graph"
	"grapher/internal/mesh"
)

// Frame is what a host draws. Geometry is shared between frames of the
// same Version and must be treated as read-only.
type Frame struct {
	// Version increases each time the geometry is rebuilt.
	Version uint64

	View       graph.View
	Window     graph.WindowSize
	Bounds     graph.GenerationBounds
	Spacing    graph.AxisSpacingInfo
	Projection graph.Projection

	Main  *mesh.Mesh
	Mid   *mesh.Mesh
	Minor *mesh.Mesh
	Curve *mesh.Mesh

	Labels []graph.AxisLabel
	// Substituted counts curve samples that had to be replaced or clipped.
	Substituted int
}

// Meshes lists the buffers back to front.
func (f *Frame) Meshes() []*mesh.Mesh {
	return []*mesh.Mesh{f.Minor, f.Mid, f.Main, f.Curve}
}

// Tier returns the grid mesh for t.
func (f *Frame) Tier(t mesh.Tier) *mesh.Mesh {
	switch t {
	case mesh.TierMain:
		return f.Main
	case mesh.TierMid:
		return f.Mid
	default:
		return f.Minor
	}
}

// withView shares the geometry under a new camera.
func (f *Frame) withView(v graph.View, w graph.WindowSize, p graph.Projection) *Frame {
	cp := *f
	cp.View, cp.Window, cp.Projection = v, w, p
	return &cp
}
