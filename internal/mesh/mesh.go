/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package mesh builds the renderer-agnostic geometry of the plotter: the
// three grid tiers as line lists and the curve as a triangle-strip ribbon
// (or a plain polyline). Buffers are rebuilt from scratch on every
// regeneration and never patched.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"grapher/internal/graph"
)

var (
	ErrIndexOverflow      = errors.New("vertex count exceeds index width")
	ErrInvalidSampleCount = errors.New("at least two samples are required")
	ErrSampleMismatch     = errors.New("sample slices differ in length")
	ErrInvalidIndexWidth  = errors.New("index width must be 16 or 32")
	ErrTopology           = errors.New("unsupported topology")
)

type Topology int

const (
	LineList Topology = iota
	LineStrip
	TriangleStrip
	TriangleList
)

func (t Topology) String() string {
	switch t {
	case LineList:
		return "line-list"
	case LineStrip:
		return "line-strip"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleList:
		return "triangle-list"
	}
	return fmt.Sprintf("topology(%d)", int(t))
}

// Vec3 is a vertex attribute; z is always zero for plotter geometry.
type Vec3 [3]float64

func V2(x, y float64) Vec3 { return Vec3{x, y, 0} }

func (v Vec3) XY() graph.Point { return graph.Point{X: v[0], Y: v[1]} }

// Mesh is one geometry buffer: positions, per-vertex normals and indices
// interpreted according to Topology.
type Mesh struct {
	Topology  Topology
	Positions []Vec3
	Normals   []Vec3
	Indices   []uint32
}

func (m *Mesh) VertexCount() int { return len(m.Positions) }

// add appends one vertex and indexes it in order.
func (m *Mesh) add(p, n Vec3) {
	m.Indices = append(m.Indices, uint32(len(m.Positions)))
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
}

// IndexWidth is the integer width of the index buffer a host uploads.
type IndexWidth int

const (
	Index16 IndexWidth = 16
	Index32 IndexWidth = 32
)

func (w IndexWidth) Validate() error {
	if w != Index16 && w != Index32 {
		return fmt.Errorf("%w: %d", ErrInvalidIndexWidth, int(w))
	}
	return nil
}

// MaxVertices is the number of distinct vertices the width can address.
func (w IndexWidth) MaxVertices() int64 {
	if w == Index16 {
		return math.MaxUint16 + 1
	}
	return math.MaxUint32 + 1
}

// CheckIndexWidth fails when the mesh cannot be addressed with w.
func (m *Mesh) CheckIndexWidth(w IndexWidth) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if n := m.VertexCount(); int64(n) > w.MaxVertices() {
		return fmt.Errorf("%w: %d vertices, %d-bit indices", ErrIndexOverflow, n, int(w))
	}
	return nil
}

// Indices16 narrows the index buffer for hosts limited to 16-bit indices.
func (m *Mesh) Indices16() ([]uint16, error) {
	if err := m.CheckIndexWidth(Index16); err != nil {
		return nil, err
	}
	out := make([]uint16, len(m.Indices))
	for i, ix := range m.Indices {
		out[i] = uint16(ix)
	}
	return out, nil
}

// Triangles expands a triangle strip into an explicit triangle list with
// consistent winding. A triangle list is returned as a copy.
func (m *Mesh) Triangles() (*Mesh, error) {
	switch m.Topology {
	case TriangleList:
		cp := *m
		cp.Indices = append([]uint32(nil), m.Indices...)
		return &cp, nil
	case TriangleStrip:
	default:
		return nil, fmt.Errorf("%w: triangles from %s", ErrTopology, m.Topology)
	}
	out := &Mesh{Topology: TriangleList, Positions: m.Positions, Normals: m.Normals}
	if len(m.Indices) < 3 {
		return out, nil
	}
	out.Indices = make([]uint32, 0, 3*(len(m.Indices)-2))
	for i := 0; i+2 < len(m.Indices); i++ {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if i%2 == 1 {
			a, b = b, a
		}
		out.Indices = append(out.Indices, a, b, c)
	}
	return out, nil
}

// Segments returns the line segments of a line list or line strip in world
// coordinates.
func (m *Mesh) Segments() ([][2]graph.Point, error) {
	var segs [][2]graph.Point
	switch m.Topology {
	case LineList:
		segs = make([][2]graph.Point, 0, len(m.Indices)/2)
		for i := 0; i+1 < len(m.Indices); i += 2 {
			segs = append(segs, [2]graph.Point{m.at(i), m.at(i + 1)})
		}
	case LineStrip:
		for i := 0; i+1 < len(m.Indices); i++ {
			segs = append(segs, [2]graph.Point{m.at(i), m.at(i + 1)})
		}
	default:
		return nil, fmt.Errorf("%w: segments from %s", ErrTopology, m.Topology)
	}
	return segs, nil
}

// Outline walks a ribbon strip as a closed polygon: the positive side
// forwards, then the negative side backwards.
func (m *Mesh) Outline() ([]graph.Point, error) {
	if m.Topology != TriangleStrip {
		return nil, fmt.Errorf("%w: outline from %s", ErrTopology, m.Topology)
	}
	n := len(m.Indices)
	poly := make([]graph.Point, 0, n)
	for i := 0; i < n; i += 2 {
		poly = append(poly, m.at(i))
	}
	for i := n - 1 - (n % 2); i >= 1; i -= 2 {
		poly = append(poly, m.at(i))
	}
	return poly, nil
}

// Path returns the vertices of a line strip in order.
func (m *Mesh) Path() ([]graph.Point, error) {
	if m.Topology != LineStrip {
		return nil, fmt.Errorf("%w: path from %s", ErrTopology, m.Topology)
	}
	pts := make([]graph.Point, len(m.Indices))
	for i := range m.Indices {
		pts[i] = m.at(i)
	}
	return pts, nil
}

func (m *Mesh) at(i int) graph.Point { return m.Positions[m.Indices[i]].XY() }
