/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package mesh

import "grapher/internal/graph"

var (
	horizontalNormal = Vec3{0, 1, 0}
	verticalNormal   = Vec3{1, 0, 0}
)

// Tier identifies one of the three grid line sets.
type Tier int

const (
	TierMain Tier = iota
	TierMid
	TierMinor
)

func (t Tier) String() string {
	switch t {
	case TierMain:
		return "main"
	case TierMid:
		return "mid"
	default:
		return "minor"
	}
}

// MainAxis builds the coordinate axes: y = 0 across the x bounds and x = 0
// across the y bounds.
func MainAxis(b graph.GenerationBounds) *Mesh {
	m := &Mesh{Topology: LineList}
	m.add(V2(b.XBounds.Start, 0), horizontalNormal)
	m.add(V2(b.XBounds.End, 0), horizontalNormal)
	m.add(V2(0, b.YBounds.Start), verticalNormal)
	m.add(V2(0, b.YBounds.End), verticalNormal)
	return m
}

// TierAxis builds one tier of gridlines. Horizontal lines come first: the
// one through the rounded y centre, then pairs at ±separation*i for
// i in [1, YLineCount). Verticals follow the same way. Every line spans the
// full opposite extent of the bounds.
func TierAxis(info graph.AxisSpacingInfo, b graph.GenerationBounds) *Mesh {
	nh := max(2*info.YLineCount-1, 0)
	nv := max(2*info.XLineCount-1, 0)
	m := &Mesh{
		Topology:  LineList,
		Positions: make([]Vec3, 0, 2*(nh+nv)),
		Normals:   make([]Vec3, 0, 2*(nh+nv)),
		Indices:   make([]uint32, 0, 2*(nh+nv)),
	}
	horizontal := func(y float64) {
		m.add(V2(b.XBounds.Start, y), horizontalNormal)
		m.add(V2(b.XBounds.End, y), horizontalNormal)
	}
	vertical := func(x float64) {
		m.add(V2(x, b.YBounds.Start), verticalNormal)
		m.add(V2(x, b.YBounds.End), verticalNormal)
	}
	if info.YLineCount > 0 {
		horizontal(info.RoundedYCentre)
	}
	for i := 1; i < info.YLineCount; i++ {
		d := info.Separation * float64(i)
		horizontal(info.RoundedYCentre + d)
		horizontal(info.RoundedYCentre - d)
	}
	if info.XLineCount > 0 {
		vertical(info.RoundedXCentre)
	}
	for i := 1; i < info.XLineCount; i++ {
		d := info.Separation * float64(i)
		vertical(info.RoundedXCentre + d)
		vertical(info.RoundedXCentre - d)
	}
	return m
}

func MidAxis(info graph.AxisSpacingInfo, b graph.GenerationBounds) *Mesh {
	return TierAxis(info, b)
}

func MinorAxis(info graph.AxisSpacingInfo, b graph.GenerationBounds) *Mesh {
	return TierAxis(info.Minor(), b)
}
