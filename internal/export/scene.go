/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"

	"grapher/internal/engine"
	"grapher/internal/graph"
	"grapher/internal/mesh"
)

var ErrNoFrame = errors.New("export: frame has no geometry")

// tierLines is one grid tier in screen space.
type tierLines struct {
	tier mesh.Tier
	segs [][2]graph.Point
}

type placedLabel struct {
	text string
	at   graph.Point
}

// scene is a frame projected to output pixels, origin top-left, y down.
// Every backend draws the same scene.
type scene struct {
	width, height float64
	tiers         []tierLines
	// ribbon is the closed outline of a ribbon curve; path the vertices of
	// a polyline curve. Exactly one is set.
	ribbon []graph.Point
	path   []graph.Point
	labels []placedLabel
}

func buildScene(f *engine.Frame) (*scene, error) {
	if f == nil || f.Curve == nil || f.Main == nil {
		return nil, ErrNoFrame
	}
	p := f.Projection
	sc := &scene{width: f.Window.Width, height: f.Window.Height}
	toScreen := func(pts []graph.Point) []graph.Point {
		out := make([]graph.Point, len(pts))
		for i, pt := range pts {
			out[i] = p.WorldToScreen(pt)
		}
		return out
	}
	for _, t := range []mesh.Tier{mesh.TierMinor, mesh.TierMid, mesh.TierMain} {
		segs, err := f.Tier(t).Segments()
		if err != nil {
			return nil, fmt.Errorf("%s tier: %w", t, err)
		}
		for i, s := range segs {
			segs[i] = [2]graph.Point{p.WorldToScreen(s[0]), p.WorldToScreen(s[1])}
		}
		sc.tiers = append(sc.tiers, tierLines{tier: t, segs: segs})
	}
	switch f.Curve.Topology {
	case mesh.TriangleStrip:
		poly, err := f.Curve.Outline()
		if err != nil {
			return nil, err
		}
		sc.ribbon = toScreen(poly)
	case mesh.LineStrip:
		path, err := f.Curve.Path()
		if err != nil {
			return nil, err
		}
		sc.path = toScreen(path)
	default:
		return nil, fmt.Errorf("curve: %w: %s", mesh.ErrTopology, f.Curve.Topology)
	}
	for _, l := range f.Labels {
		at := p.WorldToScreen(l.Pos)
		switch l.Axis {
		case graph.LabelY:
			at = at.Add(graph.Pt(4, 4))
		default:
			at = at.Add(graph.Pt(3, 13))
		}
		if at.X < 0 || at.Y < 0 || at.X > sc.width || at.Y > sc.height {
			continue
		}
		sc.labels = append(sc.labels, placedLabel{text: l.Text, at: at})
	}
	return sc, nil
}
