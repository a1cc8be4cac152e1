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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"grapher/internal/engine"
	"grapher/internal/graph"
)

// UseLogger routes the rasteriser's own diagnostics to l.
func UseLogger(l *slog.Logger) { gg.SetLogger(l) }

// RenderImage rasterises a frame at its window size: grid tiers as stroked
// lines, the ribbon as a filled polygon, labels in a fixed bitmap face.
func RenderImage(f *engine.Frame, st Style) (*image.RGBA, error) {
	sc, err := buildScene(f)
	if err != nil {
		return nil, err
	}
	st = st.withDefaults()
	w := max(int(math.Round(sc.width)), 1)
	h := max(int(math.Round(sc.height)), 1)

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.FromColor(st.Background))
	if err := paintScene(dc, sc, st); err != nil {
		return nil, fmt.Errorf("rasterise: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)
	if !st.HideLabels {
		drawLabels(img, sc.labels, st.Label)
	}
	return img, nil
}

// painter is the part of *gg.Context the scene is drawn through.
type painter interface {
	SetColor(c color.Color)
	SetLineWidth(width float64)
	SetFillRule(rule gg.FillRule)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Fill() error
	Stroke() error
}

func paintScene(p painter, sc *scene, st Style) error {
	for _, t := range sc.tiers {
		col, width := st.tier(t.tier)
		p.SetColor(col)
		p.SetLineWidth(width)
		for _, s := range t.segs {
			p.MoveTo(s[0].X, s[0].Y)
			p.LineTo(s[1].X, s[1].Y)
		}
		if err := p.Stroke(); err != nil {
			return fmt.Errorf("%s grid: %w", t.tier, err)
		}
	}

	p.SetColor(st.Curve)
	if len(sc.ribbon) > 2 {
		p.SetFillRule(gg.FillRuleNonZero)
		tracePath(p, sc.ribbon)
		p.ClosePath()
		if err := p.Fill(); err != nil {
			return fmt.Errorf("curve: %w", err)
		}
	} else if len(sc.path) > 1 {
		p.SetLineWidth(st.CurveWidth)
		tracePath(p, sc.path)
		if err := p.Stroke(); err != nil {
			return fmt.Errorf("curve: %w", err)
		}
	}
	return nil
}

func tracePath(p painter, pts []graph.Point) {
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
}

func drawLabels(img *image.RGBA, labels []placedLabel, col color.RGBA) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	for _, l := range labels {
		d.Dot = fixed.Point26_6{X: fixed.I(int(l.at.X)), Y: fixed.I(int(l.at.Y))}
		d.DrawString(l.text)
	}
}
