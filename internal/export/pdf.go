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
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"grapher/internal/engine"
	"grapher/internal/graph"
)

// WritePDF writes the frame as a one-page vector PDF. One window pixel maps
// to one point; built-in Helvetica keeps labels as vector text.
func WritePDF(w io.Writer, f *engine.Frame, st Style, title string) error {
	sc, err := buildScene(f)
	if err != nil {
		return err
	}
	st = st.withDefaults()

	size := gofpdf.SizeType{Wd: sc.width, Ht: sc.height}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    size,
	})
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("grapher", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", size)

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, sc.width, sc.height, "F")

	pdf.ClipRect(0, 0, sc.width, sc.height, false)
	for _, t := range sc.tiers {
		col, width := st.tier(t.tier)
		setDrawColor(pdf, col)
		pdf.SetLineWidth(width)
		for _, s := range t.segs {
			pdf.Line(s[0].X, s[0].Y, s[1].X, s[1].Y)
		}
	}
	if len(sc.ribbon) > 2 {
		setFillColor(pdf, st.Curve)
		pdf.Polygon(pdfPoints(sc.ribbon), "F")
	} else if len(sc.path) > 1 {
		setDrawColor(pdf, st.Curve)
		pdf.SetLineWidth(st.CurveWidth)
		pdf.SetLineJoinStyle("round")
		pts := sc.path
		pdf.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			pdf.LineTo(p.X, p.Y)
		}
		pdf.DrawPath("D")
	}
	pdf.ClipEnd()

	if !st.HideLabels {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(int(st.Label.R), int(st.Label.G), int(st.Label.B))
		for _, l := range sc.labels {
			pdf.Text(l.at.X, l.at.Y, l.text)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfPoints(pts []graph.Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
