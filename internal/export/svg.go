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
	"bytes"
	"fmt"
	"io"
	"strings"

	"grapher/internal/engine"
	"grapher/internal/graph"
)

// WriteSVG writes the frame as a standalone SVG document. Geometry outside
// the window is clipped by the viewBox.
func WriteSVG(w io.Writer, f *engine.Frame, st Style) error {
	sc, err := buildScene(f)
	if err != nil {
		return err
	}
	st = st.withDefaults()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", sc.width, sc.height, sc.width, sc.height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", sc.width, sc.height, svgColor(st.Background))

	for _, t := range sc.tiers {
		col, width := st.tier(t.tier)
		wf("  <g id=\"%s\" stroke=\"%s\" stroke-width=\"%g\">\n", t.tier, svgColor(col), width)
		for _, s := range t.segs {
			wf("    <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", s[0].X, s[0].Y, s[1].X, s[1].Y)
		}
		wf("  </g>\n")
	}

	if len(sc.ribbon) > 2 {
		wf("  <polygon id=\"curve\" fill=\"%s\" fill-rule=\"nonzero\" points=\"%s\"/>\n", svgColor(st.Curve), svgPoints(sc.ribbon))
	} else if len(sc.path) > 1 {
		wf("  <polyline id=\"curve\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" points=\"%s\"/>\n", svgColor(st.Curve), st.CurveWidth, svgPoints(sc.path))
	}

	if !st.HideLabels && len(sc.labels) > 0 {
		wf("  <g id=\"labels\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"11\" fill=\"%s\">\n", svgColor(st.Label))
		for _, l := range sc.labels {
			wf("    <text x=\"%.2f\" y=\"%.2f\">%s</text>\n", l.at.X, l.at.Y, escText(l.text))
		}
		wf("  </g>\n")
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pts []graph.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	return b.String()
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
