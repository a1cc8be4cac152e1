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
	"strconv"
	"strings"

	"grapher/internal/mesh"
)

// Style controls colours and stroke widths. Widths are in output pixels
// (points for PDF). Zero values are replaced by DefaultStyle's.
type Style struct {
	Background color.RGBA
	Minor      color.RGBA
	Mid        color.RGBA
	Main       color.RGBA
	Curve      color.RGBA
	Label      color.RGBA

	MinorWidth float64
	MidWidth   float64
	MainWidth  float64
	// CurveWidth is only used for polyline curves; ribbons carry their own
	// width in the geometry.
	CurveWidth float64

	HideLabels bool
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Minor:      color.RGBA{R: 235, G: 235, B: 235, A: 255},
		Mid:        color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Main:       color.RGBA{R: 40, G: 40, B: 40, A: 255},
		Curve:      color.RGBA{R: 30, G: 90, B: 200, A: 255},
		Label:      color.RGBA{R: 80, G: 80, B: 80, A: 255},
		MinorWidth: 1,
		MidWidth:   1,
		MainWidth:  1.5,
		CurveWidth: 2,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	var zero color.RGBA
	pick := func(c *color.RGBA, def color.RGBA) {
		if *c == zero {
			*c = def
		}
	}
	pick(&s.Background, d.Background)
	pick(&s.Minor, d.Minor)
	pick(&s.Mid, d.Mid)
	pick(&s.Main, d.Main)
	pick(&s.Curve, d.Curve)
	pick(&s.Label, d.Label)
	if s.MinorWidth <= 0 {
		s.MinorWidth = d.MinorWidth
	}
	if s.MidWidth <= 0 {
		s.MidWidth = d.MidWidth
	}
	if s.MainWidth <= 0 {
		s.MainWidth = d.MainWidth
	}
	if s.CurveWidth <= 0 {
		s.CurveWidth = d.CurveWidth
	}
	return s
}

func (s Style) tier(t mesh.Tier) (color.RGBA, float64) {
	switch t {
	case mesh.TierMain:
		return s.Main, s.MainWidth
	case mesh.TierMid:
		return s.Mid, s.MidWidth
	default:
		return s.Minor, s.MinorWidth
	}
}

// ParseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
