/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package graph

import (
	"math"
	"strconv"
)

// LabelAxis tells which main axis a label sits on.
type LabelAxis int

const (
	LabelX LabelAxis = iota
	LabelY
	LabelOrigin
)

func (a LabelAxis) String() string {
	switch a {
	case LabelX:
		return "x"
	case LabelY:
		return "y"
	default:
		return "origin"
	}
}

// AxisLabel is a numeric tick label anchored at a world position on one of
// the main axes.
type AxisLabel struct {
	Axis  LabelAxis
	Value float64
	Pos   Point
	Text  string
}

// AxisLabels places labels at the mid-tier gridlines along the main axes.
// Labels along x are only produced while the x axis (y = 0) lies strictly
// inside the y bounds, and vice versa; the origin label needs both.
func AxisLabels(bounds GenerationBounds, spacing AxisSpacingInfo) []AxisLabel {
	sep := spacing.Separation
	if !(sep > 0) {
		return nil
	}
	prec := LabelDecimals(sep)
	xAxis := bounds.YBounds.ContainsValue(0)
	yAxis := bounds.XBounds.ContainsValue(0)

	var out []AxisLabel
	if xAxis {
		for _, v := range tickValues(spacing.RoundedXCentre, sep, spacing.XLineCount, bounds.XBounds) {
			out = append(out, AxisLabel{Axis: LabelX, Value: v, Pos: Point{X: v}, Text: FormatTick(v, prec)})
		}
	}
	if yAxis {
		for _, v := range tickValues(spacing.RoundedYCentre, sep, spacing.YLineCount, bounds.YBounds) {
			out = append(out, AxisLabel{Axis: LabelY, Value: v, Pos: Point{Y: v}, Text: FormatTick(v, prec)})
		}
	}
	if xAxis && yAxis {
		out = append(out, AxisLabel{Axis: LabelOrigin, Text: "0"})
	}
	return out
}

// tickValues walks centre ± sep*i, skipping zero (the origin label covers it)
// and anything outside the bounds.
func tickValues(centre, sep float64, count int, within Interval) []float64 {
	eps := sep * 1e-9
	vals := make([]float64, 0, 2*count+1)
	add := func(v float64) {
		if math.Abs(v) < eps {
			return
		}
		if v < within.Start-eps || v > within.End+eps {
			return
		}
		vals = append(vals, v)
	}
	add(centre)
	for i := 1; i < count; i++ {
		d := sep * float64(i)
		add(centre + d)
		add(centre - d)
	}
	return vals
}

// LabelDecimals is the number of fraction digits needed to tell adjacent
// gridlines apart at the given separation.
func LabelDecimals(sep float64) int {
	d := int(math.Ceil(-math.Log10(sep) - 1e-9))
	if d < 0 {
		return 0
	}
	return d
}

// FormatTick renders v with prec fraction digits.
func FormatTick(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if s == "-0" || (len(s) > 1 && s[0] == '-' && isAllZero(s[1:])) {
		return s[1:]
	}
	return s
}

func isAllZero(s string) bool {
	for _, r := range s {
		if r != '0' && r != '.' {
			return false
		}
	}
	return true
}
