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

import "math"

// MidAxisDiff returns the mid-tier gridline separation for a zoom scale.
//
// The exponent bucket l2 = floor(log2(scale/10)) + 1 is split into factors of
// two and five, l5 = floor((l2+1)/3), giving 2^(l2-2*l5) * 5^l5. Successive
// buckets walk the 1-2-5 sequence (…, 0.1, 0.2, 0.5, 1, 2, 5, 10, …), so the
// visible range always holds roughly five to ten mid-tier cells.
func MidAxisDiff(scale float64) float64 {
	l2 := int(math.Floor(math.Log2(scale/10))) + 1
	l5 := floorDiv(l2+1, 3)
	return math.Pow(2, float64(l2-2*l5)) * math.Pow(5, float64(l5))
}

// floorDiv is integer division rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// AxisLineCount returns how many gridlines fit on one side of the bounds
// centre for each axis. The count deliberately includes one extra line;
// without it the outermost line goes missing at some scale boundaries.
func AxisLineCount(bounds GenerationBounds, separation float64) (xCount, yCount int) {
	xCount = int(math.Floor(bounds.XBounds.Extent()/2/separation)) + 1
	yCount = int(math.Floor(bounds.YBounds.Extent()/2/separation)) + 1
	return xCount, yCount
}

// RoundCentre snaps c to the nearest multiple of separation so gridlines stay
// on round numbers while the view pans.
func RoundCentre(c, separation float64) float64 {
	return math.Round(c/separation) * separation
}

// ComputeSpacing derives the mid-tier spacing for a view and the generation
// bounds that were computed from that same view.
func ComputeSpacing(view View, bounds GenerationBounds) (AxisSpacingInfo, error) {
	if err := view.Validate(); err != nil {
		return AxisSpacingInfo{}, err
	}
	sep := MidAxisDiff(view.Scale)
	xc, yc := AxisLineCount(bounds, sep)
	return AxisSpacingInfo{
		Separation:     sep,
		XLineCount:     xc,
		YLineCount:     yc,
		RoundedXCentre: RoundCentre(bounds.XBounds.Centre(), sep),
		RoundedYCentre: RoundCentre(bounds.YBounds.Centre(), sep),
	}, nil
}
