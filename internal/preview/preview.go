/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package preview prints a frame's curve as a terminal chart.
package preview

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"grapher/internal/engine"
	"grapher/internal/graph"
	"grapher/internal/mesh"
)

var ErrNoSamples = errors.New("preview: no curve samples in the visible range")

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type Options struct {
	// Width and Height are the plot area in terminal cells.
	Width  int
	Height int
	Title  string
}

func DefaultOptions() Options { return Options{Width: 72, Height: 18} }

// CurveSamples recovers the curve centreline from the frame's curve mesh,
// restricted to the visible x range.
func CurveSamples(f *engine.Frame) (xs, ys []float64) {
	if f == nil || f.Curve == nil {
		return nil, nil
	}
	vis := f.View.VisibleXBounds()
	keep := func(x, y float64) {
		if x >= vis.Start && x <= vis.End {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	pos := f.Curve.Positions
	switch f.Curve.Topology {
	case mesh.TriangleStrip:
		for i := 0; i+1 < len(pos); i += 2 {
			keep((pos[i][0]+pos[i+1][0])/2, (pos[i][1]+pos[i+1][1])/2)
		}
	case mesh.LineStrip:
		for _, p := range pos {
			keep(p[0], p[1])
		}
	}
	return xs, ys
}

// Render returns the styled chart.
func Render(f *engine.Frame, opts Options) (string, error) {
	xs, ys := CurveSamples(f)
	if len(ys) == 0 {
		return "", ErrNoSamples
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	chart := asciigraph.Plot(ys,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(uint(graph.LabelDecimals(f.Spacing.Separation)+1)),
		asciigraph.Caption(fmt.Sprintf("x from %.4g to %.4g", xs[0], xs[len(xs)-1])))

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(headerStyle.Render(opts.Title))
		b.WriteString("\n")
	}
	b.WriteString(graphStyle.Render(chart))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("centre %s  scale %g  samples %d  substituted %d",
		f.View.Centre, f.View.Scale, len(ys), f.Substituted)))
	b.WriteString("\n")
	return b.String(), nil
}

// Write renders the chart to w.
func Write(w io.Writer, f *engine.Frame, opts Options) error {
	s, err := Render(f, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}
