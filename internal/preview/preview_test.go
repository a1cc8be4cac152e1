/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grapher/internal/engine"
	"grapher/internal/mesh"
)

func line(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2 * x
	}
	return ys
}

func TestCurveSamplesRecoverCentreline(t *testing.T) {
	e, err := engine.New(engine.EvaluatorFunc(line), engine.Options{})
	require.NoError(t, err)
	xs, ys := CurveSamples(e.Frame())
	require.NotEmpty(t, xs)
	// visible range only: half of the generated samples
	assert.InDelta(t, mesh.DefaultResolution/2, len(xs), 1)
	for i := range xs {
		assert.GreaterOrEqual(t, xs[i], -5.0)
		assert.LessOrEqual(t, xs[i], 5.0)
		assert.InDelta(t, 2*xs[i], ys[i], 1e-9)
	}
}

func TestRender(t *testing.T) {
	e, err := engine.New(engine.EvaluatorFunc(line), engine.Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, e.Frame(), Options{Width: 40, Height: 8, Title: "f(x) = 2*x"}))
	out := buf.String()
	assert.Contains(t, out, "f(x) = 2*x")
	assert.Contains(t, out, "x from -5")
	assert.Contains(t, out, "scale 5")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 8)
}

func TestRenderWithoutCurve(t *testing.T) {
	_, err := Render(&engine.Frame{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoSamples)
}
