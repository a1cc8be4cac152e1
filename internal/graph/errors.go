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
	"errors"
	"math"
)

// Precondition failures. They are programmer or host errors; the core fails
// fast instead of emitting degenerate geometry.
var (
	ErrInvalidScale    = errors.New("scale must be positive and finite")
	ErrInvalidWindow   = errors.New("window size must be positive")
	ErrInvalidInterval = errors.New("interval start must not exceed end")
	ErrInvalidFactor   = errors.New("pregeneration factor must be at least 1")
)

func isInf(v float64) bool { return math.IsInf(v, 0) }
