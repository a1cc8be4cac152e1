/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"grapher/internal/graph"
)

const defaultCacheTTL = time.Minute

// sampleCache keeps raw evaluator output keyed by the exact sampled x
// interval and resolution. Undo, redo and resizes back to an earlier size
// land on identical bounds and skip the evaluator.
type sampleCache struct {
	c            *cache.Cache
	hits, misses int
}

func newSampleCache(ttl time.Duration) *sampleCache {
	if ttl < 0 {
		return &sampleCache{}
	}
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &sampleCache{c: cache.New(ttl, 2*ttl)}
}

func sampleKey(xb graph.Interval, resolution int) string {
	return fmt.Sprintf("%016x:%016x:%d", math.Float64bits(xb.Start), math.Float64bits(xb.End), resolution)
}

func (s *sampleCache) get(xb graph.Interval, resolution int) ([]float64, bool) {
	if s.c == nil {
		s.misses++
		return nil, false
	}
	v, ok := s.c.Get(sampleKey(xb, resolution))
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	return v.([]float64), true
}

func (s *sampleCache) put(xb graph.Interval, resolution int, ys []float64) {
	if s.c == nil {
		return
	}
	s.c.Set(sampleKey(xb, resolution), append([]float64(nil), ys...), cache.DefaultExpiration)
}
