// Copyright 2021-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
)

// NormalizeWeights returns a copy of weights rescaled so that they sum to 1.0.
// A warning is logged when the input deviates from 1.0 by more than
// WeightEpsilon. Negative or non-finite weights and an all-zero set are
// rejected.
func NormalizeWeights(weights WeightSet) (WeightSet, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights given", ErrInvalidWeights)
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		w := weights[k]
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: %s has weight %v", ErrInvalidWeights, k, w)
		}
		sum += w
	}

	if sum == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}

	if math.Abs(sum-1) > WeightEpsilon {
		log.Warn().Float64("Sum", sum).Int("NumFunds", len(weights)).Msg("weights do not sum to 1.0; rescaling")
	}

	normalized := make(WeightSet, len(weights))
	for _, k := range keys {
		normalized[k] = weights[k] / sum
	}

	return normalized, nil
}
