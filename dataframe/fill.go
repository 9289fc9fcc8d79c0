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

package dataframe

import "math"

// Interpolate fills NaN values that lie between two observations with a linear
// interpolation over the row position (rows are treated as equally spaced).
// Leading and trailing NaN values are left untouched. Operates in-place.
func (df *DataFrame) Interpolate() *DataFrame {
	for _, col := range df.Vals {
		prev := -1
		for rowIdx, val := range col {
			if math.IsNaN(val) {
				continue
			}

			if prev != -1 && rowIdx-prev > 1 {
				step := (val - col[prev]) / float64(rowIdx-prev)
				for ii := prev + 1; ii < rowIdx; ii++ {
					col[ii] = col[prev] + step*float64(ii-prev)
				}
			}
			prev = rowIdx
		}
	}

	return df
}

// ForwardFill replaces NaN values with the last observed value in the same
// column. Operates in-place.
func (df *DataFrame) ForwardFill() *DataFrame {
	for _, col := range df.Vals {
		last := math.NaN()
		for rowIdx, val := range col {
			if math.IsNaN(val) {
				col[rowIdx] = last
			} else {
				last = val
			}
		}
	}

	return df
}

// BackwardFill replaces NaN values with the next observed value in the same
// column. Operates in-place.
func (df *DataFrame) BackwardFill() *DataFrame {
	for _, col := range df.Vals {
		next := math.NaN()
		for rowIdx := len(col) - 1; rowIdx >= 0; rowIdx-- {
			if math.IsNaN(col[rowIdx]) {
				col[rowIdx] = next
			} else {
				next = col[rowIdx]
			}
		}
	}

	return df
}

// Fill runs Interpolate, ForwardFill and BackwardFill in that order
func (df *DataFrame) Fill() *DataFrame {
	return df.Interpolate().ForwardFill().BackwardFill()
}
