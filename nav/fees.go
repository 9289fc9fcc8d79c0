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

package nav

import (
	"fmt"
	"math"
)

// FeeFactor returns the cumulative drag of an annual fee after k rows:
// ((1 - fee) ^ (1 / daysPerYear)) ^ k
func FeeFactor(fee float64, k int, dc DayCount) float64 {
	daily := math.Pow(1-fee, 1/dc.DaysPerYear())
	return math.Pow(daily, float64(k))
}

// ApplyFees reduces the NAV of s by the annual fee, compounded once per row.
// The first row is left unchanged. s is modified in-place and returned.
func ApplyFees(s *Series, fee float64, dc DayCount) (*Series, error) {
	if math.IsNaN(fee) || fee < 0 || fee >= 1 {
		return nil, fmt.Errorf("fund %q: %w (got %v)", s.ID, ErrInvalidFee, fee)
	}

	if fee == 0 {
		return s, nil
	}

	daily := math.Pow(1-fee, 1/dc.DaysPerYear())
	for k := range s.Values {
		s.Values[k] *= math.Pow(daily, float64(k))
	}

	return s, nil
}
