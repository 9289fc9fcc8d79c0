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
	"sort"

	"github.com/penny-vault/pv-dca/dataframe"
)

// ComputeValue returns a copy of df with a PortfolioValue column holding the
// value of a buy-and-hold position of initial split across the funds by
// weight on the first row:
//
//	PortfolioValue[row] = initial * Σ w[f] * NAV[f][row] / NAV[f][0]
//
// The portfolio is never rebalanced so the effective weights drift with the
// relative performance of the funds.
func ComputeValue(df *dataframe.DataFrame, weights WeightSet, initial float64) (*dataframe.DataFrame, error) {
	if df.Len() == 0 {
		return nil, ErrEmptyTimeline
	}

	if !(initial > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInitialInvestment, initial)
	}

	missing := make([]string, 0)
	keys := make([]string, 0, len(weights))
	for k := range weights {
		if df.ColIndex(k) == -1 {
			missing = append(missing, k)
		}
		keys = append(keys, k)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Columns: missing}
	}

	normalized, err := NormalizeWeights(weights)
	if err != nil {
		return nil, err
	}

	funds, _ := df.Split(keys...)
	for colIdx, col := range funds.Vals {
		if col[0] == 0 {
			return nil, fmt.Errorf("%w: %s", ErrZeroBasis, funds.ColNames[colIdx])
		}
	}

	value, err := funds.Rebase().WeightedSum(PortfolioValueColumn, normalized)
	if err != nil {
		return nil, err
	}
	value = value.MulScalar(initial)

	res := df.Copy()
	res.Insert(PortfolioValueColumn, value.Vals[0])

	return res, nil
}
