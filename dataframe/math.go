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

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MulScalar multiplies all columns in dataframe df by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		floats.Scale(scalar, df.Vals[colIdx])
	}
	return df
}

// Rebase divides every column by its value in the first row so that all
// columns start at 1.0 and returns a new dataframe. Columns whose first value
// is zero become +Inf/NaN; callers should check the basis beforehand.
func (df *DataFrame) Rebase() *DataFrame {
	df = df.Copy()
	if df.Len() == 0 {
		return df
	}

	for _, col := range df.Vals {
		basis := col[0]
		for rowIdx := range col {
			col[rowIdx] /= basis
		}
	}
	return df
}

// WeightedSum computes ∑ weights[col] * df[col] for the requested columns and
// returns a new single column dataframe named name. Every key of weights must
// be a column of df.
func (df *DataFrame) WeightedSum(name string, weights map[string]float64) (*DataFrame, error) {
	res := &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{name},
		Vals:     [][]float64{make([]float64, df.Len())},
	}

	// iterate in column order so the floating point sum is deterministic
	found := 0
	for colIdx, colName := range df.ColNames {
		w, ok := weights[colName]
		if !ok {
			continue
		}
		floats.AddScaled(res.Vals[0], w, df.Vals[colIdx])
		found++
	}

	if found != len(weights) {
		for colName := range weights {
			if df.ColIndex(colName) == -1 {
				return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
			}
		}
	}

	return res, nil
}
