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
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// DrawDown is the period in which a value curve falls from its previous peak
type DrawDown struct {
	Begin       time.Time `json:"begin"`
	End         time.Time `json:"end"`
	Recovery    time.Time `json:"recovery"`
	LossPercent float64   `json:"lossPercent"`
}

func (dd *DrawDown) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Begin", dd.Begin)
	e.Time("End", dd.End)
	e.Time("Recovery", dd.Recovery)
	e.Float64("LossPercent", dd.LossPercent)
}

// AllDrawDowns computes all draw downs of values. A draw down starts on the
// last date before the curve falls below its running peak, ends at the
// trough and recovers when the curve reaches the peak again. A draw down that
// has not recovered by the last row has a zero Recovery date.
func AllDrawDowns(dates []time.Time, values []float64) []*DrawDown {
	allDrawDowns := []*DrawDown{}
	if len(values) < 2 || len(dates) != len(values) {
		return allDrawDowns
	}

	peak := values[0]

	var drawDown *DrawDown
	var prev time.Time
	for idx, value := range values {
		peak = math.Max(peak, value)
		if value < peak && peak > 0 {
			loss := value/peak - 1.0
			if drawDown == nil {
				drawDown = &DrawDown{
					Begin:       prev,
					End:         dates[idx],
					LossPercent: loss,
				}
			}

			if loss < drawDown.LossPercent {
				drawDown.End = dates[idx]
				drawDown.LossPercent = loss
			}
		} else if drawDown != nil {
			drawDown.Recovery = dates[idx]
			allDrawDowns = append(allDrawDowns, drawDown)
			drawDown = nil
		}
		prev = dates[idx]
	}

	if drawDown != nil {
		allDrawDowns = append(allDrawDowns, drawDown)
	}

	return allDrawDowns
}

// MaxDrawDown returns the largest draw down of values or nil if the curve
// never falls below a previous peak
func MaxDrawDown(dates []time.Time, values []float64) *DrawDown {
	allDrawDowns := AllDrawDowns(dates, values)
	if len(allDrawDowns) == 0 {
		return nil
	}

	sort.SliceStable(allDrawDowns, func(i, j int) bool {
		return allDrawDowns[i].LossPercent < allDrawDowns[j].LossPercent
	})

	return allDrawDowns[0]
}

// Volatility is the annualized standard deviation of the row over row
// returns of values
func Volatility(values []float64, periodsPerYear float64) float64 {
	if len(values) < 3 {
		return 0
	}

	rets := make([]float64, 0, len(values)-1)
	for idx := 1; idx < len(values); idx++ {
		if values[idx-1] == 0 {
			continue
		}
		rets = append(rets, values[idx]/values[idx-1]-1)
	}

	if len(rets) < 2 {
		return 0
	}

	return stat.StdDev(rets, nil) * math.Sqrt(periodsPerYear)
}
