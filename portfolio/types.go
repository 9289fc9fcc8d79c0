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
	"errors"
	"fmt"
	"strings"
)

const (
	// TradingDaysPerMonth is the number of rows between two monthly contributions
	TradingDaysPerMonth = 21

	// FlatTaxRate is the flat withholding tax applied to gains at the end of a simulation
	FlatTaxRate = 0.30

	// WeightEpsilon is the tolerated deviation of the sum of weights from 1.0
	// before a warning is logged
	WeightEpsilon = 1e-6

	DefaultInitialInvestment = 10_000.0
)

// Names of the columns added to the timeline
const (
	PortfolioValueColumn    = "PortfolioValue"
	PortfolioDCAColumn      = "PortfolioDCA"
	CumulativeCapitalColumn = "CumulativeCapital"
)

var (
	ErrInvalidWeights           = errors.New("weights must be non-negative and sum to a positive value")
	ErrZeroBasis                = errors.New("fund value on the first row of the timeline is zero")
	ErrEmptyTimeline            = errors.New("timeline has no rows")
	ErrMissingPortfolioValue    = errors.New("timeline has no PortfolioValue column")
	ErrNegativeContribution     = errors.New("monthly contribution must be a non-negative number")
	ErrInvalidInitialInvestment = errors.New("initial investment must be positive")
	ErrInvalidTradingDays       = errors.New("trading days per month must be positive")
	ErrInvalidTaxRate           = errors.New("tax rate must be in [0, 1]")
	ErrScenarioLength           = errors.New("scenario length does not match the timeline")
	ErrUnknownFee               = errors.New("fee given for a fund that is not part of the portfolio")
)

// WeightSet maps a fund column key (see nav.ColumnKey) to its weight
type WeightSet map[string]float64

// FeeSet maps a fund column key to its annual fee expressed as a fraction
type FeeSet map[string]float64

// MissingColumnsError lists every weighted fund that is absent from the timeline
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("weights reference columns missing from the timeline: %s", strings.Join(e.Columns, ", "))
}

// ScenarioResult holds the simulated value of a single contribution plan.
// Every slice has one entry per row of the timeline.
type ScenarioResult struct {
	MonthlyInvestment float64   `json:"monthlyInvestment"`
	Portfolio         []float64 `json:"portfolio"`
	Capital           []float64 `json:"capital"`
	Interests         []float64 `json:"interests"`
}

// PerformanceRow summarizes a scenario at the last row of the timeline
type PerformanceRow struct {
	MonthlyInvestment  float64 `json:"monthlyInvestment"`
	AnnualizedReturn   float64 `json:"annualizedReturn"`
	CumulativeReturn   float64 `json:"cumulativeReturn"`
	FinalValue         float64 `json:"finalValue"`
	FinalValueAfterTax float64 `json:"finalValueAfterTax"`
	Years              float64 `json:"years"`
	TotalCapital       float64 `json:"totalCapital"`
	GrossGain          float64 `json:"grossGain"`
	NetGain            float64 `json:"netGain"`
	MaxDrawDown        float64 `json:"maxDrawDown"`
	Volatility         float64 `json:"volatility"`
	NoInvestment       bool    `json:"noInvestment"`
}
