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

	"github.com/penny-vault/pv-dca/dataframe"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/rs/zerolog/log"
)

// PerformanceOptions configures ComputePerformance. Unlike DCAOptions the zero
// value is not the default: a zero TaxRate reports gains untaxed. Start from
// DefaultPerformanceOptions to get the flat tax rate.
type PerformanceOptions struct {
	// DayCount selects how returns are annualized. Calendar uses the number
	// of calendar days between the first and last date, Trading uses the
	// number of rows divided by 252.
	DayCount nav.DayCount

	// TaxRate is applied to positive gains only; zero disables the tax and
	// FlatTaxRate is the standard withholding
	TaxRate float64
}

// DefaultPerformanceOptions uses the calendar convention and the flat tax rate
func DefaultPerformanceOptions() PerformanceOptions {
	return PerformanceOptions{
		DayCount: nav.Calendar,
		TaxRate:  FlatTaxRate,
	}
}

// ComputePerformance summarizes each scenario at the last row of df. Rows are
// returned in the order of scenarios.
func ComputePerformance(df *dataframe.DataFrame, scenarios []*ScenarioResult, opts PerformanceOptions) ([]*PerformanceRow, error) {
	n := df.Len()
	if n == 0 {
		return nil, ErrEmptyTimeline
	}

	if math.IsNaN(opts.TaxRate) || opts.TaxRate < 0 || opts.TaxRate > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTaxRate, opts.TaxRate)
	}

	numYears := df.End().Sub(df.Start()).Hours() / 24 / nav.CalendarDaysPerYear

	var period float64
	switch opts.DayCount {
	case nav.Trading:
		period = float64(n) / nav.TradingDaysPerYear
	default:
		period = numYears
	}

	// the drawdown and volatility of the unit curve are shared by all
	// scenarios since each one scales it by its deployed capital. Rows are
	// trading sessions so volatility is annualized over trading days for
	// either day count convention.
	var maxDrawDown, volatility float64
	if value, err := df.Column(PortfolioValueColumn); err == nil {
		if dd := MaxDrawDown(df.Dates, value); dd != nil {
			maxDrawDown = dd.LossPercent
		}
		volatility = Volatility(value, nav.TradingDaysPerYear)
	}

	rows := make([]*PerformanceRow, 0, len(scenarios))
	for _, scenario := range scenarios {
		if len(scenario.Portfolio) != n || len(scenario.Capital) != n {
			return nil, fmt.Errorf("%w: scenario %v has %d rows, timeline has %d", ErrScenarioLength,
				scenario.MonthlyInvestment, len(scenario.Portfolio), n)
		}

		row := &PerformanceRow{
			MonthlyInvestment: scenario.MonthlyInvestment,
			Years:             numYears,
		}

		finalValue := scenario.Portfolio[n-1]
		capital := scenario.Capital[n-1]

		if capital == 0 {
			log.Warn().Float64("MonthlyInvestment", scenario.MonthlyInvestment).Int("NumRows", n).
				Msg("no capital was invested in scenario")
			row.NoInvestment = true
			rows = append(rows, row)
			continue
		}

		totalReturn := finalValue/capital - 1

		annualized := totalReturn
		if period > 0 {
			annualized = math.Pow(1+totalReturn, 1/period) - 1
		}

		grossGain := finalValue - capital
		netGain := grossGain
		if grossGain > 0 {
			netGain = grossGain * (1 - opts.TaxRate)
		}

		row.AnnualizedReturn = annualized
		row.CumulativeReturn = totalReturn
		row.FinalValue = finalValue
		row.FinalValueAfterTax = capital + netGain
		row.TotalCapital = capital
		row.GrossGain = grossGain
		row.NetGain = netGain
		row.MaxDrawDown = maxDrawDown
		row.Volatility = volatility

		rows = append(rows, row)
	}

	return rows, nil
}
