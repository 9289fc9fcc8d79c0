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
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DCAOptions configures SimulateDCA. Zero values select the defaults.
type DCAOptions struct {
	// InitialInvestment is the basis PortfolioValue was computed with
	InitialInvestment float64

	// IncludeInitial starts every scenario with InitialInvestment already invested
	IncludeInitial bool

	// TradingDaysPerMonth is the number of rows between two contributions
	TradingDaysPerMonth int
}

func (opts DCAOptions) withDefaults() (DCAOptions, error) {
	if opts.InitialInvestment == 0 {
		opts.InitialInvestment = DefaultInitialInvestment
	}
	if !(opts.InitialInvestment > 0) || math.IsInf(opts.InitialInvestment, 0) {
		return opts, fmt.Errorf("%w: got %v", ErrInvalidInitialInvestment, opts.InitialInvestment)
	}

	if opts.TradingDaysPerMonth == 0 {
		opts.TradingDaysPerMonth = TradingDaysPerMonth
	}
	if opts.TradingDaysPerMonth < 0 {
		return opts, fmt.Errorf("%w: got %d", ErrInvalidTradingDays, opts.TradingDaysPerMonth)
	}

	return opts, nil
}

// SimulateDCA simulates investing each of amounts every TradingDaysPerMonth
// rows (never on row 0). The value of the capital deployed so far is the
// lump-sum PortfolioValue curve scaled by capital / InitialInvestment.
// Results are returned in the same order as amounts.
func SimulateDCA(df *dataframe.DataFrame, amounts []float64, opts DCAOptions) ([]*ScenarioResult, error) {
	value, err := df.Column(PortfolioValueColumn)
	if err != nil {
		return nil, ErrMissingPortfolioValue
	}

	opts, err = opts.withDefaults()
	if err != nil {
		return nil, err
	}

	for _, amount := range amounts {
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			return nil, fmt.Errorf("%w: got %v", ErrNegativeContribution, amount)
		}
	}

	results := make([]*ScenarioResult, len(amounts))

	// each scenario only reads value and writes its own slot
	var g errgroup.Group
	for idx, amount := range amounts {
		idx, amount := idx, amount
		g.Go(func() error {
			results[idx] = simulateScenario(value, amount, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().Int("NumScenarios", len(results)).Int("NumRows", len(value)).Msg("simulated dca scenarios")

	return results, nil
}

func simulateScenario(value []float64, amount float64, opts DCAOptions) *ScenarioResult {
	n := len(value)
	res := &ScenarioResult{
		MonthlyInvestment: amount,
		Portfolio:         make([]float64, n),
		Capital:           make([]float64, n),
		Interests:         make([]float64, n),
	}

	totalCapital := 0.0
	if opts.IncludeInitial {
		totalCapital = opts.InitialInvestment
	}

	for ii := 0; ii < n; ii++ {
		if ii != 0 && ii%opts.TradingDaysPerMonth == 0 {
			totalCapital += amount
		}

		res.Portfolio[ii] = value[ii] * (totalCapital / opts.InitialInvestment)
		res.Capital[ii] = totalCapital
		res.Interests[ii] = res.Portfolio[ii] - res.Capital[ii]
	}

	return res
}
