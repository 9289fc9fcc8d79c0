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
	"time"

	"github.com/penny-vault/pv-dca/dataframe"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/rs/zerolog/log"
)

// Config holds every parameter of a simulation
type Config struct {
	Weights             WeightSet
	Fees                FeeSet
	InitialInvestment   float64
	IncludeInitial      bool
	MonthlyInvestments  []float64
	TradingDaysPerMonth int
	DayCount            nav.DayCount
	TaxRate             float64

	// EndDate optionally truncates the timeline; zero means no limit
	EndDate time.Time
}

// Result is the output of Simulate
type Result struct {
	Timeline    *dataframe.DataFrame `json:"-"`
	Scenarios   []*ScenarioResult    `json:"scenarios"`
	Performance []*PerformanceRow    `json:"performance"`
	Weights     WeightSet            `json:"weights"`
}

// NewConfig returns a config populated with the default policy constants
func NewConfig(weights WeightSet, fees FeeSet, amounts ...float64) *Config {
	return &Config{
		Weights:             weights,
		Fees:                fees,
		InitialInvestment:   DefaultInitialInvestment,
		MonthlyInvestments:  amounts,
		TradingDaysPerMonth: TradingDaysPerMonth,
		DayCount:            nav.Calendar,
		TaxRate:             FlatTaxRate,
	}
}

// Validate checks the ranges of every parameter
func (cfg *Config) Validate() error {
	if _, err := NormalizeWeights(cfg.Weights); err != nil {
		return err
	}

	keys := make([]string, 0, len(cfg.Fees))
	for k := range cfg.Fees {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := cfg.Fees[k]
		if math.IsNaN(f) || f < 0 || f >= 1 {
			return fmt.Errorf("fund %q: %w (got %v)", k, nav.ErrInvalidFee, f)
		}
	}

	if !(cfg.InitialInvestment > 0) || math.IsInf(cfg.InitialInvestment, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidInitialInvestment, cfg.InitialInvestment)
	}

	for _, amount := range cfg.MonthlyInvestments {
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			return fmt.Errorf("%w: got %v", ErrNegativeContribution, amount)
		}
	}

	if cfg.TradingDaysPerMonth <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTradingDays, cfg.TradingDaysPerMonth)
	}

	if _, err := nav.ParseDayCount(string(cfg.DayCount)); err != nil {
		return err
	}

	if math.IsNaN(cfg.TaxRate) || cfg.TaxRate < 0 || cfg.TaxRate > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidTaxRate, cfg.TaxRate)
	}

	return nil
}

// Simulate runs the full pipeline: fees are applied to copies of series, the
// series are merged into one timeline, valued with the configured weights and
// every monthly contribution is simulated. The timeline of the result also
// carries the PortfolioDCA and CumulativeCapital columns of the first
// scenario.
func Simulate(series []*nav.Series, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dayCount, _ := nav.ParseDayCount(string(cfg.DayCount))

	known := make(map[string]bool, len(series))
	for _, s := range series {
		if s != nil {
			known[s.Column] = true
		}
	}
	for k := range cfg.Fees {
		if !known[k] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFee, k)
		}
	}

	adjusted := make([]*nav.Series, len(series))
	for idx, s := range series {
		if s == nil {
			return nil, nav.ErrEmptySeries
		}
		fee := cfg.Fees[s.Column]
		a, err := nav.ApplyFees(s.Copy(), fee, dayCount)
		if err != nil {
			return nil, err
		}
		adjusted[idx] = a
	}

	timeline, err := nav.Merge(adjusted...)
	if err != nil {
		return nil, err
	}

	if !cfg.EndDate.IsZero() {
		timeline = timeline.Trim(timeline.Start(), cfg.EndDate)
		if timeline.Len() == 0 {
			return nil, fmt.Errorf("%w: no observation before %s", ErrEmptyTimeline, cfg.EndDate.Format("2006-01-02"))
		}
	}

	weights, err := NormalizeWeights(cfg.Weights)
	if err != nil {
		return nil, err
	}

	timeline, err = ComputeValue(timeline, weights, cfg.InitialInvestment)
	if err != nil {
		return nil, err
	}

	scenarios, err := SimulateDCA(timeline, cfg.MonthlyInvestments, DCAOptions{
		InitialInvestment:   cfg.InitialInvestment,
		IncludeInitial:      cfg.IncludeInitial,
		TradingDaysPerMonth: cfg.TradingDaysPerMonth,
	})
	if err != nil {
		return nil, err
	}

	perf, err := ComputePerformance(timeline, scenarios, PerformanceOptions{
		DayCount: dayCount,
		TaxRate:  cfg.TaxRate,
	})
	if err != nil {
		return nil, err
	}

	if len(scenarios) > 0 {
		timeline.Insert(PortfolioDCAColumn, scenarios[0].Portfolio)
		timeline.Insert(CumulativeCapitalColumn, scenarios[0].Capital)
	}

	log.Info().Int("NumFunds", len(series)).Int("NumRows", timeline.Len()).
		Time("Start", timeline.Start()).Time("End", timeline.End()).
		Int("NumScenarios", len(scenarios)).Msg("simulation complete")

	return &Result{
		Timeline:    timeline,
		Scenarios:   scenarios,
		Performance: perf,
		Weights:     weights,
	}, nil
}
