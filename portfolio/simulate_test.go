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

package portfolio_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
)

var _ = Describe("Simulate", func() {
	var (
		series []*nav.Series
		cfg    *portfolio.Config
	)

	BeforeEach(func() {
		series = []*nav.Series{
			linearSeries("A", 100, 1.0, 2.0),
			linearSeries("B", 100, 1.0, 2.0),
		}
		cfg = portfolio.NewConfig(portfolio.WeightSet{"VL_A": 0.6, "VL_B": 0.4}, portfolio.FeeSet{}, 0, 100)
	})

	It("values two funds that both double", func() {
		res, err := portfolio.Simulate(series, cfg)
		Expect(err).To(BeNil())

		value, err := res.Timeline.Column(portfolio.PortfolioValueColumn)
		Expect(err).To(BeNil())
		Expect(value[0]).To(BeNumerically("~", 10_000, 1e-9))
		Expect(value[99]).To(BeNumerically("~", 20_000, 1e-9))

		Expect(res.Scenarios).To(HaveLen(2))
		Expect(res.Performance).To(HaveLen(2))
		Expect(res.Performance[0].NoInvestment).To(BeTrue())
		Expect(res.Performance[1].TotalCapital).To(Equal(400.0))
	})

	It("adds the first scenario to the timeline", func() {
		cfg.MonthlyInvestments = []float64{100, 0}
		res, err := portfolio.Simulate(series, cfg)
		Expect(err).To(BeNil())

		capital, err := res.Timeline.Column(portfolio.CumulativeCapitalColumn)
		Expect(err).To(BeNil())
		Expect(capital[99]).To(Equal(400.0))

		dca, err := res.Timeline.Column(portfolio.PortfolioDCAColumn)
		Expect(err).To(BeNil())
		Expect(dca).To(Equal(res.Scenarios[0].Portfolio))
	})

	It("returns normalized weights", func() {
		cfg.Weights = portfolio.WeightSet{"VL_A": 3, "VL_B": 1}
		res, err := portfolio.Simulate(series, cfg)
		Expect(err).To(BeNil())
		Expect(res.Weights["VL_A"]).To(BeNumerically("~", 0.75, 1e-12))
	})

	It("applies fees without modifying the input series", func() {
		flat := &nav.Series{ID: "A", Column: "VL_A", Dates: dailyDates(366), Values: make([]float64, 366)}
		for idx := range flat.Values {
			flat.Values[idx] = 10
		}

		cfg.Weights = portfolio.WeightSet{"VL_A": 1}
		cfg.Fees = portfolio.FeeSet{"VL_A": 0.01}
		res, err := portfolio.Simulate([]*nav.Series{flat}, cfg)
		Expect(err).To(BeNil())

		Expect(flat.Values[365]).To(Equal(10.0))
		adjusted, _ := res.Timeline.Column("VL_A")
		Expect(adjusted[365]).To(BeNumerically("~", 10*math.Pow(0.99, 365/365.25), 1e-9))
	})

	It("truncates the timeline at the end date", func() {
		cfg.EndDate = day(2020, 1, 31)
		res, err := portfolio.Simulate(series, cfg)
		Expect(err).To(BeNil())
		Expect(res.Timeline.Len()).To(Equal(31))
		Expect(res.Scenarios[1].Capital).To(HaveLen(31))
	})

	It("merges funds with different inception dates", func() {
		late := linearSeries("B", 100, 1.0, 2.0)
		late.Dates = late.Dates[50:]
		late.Values = late.Values[50:]

		res, err := portfolio.Simulate([]*nav.Series{series[0], late}, cfg)
		Expect(err).To(BeNil())
		Expect(res.Timeline.Len()).To(Equal(100))
		Expect(res.Timeline.HasNaN()).To(BeFalse())
	})

	It("rejects fees for unknown funds", func() {
		cfg.Fees = portfolio.FeeSet{"VL_Z": 0.01}
		_, err := portfolio.Simulate(series, cfg)
		Expect(errors.Is(err, portfolio.ErrUnknownFee)).To(BeTrue())
	})

	It("rejects weights for unknown funds", func() {
		cfg.Weights = portfolio.WeightSet{"VL_A": 0.5, "VL_Z": 0.5}
		_, err := portfolio.Simulate(series, cfg)
		var missingErr *portfolio.MissingColumnsError
		Expect(errors.As(err, &missingErr)).To(BeTrue())
		Expect(missingErr.Columns).To(Equal([]string{"VL_Z"}))
	})

	DescribeTable("validates the configuration", func(modify func(*portfolio.Config), expected error) {
		modify(cfg)
		Expect(errors.Is(cfg.Validate(), expected)).To(BeTrue())
	},
		Entry("fee of 100%", func(c *portfolio.Config) { c.Fees = portfolio.FeeSet{"VL_A": 1} }, nav.ErrInvalidFee),
		Entry("negative fee", func(c *portfolio.Config) { c.Fees = portfolio.FeeSet{"VL_A": -0.01} }, nav.ErrInvalidFee),
		Entry("zero initial investment", func(c *portfolio.Config) { c.InitialInvestment = 0 }, portfolio.ErrInvalidInitialInvestment),
		Entry("negative contribution", func(c *portfolio.Config) { c.MonthlyInvestments = []float64{-5} }, portfolio.ErrNegativeContribution),
		Entry("zero trading days", func(c *portfolio.Config) { c.TradingDaysPerMonth = 0 }, portfolio.ErrInvalidTradingDays),
		Entry("unknown day count", func(c *portfolio.Config) { c.DayCount = "lunar" }, nav.ErrUnknownDayCount),
		Entry("tax rate above one", func(c *portfolio.Config) { c.TaxRate = 2 }, portfolio.ErrInvalidTaxRate),
		Entry("negative weight", func(c *portfolio.Config) { c.Weights = portfolio.WeightSet{"VL_A": -1} }, portfolio.ErrInvalidWeights),
	)

	It("accepts the default configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})
})
