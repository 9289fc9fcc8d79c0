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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/dataframe"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
)

var _ = Describe("Weights", func() {
	It("leaves weights that sum to one unchanged", func() {
		w, err := portfolio.NormalizeWeights(portfolio.WeightSet{"VL_A": 0.6, "VL_B": 0.4})
		Expect(err).To(BeNil())
		Expect(w["VL_A"]).To(BeNumerically("~", 0.6, 1e-12))
		Expect(w["VL_B"]).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("rescales weights given in percent", func() {
		w, err := portfolio.NormalizeWeights(portfolio.WeightSet{"VL_A": 60, "VL_B": 40})
		Expect(err).To(BeNil())
		Expect(w["VL_A"]).To(BeNumerically("~", 0.6, 1e-12))
		Expect(w["VL_B"]).To(BeNumerically("~", 0.4, 1e-12))
	})

	It("does not modify its input", func() {
		in := portfolio.WeightSet{"VL_A": 3, "VL_B": 1}
		_, err := portfolio.NormalizeWeights(in)
		Expect(err).To(BeNil())
		Expect(in["VL_A"]).To(Equal(3.0))
	})

	DescribeTable("rejects invalid weights", func(w portfolio.WeightSet) {
		_, err := portfolio.NormalizeWeights(w)
		Expect(errors.Is(err, portfolio.ErrInvalidWeights)).To(BeTrue())
	},
		Entry("empty", portfolio.WeightSet{}),
		Entry("negative", portfolio.WeightSet{"VL_A": 1.2, "VL_B": -0.2}),
		Entry("zero sum", portfolio.WeightSet{"VL_A": 0, "VL_B": 0}),
	)
})

var _ = Describe("Portfolio value", func() {
	var (
		timeline *dataframe.DataFrame
	)

	BeforeEach(func() {
		var err error
		timeline, err = nav.Merge(
			linearSeries("A", 100, 1.0, 2.0),
			linearSeries("B", 100, 1.0, 2.0),
		)
		Expect(err).To(BeNil())
	})

	It("doubles when both funds double", func() {
		res, err := portfolio.ComputeValue(timeline, portfolio.WeightSet{"VL_A": 0.6, "VL_B": 0.4}, 10_000)
		Expect(err).To(BeNil())

		value, err := res.Column(portfolio.PortfolioValueColumn)
		Expect(err).To(BeNil())
		Expect(value).To(HaveLen(100))
		Expect(value[0]).To(BeNumerically("~", 10_000, 1e-9))
		Expect(value[99]).To(BeNumerically("~", 20_000, 1e-9))
	})

	It("does not modify the input timeline", func() {
		_, err := portfolio.ComputeValue(timeline, portfolio.WeightSet{"VL_A": 0.6, "VL_B": 0.4}, 10_000)
		Expect(err).To(BeNil())
		Expect(timeline.ColIndex(portfolio.PortfolioValueColumn)).To(Equal(-1))
	})

	It("tracks a single fund exactly", func() {
		s := &nav.Series{
			ID:     "A",
			Column: "VL_A",
			Dates:  dailyDates(4),
			Values: []float64{4, 5, 3, 8},
		}
		df, err := nav.Merge(s)
		Expect(err).To(BeNil())

		res, err := portfolio.ComputeValue(df, portfolio.WeightSet{"VL_A": 1.0}, 10_000)
		Expect(err).To(BeNil())
		value, _ := res.Column(portfolio.PortfolioValueColumn)
		for idx, v := range s.Values {
			Expect(value[idx]).To(BeNumerically("~", 10_000*v/s.Values[0], 1e-9))
		}
	})

	It("drifts without rebalancing", func() {
		df, err := nav.Merge(
			linearSeries("A", 10, 1.0, 3.0),
			linearSeries("B", 10, 1.0, 1.0),
		)
		Expect(err).To(BeNil())

		res, err := portfolio.ComputeValue(df, portfolio.WeightSet{"VL_A": 0.5, "VL_B": 0.5}, 100)
		Expect(err).To(BeNil())
		value, _ := res.Column(portfolio.PortfolioValueColumn)
		Expect(value[9]).To(BeNumerically("~", 200, 1e-9))
	})

	It("lists every missing column", func() {
		_, err := portfolio.ComputeValue(timeline, portfolio.WeightSet{"VL_A": 0.5, "VL_Z": 0.25, "VL_Y": 0.25}, 10_000)
		var missingErr *portfolio.MissingColumnsError
		Expect(errors.As(err, &missingErr)).To(BeTrue())
		Expect(missingErr.Columns).To(Equal([]string{"VL_Y", "VL_Z"}))
	})

	It("rejects an empty timeline", func() {
		_, err := portfolio.ComputeValue(&dataframe.DataFrame{}, portfolio.WeightSet{"VL_A": 1}, 10_000)
		Expect(errors.Is(err, portfolio.ErrEmptyTimeline)).To(BeTrue())
	})

	It("rejects a zero basis", func() {
		df := &dataframe.DataFrame{
			Dates:    dailyDates(2),
			ColNames: []string{"VL_A"},
			Vals:     [][]float64{{0, 1}},
		}
		_, err := portfolio.ComputeValue(df, portfolio.WeightSet{"VL_A": 1}, 10_000)
		Expect(errors.Is(err, portfolio.ErrZeroBasis)).To(BeTrue())
	})

	It("rejects a non-positive initial investment", func() {
		_, err := portfolio.ComputeValue(timeline, portfolio.WeightSet{"VL_A": 1}, 0)
		Expect(errors.Is(err, portfolio.ErrInvalidInitialInvestment)).To(BeTrue())
	})
})
