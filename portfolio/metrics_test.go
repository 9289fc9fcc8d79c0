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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/portfolio"
)

var _ = Describe("Metrics", func() {
	Context("draw downs", func() {
		It("finds every draw down", func() {
			dates := dailyDates(8)
			values := []float64{100, 110, 99, 105, 111, 100, 80, 90}

			dd := portfolio.AllDrawDowns(dates, values)
			Expect(dd).To(HaveLen(2))

			Expect(dd[0].Begin).To(Equal(dates[1]))
			Expect(dd[0].End).To(Equal(dates[2]))
			Expect(dd[0].Recovery).To(Equal(dates[4]))
			Expect(dd[0].LossPercent).To(BeNumerically("~", -0.1, 1e-12))

			// not recovered by the last row
			Expect(dd[1].Begin).To(Equal(dates[4]))
			Expect(dd[1].End).To(Equal(dates[6]))
			Expect(dd[1].Recovery.IsZero()).To(BeTrue())
			Expect(dd[1].LossPercent).To(BeNumerically("~", 80.0/111-1, 1e-12))
		})

		It("returns the largest draw down", func() {
			dates := dailyDates(8)
			values := []float64{100, 110, 99, 105, 111, 100, 80, 90}

			dd := portfolio.MaxDrawDown(dates, values)
			Expect(dd).ToNot(BeNil())
			Expect(dd.End).To(Equal(dates[6]))
		})

		It("returns nil for a monotonic curve", func() {
			Expect(portfolio.MaxDrawDown(dailyDates(3), []float64{1, 2, 3})).To(BeNil())
		})
	})

	Context("volatility", func() {
		It("is zero for a constant curve", func() {
			Expect(portfolio.Volatility([]float64{1, 1, 1, 1}, 252)).To(Equal(0.0))
		})

		It("is zero when there are too few values", func() {
			Expect(portfolio.Volatility([]float64{1, 2}, 252)).To(Equal(0.0))
		})

		It("annualizes with the square root of the periods", func() {
			values := []float64{100, 110, 99, 108.9}
			daily := portfolio.Volatility(values, 1)
			Expect(portfolio.Volatility(values, 252)).To(BeNumerically("~", daily*15.874507866387544, 1e-9))
		})
	})
})
