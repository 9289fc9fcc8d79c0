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

package nav_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/nav"
)

var _ = Describe("Fees", func() {
	var (
		s *nav.Series
	)

	BeforeEach(func() {
		s = &nav.Series{ID: "A", Column: "VL_A"}
		dt := day(2020, 1, 1)
		for idx := 0; idx < 400; idx++ {
			s.Dates = append(s.Dates, dt)
			s.Values = append(s.Values, 100+float64(idx%7))
			dt = dt.AddDate(0, 0, 1)
		}
	})

	It("is the identity without a fee", func() {
		raw := s.Copy()
		res, err := nav.ApplyFees(s, 0, nav.Calendar)
		Expect(err).To(BeNil())
		Expect(res).To(BeIdenticalTo(s))
		Expect(res.Values).To(Equal(raw.Values))
	})

	It("compounds the daily drag on every row", func() {
		raw := s.Copy()
		_, err := nav.ApplyFees(s, 0.02, nav.Calendar)
		Expect(err).To(BeNil())

		daily := math.Pow(1-0.02, 1/365.25)
		Expect(s.Values[0]).To(Equal(raw.Values[0]))
		for k := range s.Values {
			Expect(s.Values[k]).To(BeNumerically("~", raw.Values[k]*math.Pow(daily, float64(k)), 1e-9))
		}
		Expect(s.Dates).To(Equal(raw.Dates))
	})

	It("decreases the factor as rows advance", func() {
		prev := nav.FeeFactor(0.015, 0, nav.Calendar)
		Expect(prev).To(Equal(1.0))
		for k := 1; k < 1000; k++ {
			f := nav.FeeFactor(0.015, k, nav.Calendar)
			Expect(f).To(BeNumerically("<", prev))
			prev = f
		}
	})

	It("charges the full fee after one year of rows", func() {
		Expect(nav.FeeFactor(0.02, 252, nav.Trading)).To(BeNumerically("~", 0.98, 1e-12))
		Expect(nav.FeeFactor(0.02, 1461, nav.Calendar)).To(BeNumerically("~", math.Pow(0.98, 4), 1e-12))
	})

	DescribeTable("rejects invalid fees", func(fee float64) {
		_, err := nav.ApplyFees(s, fee, nav.Calendar)
		Expect(errors.Is(err, nav.ErrInvalidFee)).To(BeTrue())
	},
		Entry("negative", -0.01),
		Entry("one", 1.0),
		Entry("above one", 1.5),
		Entry("nan", math.NaN()),
	)
})
