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

package dataframe_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/dataframe"
)

var _ = Describe("Dataframe math", func() {
	var (
		df *dataframe.DataFrame
	)

	BeforeEach(func() {
		df = &dataframe.DataFrame{
			Dates:    []time.Time{day(2021, 1, 1), day(2021, 1, 2), day(2021, 1, 3)},
			ColNames: []string{"A", "B"},
			Vals: [][]float64{
				{2, 3, 4},
				{10, 5, 20},
			},
		}
	})

	It("multiplies by a scalar without modifying the original", func() {
		res := df.MulScalar(2)
		Expect(res.Vals[0]).To(Equal([]float64{4, 6, 8}))
		Expect(df.Vals[0]).To(Equal([]float64{2, 3, 4}))
	})

	It("rebases each column to its first value", func() {
		res := df.Rebase()
		Expect(res.Vals[0]).To(Equal([]float64{1, 1.5, 2}))
		Expect(res.Vals[1][0]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(res.Vals[1][1]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(res.Vals[1][2]).To(BeNumerically("~", 2.0, 1e-12))
		Expect(df.Vals[1][0]).To(Equal(10.0))
	})

	It("computes a weighted sum", func() {
		res, err := df.WeightedSum("Total", map[string]float64{"A": 0.5, "B": 0.1})
		Expect(err).To(BeNil())
		Expect(res.ColNames).To(Equal([]string{"Total"}))
		Expect(res.Vals[0][0]).To(BeNumerically("~", 2.0, 1e-12))
		Expect(res.Vals[0][1]).To(BeNumerically("~", 2.0, 1e-12))
		Expect(res.Vals[0][2]).To(BeNumerically("~", 4.0, 1e-12))
	})

	It("fails a weighted sum with unknown columns", func() {
		_, err := df.WeightedSum("Total", map[string]float64{"A": 0.5, "Z": 0.5})
		Expect(errors.Is(err, dataframe.ErrColumnNotFound)).To(BeTrue())
	})
})
