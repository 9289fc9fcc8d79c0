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

package config_test

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/config"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
)

var _ = Describe("Profile", func() {
	Context("loading a toml profile", func() {
		var (
			profile *config.Profile
		)

		BeforeEach(func() {
			var err error
			profile, err = config.LoadProfile("testdata/profiles/prudent.toml")
			Expect(err).To(BeNil())
		})

		It("reads every field", func() {
			Expect(profile.Name).To(Equal("prudent"))
			Expect(profile.Risk).To(Equal(config.RiskPrudent))
			Expect(profile.Currency).To(Equal("EUR"))
			Expect(profile.IncludeInitial).To(BeTrue())
			Expect(profile.MonthlyInvestments).To(Equal([]float64{100, 250}))
			Expect(profile.Funds).To(HaveLen(3))
		})

		It("converts fees given in percent", func() {
			Expect(profile.Funds[0].Fee).To(BeNumerically("~", 0.0015, 1e-12))
			Expect(profile.Funds[2].Fee).To(BeNumerically("~", 0.005, 1e-12))
		})

		It("resolves fund paths against the profile directory", func() {
			Expect(profile.Funds[0].Path).To(Equal(filepath.Join("testdata", "nav", "euro_gov_bond.csv")))
		})

		It("applies defaults", func() {
			Expect(profile.TradingDaysPerMonth).To(Equal(portfolio.TradingDaysPerMonth))
			Expect(*profile.TaxRate).To(Equal(portfolio.FlatTaxRate))
		})

		It("parses the start date", func() {
			start, err := profile.Start()
			Expect(err).To(BeNil())
			Expect(start).To(Equal(time.Date(2017, 10, 9, 0, 0, 0, 0, time.UTC)))

			end, err := profile.End()
			Expect(err).To(BeNil())
			Expect(end.IsZero()).To(BeTrue())
		})

		It("builds the simulation config", func() {
			cfg, err := profile.SimulationConfig()
			Expect(err).To(BeNil())
			Expect(cfg.Weights).To(Equal(portfolio.WeightSet{
				"VL_Euro_Gov_Bond":    0.5,
				"VL_Euro_STOXX_50":    0.3,
				"VL_PIMCO_Euro_Short": 0.2,
			}))
			Expect(cfg.Fees["VL_Euro_STOXX_50"]).To(BeNumerically("~", 0.0009, 1e-12))
			Expect(cfg.InitialInvestment).To(Equal(10_000.0))
			Expect(cfg.DayCount).To(Equal(nav.Calendar))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("lists the sources in order", func() {
			sources := profile.Sources()
			Expect(sources).To(HaveLen(3))
			Expect(sources[1].Name).To(Equal("Euro STOXX 50"))
			Expect(sources[1].Path).To(Equal(filepath.Join("testdata", "nav", "euro_stoxx_50.csv")))
		})

		It("simulates end to end", func() {
			start, err := profile.Start()
			Expect(err).To(BeNil())

			series, err := nav.NewLoader(nil).LoadAll(context.Background(), profile.Sources(), start)
			Expect(err).To(BeNil())

			cfg, err := profile.SimulationConfig()
			Expect(err).To(BeNil())

			res, err := portfolio.Simulate(series, cfg)
			Expect(err).To(BeNil())
			Expect(res.Timeline.Start()).To(Equal(start))
			Expect(res.Timeline.HasNaN()).To(BeFalse())
			Expect(res.Performance).To(HaveLen(2))
			Expect(res.Performance[0].TotalCapital).To(BeNumerically(">=", 10_000))

			value, err := res.Timeline.Column(portfolio.PortfolioValueColumn)
			Expect(err).To(BeNil())
			Expect(value[0]).To(BeNumerically("~", 10_000, 1e-9))
		})
	})

	Context("loading a yaml profile", func() {
		var (
			profile *config.Profile
		)

		BeforeEach(func() {
			var err error
			profile, err = config.LoadProfile("testdata/profiles/dynamic.yaml")
			Expect(err).To(BeNil())
		})

		It("normalizes the risk level", func() {
			Expect(profile.Risk).To(Equal(config.RiskDynamic))
		})

		It("builds the simulation config", func() {
			cfg, err := profile.SimulationConfig()
			Expect(err).To(BeNil())
			Expect(cfg.DayCount).To(Equal(nav.Trading))
			Expect(cfg.TaxRate).To(Equal(0.25))
			Expect(cfg.InitialInvestment).To(Equal(portfolio.DefaultInitialInvestment))
			Expect(cfg.MonthlyInvestments).To(Equal([]float64{0, 500}))
			Expect(cfg.EndDate).To(Equal(time.Date(2017, 12, 29, 0, 0, 0, 0, time.UTC)))
		})

		It("rescales weights given in percent", func() {
			cfg, err := profile.SimulationConfig()
			Expect(err).To(BeNil())
			weights, err := portfolio.NormalizeWeights(cfg.Weights)
			Expect(err).To(BeNil())
			Expect(weights["VL_Euro_STOXX_50"]).To(BeNumerically("~", 0.7, 1e-12))
		})

		It("runs the simulation", func() {
			res, err := profile.Run(context.Background(), nil, nil)
			Expect(err).To(BeNil())
			Expect(res.Timeline.End()).To(Equal(time.Date(2017, 12, 29, 0, 0, 0, 0, time.UTC)))
			Expect(res.Performance).To(HaveLen(2))
			Expect(res.Performance[0].NoInvestment).To(BeTrue())
			Expect(res.Performance[1].TotalCapital).To(BeNumerically(">", 0))
		})

		It("runs with an overridden config", func() {
			cfg, err := profile.SimulationConfig()
			Expect(err).To(BeNil())
			cfg.MonthlyInvestments = []float64{250}

			res, err := profile.Run(context.Background(), nav.NewLoader(nil), cfg)
			Expect(err).To(BeNil())
			Expect(res.Performance).To(HaveLen(1))
			Expect(res.Performance[0].MonthlyInvestment).To(Equal(250.0))
		})
	})

	Context("loading a directory", func() {
		It("returns the profiles sorted by name", func() {
			profiles, err := config.LoadProfiles("testdata/profiles")
			Expect(err).To(BeNil())
			Expect(profiles).To(HaveLen(2))
			Expect(profiles[0].Name).To(Equal("dynamic"))
			Expect(profiles[1].Name).To(Equal("prudent"))
		})

		It("finds profiles by name", func() {
			profiles, err := config.LoadProfiles("testdata/profiles")
			Expect(err).To(BeNil())

			profile, err := config.Find(profiles, "Prudent")
			Expect(err).To(BeNil())
			Expect(profile.Name).To(Equal("prudent"))

			_, err = config.Find(profiles, "reckless")
			Expect(errors.Is(err, config.ErrProfileNotFound)).To(BeTrue())
		})

		It("fails on an invalid profile", func() {
			_, err := config.LoadProfiles("testdata/invalid")
			Expect(err).ToNot(BeNil())
		})

		It("fails on a missing directory", func() {
			_, err := config.LoadProfiles("testdata/missing")
			Expect(err).ToNot(BeNil())
		})
	})

	DescribeTable("rejects invalid profiles", func(fn string) {
		_, err := config.LoadProfile(filepath.Join("testdata", "invalid", fn))
		Expect(errors.Is(err, config.ErrInvalidProfile)).To(BeTrue())
	},
		Entry("fee above one", "bad_fee.toml"),
		Entry("fund without source", "no_source.yaml"),
		Entry("unknown risk", "bad_risk.toml"),
	)

	It("rejects unsupported file types", func() {
		_, err := config.LoadProfile("testdata/invalid/profile.ini")
		Expect(errors.Is(err, config.ErrUnsupportedProfile)).To(BeTrue())
	})
})
