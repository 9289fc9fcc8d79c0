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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/penny-vault/pv-dca/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(metricCmd)
}

var metricCmd = &cobra.Command{
	Use:       "metric <profile> {allDrawDowns|volatility}",
	Short:     "calculate a metric of the profile's portfolio value (mostly useful for debugging)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"allDrawDowns", "volatility"},
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Profile", args[0]).Msg("could not load profile")
		}

		subLog := log.With().Str("Profile", profile.Name).Logger()

		cfg, err := profile.SimulationConfig()
		if err != nil {
			subLog.Fatal().Err(err).Msg("invalid profile")
		}
		cfg.MonthlyInvestments = nil

		result, err := profile.Run(context.Background(), nav.NewLoader(nil), cfg)
		if err != nil {
			subLog.Fatal().Err(err).Msg("simulation failed")
		}

		value, err := result.Timeline.Column(portfolio.PortfolioValueColumn)
		if err != nil {
			subLog.Fatal().Err(err).Msg("timeline has no portfolio value")
		}

		switch args[1] {
		case "allDrawDowns":
			drawDowns := portfolio.AllDrawDowns(result.Timeline.Dates, value)
			subLog.Info().Int("NumDrawDowns", len(drawDowns)).Send()

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Begin", "End", "Recovery", "Loss"})
			table.SetBorder(false)
			for _, drawDown := range drawDowns {
				subLog.Debug().Object("DrawDown", drawDown).Send()
				recovery := "-"
				if !drawDown.Recovery.IsZero() {
					recovery = drawDown.Recovery.Format("2006-01-02")
				}
				table.Append([]string{
					drawDown.Begin.Format("2006-01-02"),
					drawDown.End.Format("2006-01-02"),
					recovery,
					report.FormatPercent(drawDown.LossPercent),
				})
			}
			table.Render()
		case "volatility":
			fmt.Printf("Volatility: %s\n", report.FormatPercent(portfolio.Volatility(value, nav.TradingDaysPerYear)))
		default:
			subLog.Fatal().Str("Metric", args[1]).Msg("unknown metric")
		}
	},
}
