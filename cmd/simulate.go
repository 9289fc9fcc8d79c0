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
	"io"
	"os"
	"strings"

	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	simulateAmounts        []float64
	simulateInitial        float64
	simulateIncludeInitial bool
	simulateOutput         string
	simulateOutputFile     string
	simulateChart          string
	simulateStartDate      string
	simulateEndDate        string
)

func init() {
	simulateCmd.Flags().Float64SliceVarP(&simulateAmounts, "amount", "a", nil, "Monthly contribution(s); defaults to the amounts of the profile")
	simulateCmd.Flags().Float64Var(&simulateInitial, "initial", 0, "Initial investment; defaults to the profile value")
	simulateCmd.Flags().BoolVar(&simulateIncludeInitial, "include-initial", false, "Count the initial investment as contributed capital")
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "table", "Output format one of: table, timeline, csv, json")
	simulateCmd.Flags().StringVar(&simulateOutputFile, "out", "", "Write output to file instead of stdout")
	simulateCmd.Flags().StringVar(&simulateChart, "chart", "", "Save a PNG chart of every scenario to this file")
	simulateCmd.Flags().StringVar(&simulateStartDate, "start-date", "", "Ignore NAV observations before this date (YYYY-MM-DD)")
	simulateCmd.Flags().StringVar(&simulateEndDate, "end-date", "", "Ignore NAV observations after this date (YYYY-MM-DD)")

	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <profile>",
	Short: "Simulate monthly contributions into a profile",
	Long: `Load the NAV history of every fund in the profile, value the weighted
portfolio and simulate each monthly contribution. The profile may be given by
name (looked up in the profiles directory) or as a path to a TOML or YAML file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Profile", args[0]).Msg("could not load profile")
		}

		subLog := log.With().Str("Profile", profile.Name).Logger()

		if simulateStartDate != "" {
			profile.StartDate = simulateStartDate
		}
		if simulateEndDate != "" {
			profile.EndDate = simulateEndDate
		}

		cfg, err := profile.SimulationConfig()
		if err != nil {
			subLog.Fatal().Err(err).Msg("invalid profile")
		}

		if len(simulateAmounts) > 0 {
			cfg.MonthlyInvestments = simulateAmounts
		}
		if cmd.Flags().Changed("initial") {
			cfg.InitialInvestment = simulateInitial
		}
		if cmd.Flags().Changed("include-initial") {
			cfg.IncludeInitial = simulateIncludeInitial
		}

		result, err := profile.Run(context.Background(), nav.NewLoader(nil), cfg)
		if err != nil {
			subLog.Fatal().Err(err).Msg("simulation failed")
		}

		var out io.Writer = os.Stdout
		if simulateOutputFile != "" {
			fh, err := os.Create(simulateOutputFile)
			if err != nil {
				subLog.Fatal().Err(err).Str("FileName", simulateOutputFile).Msg("could not create output file")
			}
			defer fh.Close()
			out = fh
		}

		switch strings.ToLower(simulateOutput) {
		case "table":
			fmt.Fprintf(out, "%s (%s to %s)\n\n", profile.Name, result.Timeline.Start().Format("2006-01-02"), result.Timeline.End().Format("2006-01-02"))
			fmt.Fprintln(out, report.Table(result.Performance, profile.Currency))
			fmt.Fprintln(out, result.Timeline.Last().Table())
		case "timeline":
			fmt.Fprintln(out, result.Timeline.Table())
		case "csv":
			err = report.WriteCSV(out, result)
		case "json":
			err = report.WriteJSON(out, result)
		default:
			subLog.Fatal().Str("Output", simulateOutput).Msg("unknown output format")
		}
		if err != nil {
			subLog.Fatal().Err(err).Msg("could not write output")
		}

		if simulateChart != "" {
			img, err := report.Chart(result, profile.Name, profile.Currency)
			if err != nil {
				subLog.Fatal().Err(err).Msg("could not render chart")
			}
			if err := os.WriteFile(simulateChart, img, 0644); err != nil {
				subLog.Fatal().Err(err).Str("FileName", simulateChart).Msg("could not save chart")
			}
			subLog.Info().Str("FileName", simulateChart).Msg("saved chart")
		}
	},
}
