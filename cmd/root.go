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
	"fmt"
	"os"
	"time"

	"github.com/penny-vault/pv-dca/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "PVDCA_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "PVDCA_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "PVDCA_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "PVDCA_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Pretty print log messages")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Profiles
	viper.BindEnv("profiles.dir", "PVDCA_PROFILES")
	rootCmd.PersistentFlags().String("profiles", "profiles", "Directory containing portfolio profiles")
	viper.BindPFlag("profiles.dir", rootCmd.PersistentFlags().Lookup("profiles"))

	// Cache
	viper.BindEnv("cache.local_size", "PVDCA_CACHE_SIZE")
	rootCmd.PersistentFlags().Int("cache-size", 128, "Number of NAV files kept in the in-memory cache")
	viper.BindPFlag("cache.local_size", rootCmd.PersistentFlags().Lookup("cache-size"))

	viper.BindEnv("cache.remote_ttl", "PVDCA_CACHE_REMOTE_TTL")
	rootCmd.PersistentFlags().Duration("cache-remote-ttl", time.Hour, "How long a NAV file fetched over HTTP is reused")
	viper.BindPFlag("cache.remote_ttl", rootCmd.PersistentFlags().Lookup("cache-remote-ttl"))

	// OpenTelemetry
	viper.BindEnv("otlp.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	viper.BindEnv("otlp.http", "PVDCA_OTLP_HTTP")
}

var rootCmd = &cobra.Command{
	Use:     "pvdca",
	Version: common.CurrentVersion.String(),
	Short:   "Simulate dollar cost averaging into a portfolio of funds",
	Long: `Value a weighted portfolio of funds from their net asset value history and
simulate monthly contributions into it, net of fees and tax.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		if err := common.SetupCache(); err != nil {
			log.Fatal().Err(err).Msg("could not initialize cache")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
