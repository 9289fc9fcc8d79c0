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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-dca/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles in the profiles directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dir := viper.GetString("profiles.dir")
		profiles, err := config.LoadProfiles(dir)
		if err != nil {
			log.Fatal().Err(err).Str("Dir", dir).Msg("could not load profiles")
		}

		if len(profiles) == 0 {
			fmt.Printf("no profiles found in %s\n", dir)
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Risk", "Region", "Currency", "Funds", "Description"})
		table.SetBorder(false)
		for _, p := range profiles {
			table.Append([]string{p.Name, p.Risk, p.Region, p.Currency, strconv.Itoa(len(p.Funds)), p.Description})
		}
		table.Render()
	},
}
