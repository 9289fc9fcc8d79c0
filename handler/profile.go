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

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/pv-dca/config"
)

// ProfileSummary is the list view of a profile
type ProfileSummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Region      string    `json:"region,omitempty"`
	Risk        string    `json:"risk,omitempty"`
	Currency    string    `json:"currency"`
	NumFunds    int       `json:"numFunds"`
	Amounts     []float64 `json:"monthlyInvestments"`
}

// ListProfiles returns a summary of every registered profile
func ListProfiles(c *fiber.Ctx) error {
	registered, _ := registry()

	summaries := make([]*ProfileSummary, 0, len(registered))
	for _, p := range registered {
		summaries = append(summaries, &ProfileSummary{
			Name:        p.Name,
			Description: p.Description,
			Region:      p.Region,
			Risk:        p.Risk,
			Currency:    p.Currency,
			NumFunds:    len(p.Funds),
			Amounts:     p.MonthlyInvestments,
		})
	}

	return c.JSON(summaries)
}

// GetProfile returns the full configuration of a profile
func GetProfile(c *fiber.Ctx) error {
	registered, _ := registry()

	profile, err := config.Find(registered, c.Params("name"))
	if err != nil {
		return errorStatus(err)
	}

	return c.JSON(profile)
}
