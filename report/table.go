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

package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/shopspring/decimal"
)

// FormatMoney formats v in the given ISO currency, e.g. "€1,234.50". Unknown
// currencies fall back to the amount followed by the code.
func FormatMoney(v float64, currency string) string {
	currency = strings.ToUpper(currency)
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%s %s", decimal.NewFromFloat(v).StringFixed(2), currency)
	}

	amount := decimal.NewFromFloat(v).Round(int32(cur.Fraction))
	return money.New(amount.Shift(int32(cur.Fraction)).IntPart(), currency).Display()
}

// FormatPercent formats a fraction as a percentage with two decimals
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v * 100).StringFixed(2) + "%"
}

// Table renders the performance rows as an ASCII table
func Table(rows []*portfolio.PerformanceRow, currency string) string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Monthly Investment", "Annualized Return", "Cumulative Return", "Final Value", "After Tax", "Max Draw Down", "Duration"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, row := range rows {
		if row.NoInvestment {
			table.Append([]string{
				FormatMoney(row.MonthlyInvestment, currency),
				"-", "-", "-", "-", "-",
				fmt.Sprintf("%.1f years", row.Years),
			})
			continue
		}

		table.Append([]string{
			FormatMoney(row.MonthlyInvestment, currency),
			FormatPercent(row.AnnualizedReturn),
			FormatPercent(row.CumulativeReturn),
			FormatMoney(row.FinalValue, currency),
			FormatMoney(row.FinalValueAfterTax, currency),
			FormatPercent(row.MaxDrawDown),
			fmt.Sprintf("%.1f years", row.Years),
		})
	}

	table.Render()
	return s.String()
}
