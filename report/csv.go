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
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/shopspring/decimal"
)

// WriteCSV writes the timeline of result followed by the portfolio, capital
// and interests columns of every scenario. Fund values keep four decimals,
// amounts are rounded to cents.
func WriteCSV(w io.Writer, result *portfolio.Result) error {
	if result == nil || result.Timeline == nil {
		return ErrNoTimeline
	}

	timeline := result.Timeline
	header := make([]string, 0, 1+timeline.ColCount()+3*len(result.Scenarios))
	header = append(header, "Date")
	header = append(header, timeline.ColNames...)
	for _, sc := range result.Scenarios {
		suffix := decimal.NewFromFloat(sc.MonthlyInvestment).String()
		header = append(header,
			fmt.Sprintf("Portfolio_%s", suffix),
			fmt.Sprintf("Capital_%s", suffix),
			fmt.Sprintf("Interests_%s", suffix),
		)
	}

	for _, sc := range result.Scenarios {
		if len(sc.Portfolio) != timeline.Len() {
			return fmt.Errorf("%w: scenario %v has %d rows, timeline has %d", portfolio.ErrScenarioLength, sc.MonthlyInvestment, len(sc.Portfolio), timeline.Len())
		}
	}

	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for rowIdx, dt := range timeline.Dates {
		row = row[:0]
		row = append(row, dt.Format("2006-01-02"))
		for colIdx := range timeline.ColNames {
			row = append(row, decimal.NewFromFloat(timeline.Vals[colIdx][rowIdx]).StringFixed(4))
		}
		for _, sc := range result.Scenarios {
			row = append(row,
				decimal.NewFromFloat(sc.Portfolio[rowIdx]).StringFixed(2),
				decimal.NewFromFloat(sc.Capital[rowIdx]).StringFixed(2),
				decimal.NewFromFloat(sc.Interests[rowIdx]).StringFixed(2),
			)
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
