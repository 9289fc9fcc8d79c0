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

	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/rs/zerolog/log"
	charts "github.com/vicanso/go-charts/v2"
)

const (
	chartWidth     = 1000
	chartHeight    = 600
	maxChartPoints = 500
)

// Chart renders the value of every scenario over time as a PNG line chart.
// Without scenarios the PortfolioValue column is drawn instead.
func Chart(result *portfolio.Result, title string, currency string) ([]byte, error) {
	if result == nil || result.Timeline == nil || result.Timeline.Len() == 0 {
		return nil, ErrNoTimeline
	}

	timeline := result.Timeline
	step := 1
	if timeline.Len() > maxChartPoints {
		step = (timeline.Len() + maxChartPoints - 1) / maxChartPoints
	}
	rows := sampleRows(timeline.Len(), step)

	xLabels := make([]string, len(rows))
	for idx, rowIdx := range rows {
		xLabels[idx] = timeline.Dates[rowIdx].Format("2006-01-02")
	}

	var names []string
	var values [][]float64
	if len(result.Scenarios) == 0 {
		col, err := timeline.Column(portfolio.PortfolioValueColumn)
		if err != nil {
			return nil, err
		}
		names = append(names, "Portfolio")
		values = append(values, pick(col, rows))
	}
	for _, sc := range result.Scenarios {
		names = append(names, fmt.Sprintf("%s / month", FormatMoney(sc.MonthlyInvestment, currency)))
		values = append(values, pick(sc.Portfolio, rows))
	}

	split := len(xLabels) / 8
	if split < 1 {
		split = 1
	}

	painter, err := charts.Render(
		charts.ChartOption{
			SeriesList: charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine),
		},
		charts.TitleTextOptionFunc(title, fmt.Sprintf("%s to %s", xLabels[0], xLabels[len(xLabels)-1])),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: split,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionBottom,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		log.Error().Err(err).Str("Title", title).Msg("could not render chart")
		return nil, err
	}

	return painter.Bytes()
}

func sampleRows(n, step int) []int {
	rows := make([]int, 0, n/step+1)
	for idx := 0; idx < n; idx += step {
		rows = append(rows, idx)
	}
	if rows[len(rows)-1] != n-1 {
		rows = append(rows, n-1)
	}
	return rows
}

func pick(col []float64, rows []int) []float64 {
	res := make([]float64, len(rows))
	for idx, rowIdx := range rows {
		res[idx] = col[rowIdx]
	}
	return res
}
