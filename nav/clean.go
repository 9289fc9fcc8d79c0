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

package nav

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultDateColumn  = "Date"
	DefaultValueColumn = "NAV"
)

// dates are day-first when ambiguous
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2/1/2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// tried only when no day-first layout matches
var monthFirstLayouts = []string{
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",
	"01/02/06",
	"01/02/2006 15:04:05",
}

// excel stores dates as days since 1899-12-30
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// LoadOptions controls how a raw table is turned into a Series
type LoadOptions struct {
	StartDate   time.Time
	DateColumn  string
	ValueColumn string
}

// Clean converts a raw table into a Series keyed by ColumnKey(fundID). Rows
// whose date or value cannot be parsed are dropped. The result is sorted by
// date, de-duplicated (the last observation of a date wins) and limited to
// dates on or after opts.StartDate.
func Clean(fundID string, table *RawTable, opts LoadOptions) (*Series, error) {
	subLog := log.With().Str("Fund", fundID).Logger()

	if table == nil {
		return nil, fmt.Errorf("fund %q: %w", fundID, ErrUnreadableSource)
	}

	dateName := opts.DateColumn
	if dateName == "" {
		dateName = DefaultDateColumn
	}
	valueName := opts.ValueColumn
	if valueName == "" {
		valueName = DefaultValueColumn
	}

	dateIdx := findColumn(table.Header, dateName)
	if dateIdx == -1 {
		return nil, &MissingColumnError{Fund: fundID, Column: dateName, Available: table.Header}
	}
	valueIdx := findColumn(table.Header, valueName)
	if valueIdx == -1 {
		return nil, &MissingColumnError{Fund: fundID, Column: valueName, Available: table.Header}
	}

	type obs struct {
		date  time.Time
		value float64
	}

	observations := make([]obs, 0, len(table.Rows))
	dropped := 0
	for _, row := range table.Rows {
		if dateIdx >= len(row) || valueIdx >= len(row) {
			dropped++
			continue
		}

		dt, ok := ParseDate(row[dateIdx])
		if !ok {
			dropped++
			continue
		}

		val, ok := ParseValue(row[valueIdx])
		if !ok || val <= 0 {
			dropped++
			continue
		}

		observations = append(observations, obs{date: dt, value: val})
	}

	if dropped > 0 {
		subLog.Debug().Int("NumDropped", dropped).Int("NumRows", len(table.Rows)).Msg("dropped rows that could not be parsed")
	}

	// stable so that the last observation of a duplicated date stays last
	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].date.Before(observations[j].date)
	})

	series := &Series{
		ID:     fundID,
		Column: ColumnKey(fundID),
		Dates:  make([]time.Time, 0, len(observations)),
		Values: make([]float64, 0, len(observations)),
	}

	for _, o := range observations {
		if o.date.Before(opts.StartDate) {
			continue
		}

		n := len(series.Dates)
		if n > 0 && series.Dates[n-1].Equal(o.date) {
			series.Values[n-1] = o.value
			continue
		}

		series.Dates = append(series.Dates, o.date)
		series.Values = append(series.Values, o.value)
	}

	if series.Len() == 0 {
		subLog.Error().Int("NumRows", len(table.Rows)).Time("StartDate", opts.StartDate).Msg("no observations after cleaning")
		return nil, fmt.Errorf("fund %q: %w on or after %s", fundID, ErrParseFailure, opts.StartDate.Format("2006-01-02"))
	}

	return series, nil
}

// ParseDate parses a date using the supported layouts (day-first when
// ambiguous, month-first when the day-first reading is invalid) or an Excel
// serial day number. The result is midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return truncateDay(dt), true
		}
	}

	for _, layout := range monthFirstLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return truncateDay(dt), true
		}
	}

	// excel serial day numbers (1954-10-04 to 2119-01-13)
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 20000 && serial <= 80000 {
		dt := excelEpoch.Add(time.Duration(math.Floor(serial)) * 24 * time.Hour)
		return dt, true
	}

	return time.Time{}, false
}

// ParseValue parses a NAV value. Currency symbols and spaces are ignored and a
// comma is accepted as decimal separator.
func ParseValue(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '€', '$', '£':
			return -1
		}
		return r
	}, s)

	if s == "" {
		return 0, false
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// the separator that comes last is the decimal separator
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}

	return val, true
}

func findColumn(header []string, name string) int {
	for idx, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return idx
		}
	}
	return -1
}

func truncateDay(dt time.Time) time.Time {
	year, month, day := dt.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
