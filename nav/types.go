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
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingColumn    = errors.New("required column missing")
	ErrParseFailure     = errors.New("no parseable observations")
	ErrUnreadableSource = errors.New("source could not be read")
	ErrUnknownFormat    = errors.New("unknown source format")
	ErrNoSeries         = errors.New("no series to merge")
	ErrEmptySeries      = errors.New("series has no observations")
	ErrInvalidFee       = errors.New("annual fee must be in [0, 1)")
	ErrUnknownDayCount  = errors.New("unknown day count convention")
)

// Series is the cleaned NAV history of a single fund. Dates are strictly
// increasing and every value is positive.
type Series struct {
	ID     string
	Column string
	Dates  []time.Time
	Values []float64
}

// RawTable holds the cells of a tabular source before any parsing
type RawTable struct {
	Header []string
	Rows   [][]string
}

// MissingColumnError is returned when a source lacks the date or value column
type MissingColumnError struct {
	Fund      string
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("fund %q: %s %q (available: %s)", e.Fund, ErrMissingColumn, e.Column, strings.Join(e.Available, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// DayCount selects the number of periods per year used both when compounding
// fees and when annualizing returns
type DayCount string

const (
	Calendar DayCount = "calendar"
	Trading  DayCount = "trading"
)

const (
	CalendarDaysPerYear = 365.25
	TradingDaysPerYear  = 252
)

// DaysPerYear returns the number of rows per year for the convention
func (dc DayCount) DaysPerYear() float64 {
	if dc == Trading {
		return TradingDaysPerYear
	}
	return CalendarDaysPerYear
}

// ParseDayCount converts a configuration string into a DayCount. An empty
// string selects the calendar convention.
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "calendar", "365.25":
		return Calendar, nil
	case "trading", "252":
		return Trading, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDayCount, s)
	}
}

// ColumnKey returns the canonical column key for a fund name, e.g.
// "Euro Gov Bond" becomes "VL_Euro_Gov_Bond"
func ColumnKey(name string) string {
	return "VL_" + strings.Join(strings.Fields(name), "_")
}

// Len returns the number of observations
func (s *Series) Len() int {
	return len(s.Dates)
}

// Copy returns a deep copy of the series
func (s *Series) Copy() *Series {
	s2 := &Series{
		ID:     s.ID,
		Column: s.Column,
		Dates:  make([]time.Time, len(s.Dates)),
		Values: make([]float64, len(s.Values)),
	}
	copy(s2.Dates, s.Dates)
	copy(s2.Values, s.Values)
	return s2
}
