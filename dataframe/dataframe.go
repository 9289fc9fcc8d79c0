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

package dataframe

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// New creates a single column dataframe. Dates must be strictly increasing and
// the number of values must equal the number of dates
func New(colName string, dates []time.Time, vals []float64) (*DataFrame, error) {
	if len(dates) != len(vals) {
		return nil, fmt.Errorf("%w: %d dates and %d values", ErrDateIndexNotAligned, len(dates), len(vals))
	}

	for idx := 1; idx < len(dates); idx++ {
		if !dates[idx-1].Before(dates[idx]) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrDatesNotSorted, dates[idx].Format("2006-01-02"), dates[idx-1].Format("2006-01-02"))
		}
	}

	df := &DataFrame{
		Dates:    make([]time.Time, len(dates)),
		ColNames: []string{colName},
		Vals:     [][]float64{make([]float64, len(vals))},
	}

	copy(df.Dates, dates)
	copy(df.Vals[0], vals)

	return df, nil
}

// Get index of specified column; returns -1 if column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// Column returns the values stored in colName. The returned slice is shared
// with the dataframe.
func (df *DataFrame) Column(colName string) ([]float64, error) {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
	}
	return df.Vals[colIdx], nil
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// End returns the last time in the DataFrame
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// HasNaN returns true if any value in the dataframe is NaN
func (df *DataFrame) HasNaN() bool {
	for _, col := range df.Vals {
		for _, v := range col {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// Insert a new column to the end of the dataframe. If a column with the same
// name already exists its values are replaced. Panics if the column length does
// not match the number of rows.
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	if len(col) != len(df.Dates) {
		log.Panic().Str("Column", name).Int("ColLen", len(col)).Int("NumRows", len(df.Dates)).Msg("column length must equal number of rows")
	}

	if colIdx := df.ColIndex(name); colIdx != -1 {
		df.Vals[colIdx] = col
		return df
	}

	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// Last returns a new dataframe with only the last item of the current dataframe
func (df *DataFrame) Last() *DataFrame {
	if df.Len() == 0 {
		return df
	}

	lastVals := make([][]float64, len(df.ColNames))
	lastRow := len(df.Dates) - 1
	for idx, col := range df.Vals {
		lastVals[idx] = []float64{col[lastRow]}
	}

	newDf := &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{df.Dates[lastRow]},
		Vals:     lastVals,
	}

	return newDf
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// OuterJoin merges df with others on the date index. The resulting index is the
// sorted union of all dates; cells with no observation are set to NaN. Column
// names must be unique across all dataframes. A new dataframe is returned.
func (df *DataFrame) OuterJoin(others ...*DataFrame) (*DataFrame, error) {
	all := append([]*DataFrame{df}, others...)

	// union of the date index
	seen := make(map[int64]struct{})
	dates := make([]time.Time, 0, df.Len())
	colNames := make([]string, 0, df.ColCount())
	colSeen := make(map[string]struct{})
	for _, frame := range all {
		for _, dt := range frame.Dates {
			key := dt.UnixNano()
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				dates = append(dates, dt)
			}
		}
		for _, colName := range frame.ColNames {
			if _, ok := colSeen[colName]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, colName)
			}
			colSeen[colName] = struct{}{}
			colNames = append(colNames, colName)
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	rowMap := make(map[int64]int, len(dates))
	for idx, dt := range dates {
		rowMap[dt.UnixNano()] = idx
	}

	joined := &DataFrame{
		Dates:    dates,
		ColNames: colNames,
		Vals:     make([][]float64, 0, len(colNames)),
	}

	for _, frame := range all {
		for colIdx := range frame.ColNames {
			col := make([]float64, len(dates))
			for ii := range col {
				col[ii] = math.NaN()
			}
			for rowIdx, dt := range frame.Dates {
				col[rowMap[dt.UnixNano()]] = frame.Vals[colIdx][rowIdx]
			}
			joined.Vals = append(joined.Vals, col)
		}
	}

	return joined, nil
}

// Split the dataframe into 2, with columns being in the first dataframe and
// all remaining columns in the second
func (df *DataFrame) Split(columns ...string) (*DataFrame, *DataFrame) {
	one := &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	two := &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	// convert requested columns to a map for easy lookup
	colMap := make(map[string]bool, len(columns))
	for _, col := range columns {
		colMap[col] = true
	}

	for idx, col := range df.ColNames {
		if _, ok := colMap[col]; ok {
			one.ColNames = append(one.ColNames, col)
			one.Vals = append(one.Vals, df.Vals[idx])
		} else {
			two.ColNames = append(two.ColNames, col)
			two.Vals = append(two.Vals, df.Vals[idx])
		}
	}

	return one, two
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// Table renders the dataframe as an ASCII formatted table
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Date"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false) // Set Border to false

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}

// Trim the dataframe to the specified date range (inclusive). A zero end time
// means no upper bound.
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates,
		Vals:     make([][]float64, len(df.Vals)),
	}
	copy(df2.Vals, df.Vals)

	if end.IsZero() {
		end = df.End()
	}

	// special case 0: requested range is invalid
	if end.Before(begin) {
		return df2.empty()
	}

	// special case 1: data frame is empty
	if df.Len() == 0 {
		return df2
	}

	// special case 2: end time is before data frame start
	if end.Before(df.Start()) {
		return df2.empty()
	}

	// special case 3: start time is after data frame end
	if begin.After(df.End()) {
		return df2.empty()
	}

	// Use binary search to find the index corresponding to the start and end times
	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end)
	})

	df2.Dates = df.Dates[beginIdx:endIdx]
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

func (df *DataFrame) empty() *DataFrame {
	df.Dates = []time.Time{}
	for colIdx := range df.Vals {
		df.Vals[colIdx] = []float64{}
	}
	return df
}
