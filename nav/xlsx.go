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
	"strings"

	"github.com/tealeg/xlsx/v3"
)

// ReadXLSX reads the first sheet of an Excel workbook. The first non-empty row
// is the header; date formatted cells are converted to ISO dates.
func ReadXLSX(data []byte) (*RawTable, error) {
	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableSource)
	}

	sheet := wb.Sheets[0]
	table := &RawTable{}

	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		cells := make([]string, 0, 2)
		err := r.ForEachCell(func(c *xlsx.Cell) error {
			cells = append(cells, cellText(c, wb.Date1904))
			return nil
		})
		if err != nil {
			return err
		}

		if table.Header == nil {
			for idx := range cells {
				cells[idx] = strings.TrimSpace(cells[idx])
			}
			table.Header = cells
			return nil
		}

		table.Rows = append(table.Rows, cells)
		return nil
	}, xlsx.SkipEmptyRows)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %s", ErrUnreadableSource, sheet.Name, err)
	}

	if table.Header == nil {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrUnreadableSource, sheet.Name)
	}

	return table, nil
}

func cellText(c *xlsx.Cell, date1904 bool) string {
	if c.IsTime() {
		if t, err := c.GetTime(date1904); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if c.Type() == xlsx.CellTypeNumeric {
		return c.Value
	}

	return c.String()
}
