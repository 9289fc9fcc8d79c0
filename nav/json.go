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
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// ReadJSON reads an array of objects such as [{"Date": "2021-01-04", "NAV": 101.2}].
// The header is the sorted union of all object keys.
func ReadJSON(data []byte) (*RawTable, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}

	keys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keys[k] = struct{}{}
		}
	}

	table := &RawTable{
		Header: make([]string, 0, len(keys)),
		Rows:   make([][]string, 0, len(records)),
	}
	for k := range keys {
		table.Header = append(table.Header, k)
	}
	sort.Strings(table.Header)

	for _, rec := range records {
		row := make([]string, len(table.Header))
		for idx, k := range table.Header {
			switch v := rec[k].(type) {
			case nil:
				row[idx] = ""
			case string:
				row[idx] = v
			case float64:
				row[idx] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				row[idx] = fmt.Sprintf("%v", v)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
