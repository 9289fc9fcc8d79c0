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
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a delimited text table. The delimiter is detected from the
// header line; both ',' and ';' are supported.
func ReadCSV(r io.Reader) (*RawTable, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}

	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	headerLine := raw
	if idx := bytes.IndexByte(raw, '\n'); idx != -1 {
		headerLine = raw[:idx]
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if bytes.Count(headerLine, []byte(";")) > bytes.Count(headerLine, []byte(",")) {
		reader.Comma = ';'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnreadableSource)
	}

	table := &RawTable{
		Header: make([]string, len(records[0])),
		Rows:   records[1:],
	}
	for idx, col := range records[0] {
		table.Header[idx] = strings.TrimSpace(col)
	}

	return table, nil
}
