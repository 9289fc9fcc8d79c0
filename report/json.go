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
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pv-dca/portfolio"
)

var (
	ErrNoTimeline = errors.New("result has no timeline")
)

// Timeline is the serialized form of the merged fund values
type Timeline struct {
	Dates   []string             `json:"dates"`
	Columns map[string][]float64 `json:"columns"`
}

// Document is the serialized form of a simulation result
type Document struct {
	RunID       string                      `json:"runId,omitempty"`
	Profile     string                      `json:"profile,omitempty"`
	Currency    string                      `json:"currency,omitempty"`
	Start       string                      `json:"start"`
	End         string                      `json:"end"`
	Weights     portfolio.WeightSet         `json:"weights"`
	Performance []*portfolio.PerformanceRow `json:"performance"`
	Scenarios   []*portfolio.ScenarioResult `json:"scenarios,omitempty"`
	Timeline    *Timeline                   `json:"timeline,omitempty"`
}

// NewDocument converts result. When detailed is false only the performance
// summary is kept.
func NewDocument(result *portfolio.Result, detailed bool) (*Document, error) {
	if result == nil || result.Timeline == nil {
		return nil, ErrNoTimeline
	}

	doc := &Document{
		Start:       result.Timeline.Start().Format("2006-01-02"),
		End:         result.Timeline.End().Format("2006-01-02"),
		Weights:     result.Weights,
		Performance: result.Performance,
	}

	if !detailed {
		return doc, nil
	}

	doc.Scenarios = result.Scenarios
	doc.Timeline = &Timeline{
		Dates:   make([]string, result.Timeline.Len()),
		Columns: make(map[string][]float64, result.Timeline.ColCount()),
	}
	for idx, dt := range result.Timeline.Dates {
		doc.Timeline.Dates[idx] = dt.Format("2006-01-02")
	}
	for idx, colName := range result.Timeline.ColNames {
		doc.Timeline.Columns[colName] = result.Timeline.Vals[idx]
	}

	return doc, nil
}

// WriteJSON writes the detailed document of result to w
func WriteJSON(w io.Writer, result *portfolio.Result) error {
	doc, err := NewDocument(result, true)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
