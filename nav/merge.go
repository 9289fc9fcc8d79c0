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

	"github.com/penny-vault/pv-dca/dataframe"
	"github.com/rs/zerolog/log"
)

// Merge outer joins all series on their dates and fills the gaps. The result
// has one column per series (in the order given) indexed by the sorted union
// of all dates. Missing cells are linearly interpolated, then forward filled,
// then backward filled so that no NaN remains.
func Merge(series ...*Series) (*dataframe.DataFrame, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	frames := make([]*dataframe.DataFrame, 0, len(series))
	for _, s := range series {
		if s == nil || s.Len() == 0 {
			id := ""
			if s != nil {
				id = s.ID
			}
			return nil, fmt.Errorf("fund %q: %w", id, ErrEmptySeries)
		}

		df, err := dataframe.New(s.Column, s.Dates, s.Values)
		if err != nil {
			return nil, fmt.Errorf("fund %q: %w", s.ID, err)
		}
		frames = append(frames, df)
	}

	combined, err := frames[0].OuterJoin(frames[1:]...)
	if err != nil {
		return nil, err
	}

	if combined.HasNaN() {
		log.Debug().Int("NumSeries", len(series)).Msg("series do not share every date; filling gaps")
	}
	combined.Fill()

	log.Debug().Int("NumSeries", len(series)).Int("NumRows", combined.Len()).
		Time("Start", combined.Start()).Time("End", combined.End()).Msg("merged nav series")

	return combined, nil
}
