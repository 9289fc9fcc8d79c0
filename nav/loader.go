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
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penny-vault/pv-dca/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultRemoteTTL is how long a fetched remote source is reused
const DefaultRemoteTTL = time.Hour

// Format of a NAV source file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Source describes where the NAV history of a fund is stored. Exactly one of
// Path and URL should be set.
type Source struct {
	Name        string
	Path        string
	URL         string
	Format      Format
	DateColumn  string
	ValueColumn string
}

// Location returns the path or URL of the source
func (src Source) Location() string {
	if src.URL != "" {
		return src.URL
	}
	return src.Path
}

// DetectFormat returns the explicit format of the source or infers it from the
// file extension
func (src Source) DetectFormat() (Format, error) {
	if src.Format != "" {
		switch Format(strings.ToLower(string(src.Format))) {
		case FormatCSV:
			return FormatCSV, nil
		case FormatXLSX:
			return FormatXLSX, nil
		case FormatJSON:
			return FormatJSON, nil
		default:
			return "", fmt.Errorf("%w: %s", ErrUnknownFormat, src.Format)
		}
	}

	loc := src.Location()
	if idx := strings.IndexAny(loc, "?#"); idx != -1 {
		loc = loc[:idx]
	}

	switch strings.ToLower(filepath.Ext(loc)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format of %s", ErrUnknownFormat, src.Location())
	}
}

// Parse decodes the raw bytes of a source into a table
func Parse(data []byte, format Format) (*RawTable, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(strings.NewReader(string(data)))
	case FormatXLSX:
		return ReadXLSX(data)
	case FormatJSON:
		return ReadJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Loader reads NAV sources from disk or over HTTP. Raw bytes are kept in the
// common cache so repeated simulations do not re-read unchanged sources.
// Local files are keyed by modification time and size; remote sources are
// keyed by the RemoteTTL window they were fetched in.
type Loader struct {
	Client    *http.Client
	RemoteTTL time.Duration
	Now       func() time.Time
}

// NewLoader creates a loader that uses client for remote sources. The remote
// ttl is read from cache.remote_ttl.
func NewLoader(client *http.Client) *Loader {
	ttl := viper.GetDuration("cache.remote_ttl")
	if ttl <= 0 {
		ttl = DefaultRemoteTTL
	}
	return &Loader{
		Client:    client,
		RemoteTTL: ttl,
		Now:       time.Now,
	}
}

// Load reads and cleans a single source
func (l *Loader) Load(ctx context.Context, src Source, startDate time.Time) (*Series, error) {
	format, err := src.DetectFormat()
	if err != nil {
		return nil, fmt.Errorf("fund %q: %w", src.Name, err)
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fund %q: %w", src.Name, err)
	}

	table, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("fund %q (%s): %w", src.Name, src.Location(), err)
	}

	return Clean(src.Name, table, LoadOptions{
		StartDate:   startDate,
		DateColumn:  src.DateColumn,
		ValueColumn: src.ValueColumn,
	})
}

// LoadAll loads every source in order and stops at the first failure
func (l *Loader) LoadAll(ctx context.Context, sources []Source, startDate time.Time) ([]*Series, error) {
	series := make([]*Series, 0, len(sources))
	for _, src := range sources {
		s, err := l.Load(ctx, src, startDate)
		if err != nil {
			return nil, err
		}

		log.Debug().Str("Fund", src.Name).Int("NumRows", s.Len()).Time("Start", s.Dates[0]).Msg("loaded nav series")
		series = append(series, s)
	}
	return series, nil
}

func (l *Loader) read(ctx context.Context, src Source) ([]byte, error) {
	var key string

	if src.URL != "" {
		key = common.CacheKey("nav", src.URL, l.remoteWindow())
	} else {
		if src.Path == "" {
			return nil, fmt.Errorf("%w: neither path nor url given", ErrUnreadableSource)
		}
		info, err := os.Stat(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnreadableSource, err)
		}
		key = common.CacheKey("nav", src.Path, info.ModTime().UTC().Format(time.RFC3339Nano), fmt.Sprintf("%d", info.Size()))
	}

	if data, ok := common.CacheGet(key); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)

	if src.URL != "" {
		data, err = Fetch(ctx, l.Client, src.URL)
	} else {
		data, err = os.ReadFile(src.Path)
		if err != nil {
			err = fmt.Errorf("%w: %s", ErrUnreadableSource, err)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := common.CacheSet(key, data); err != nil {
		log.Warn().Err(err).Str("Location", src.Location()).Msg("could not cache nav source")
	}

	return data, nil
}

// remoteWindow names the ttl window that now falls into
func (l *Loader) remoteWindow() string {
	ttl := l.RemoteTTL
	if ttl <= 0 {
		ttl = DefaultRemoteTTL
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return fmt.Sprintf("%d", now().UTC().Truncate(ttl).Unix())
}
