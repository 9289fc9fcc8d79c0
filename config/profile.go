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

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Risk level of a profile
const (
	RiskPrudent  = "prudent"
	RiskBalanced = "balanced"
	RiskDynamic  = "dynamic"
)

const DefaultCurrency = "EUR"

// DefaultMonthlyInvestments are simulated when a profile lists no amounts
var DefaultMonthlyInvestments = []float64{100, 250, 500, 750}

var (
	ErrUnsupportedProfile = errors.New("unsupported profile file type")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrDuplicateProfile   = errors.New("duplicate profile name")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Fund is a single position of a profile
type Fund struct {
	Name        string  `toml:"name" yaml:"name" json:"name"`
	Path        string  `toml:"path" yaml:"path" json:"path,omitempty"`
	URL         string  `toml:"url" yaml:"url" json:"url,omitempty"`
	Format      string  `toml:"format" yaml:"format" json:"format,omitempty"`
	Fee         float64 `toml:"fee" yaml:"fee" json:"fee"`
	FeePercent  float64 `toml:"fee_percent" yaml:"fee_percent" json:"-"`
	Weight      float64 `toml:"weight" yaml:"weight" json:"weight"`
	DateColumn  string  `toml:"date_column" yaml:"date_column" json:"dateColumn,omitempty"`
	ValueColumn string  `toml:"value_column" yaml:"value_column" json:"valueColumn,omitempty"`
}

// Profile is a versioned description of a portfolio and the simulations to
// run on it
type Profile struct {
	Name                string    `toml:"name" yaml:"name" json:"name"`
	Description         string    `toml:"description" yaml:"description" json:"description,omitempty"`
	Region              string    `toml:"region" yaml:"region" json:"region,omitempty"`
	Risk                string    `toml:"risk" yaml:"risk" json:"risk,omitempty"`
	Currency            string    `toml:"currency" yaml:"currency" json:"currency"`
	StartDate           string    `toml:"start_date" yaml:"start_date" json:"startDate,omitempty"`
	EndDate             string    `toml:"end_date" yaml:"end_date" json:"endDate,omitempty"`
	InitialInvestment   float64   `toml:"initial_investment" yaml:"initial_investment" json:"initialInvestment"`
	IncludeInitial      bool      `toml:"include_initial" yaml:"include_initial" json:"includeInitial"`
	MonthlyInvestments  []float64 `toml:"monthly_investments" yaml:"monthly_investments" json:"monthlyInvestments"`
	TradingDaysPerMonth int       `toml:"trading_days_per_month" yaml:"trading_days_per_month" json:"tradingDaysPerMonth"`
	DayCount            string    `toml:"day_count" yaml:"day_count" json:"dayCount"`
	TaxRate             *float64  `toml:"tax_rate" yaml:"tax_rate" json:"taxRate"`
	Funds               []*Fund   `toml:"funds" yaml:"funds" json:"funds"`

	// Path of the file the profile was loaded from
	Path string `toml:"-" yaml:"-" json:"-"`
}

// LoadProfile reads a TOML (.toml) or YAML (.yaml, .yml) profile, applies the
// defaults and validates it. Relative fund paths are resolved against the
// directory of the profile.
func LoadProfile(fn string) (*Profile, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	profile := &Profile{}
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".toml":
		err = toml.Unmarshal(data, profile)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, profile)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProfile, fn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidProfile, fn, err)
	}

	profile.Path = fn
	profile.applyDefaults()
	profile.resolvePaths(filepath.Dir(fn))

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	return profile, nil
}

// LoadProfiles loads every profile in dir sorted by name
func LoadProfiles(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".toml", ".yaml", ".yml":
		default:
			continue
		}

		fn := filepath.Join(dir, entry.Name())
		profile, err := LoadProfile(fn)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(profile.Name)
		if other, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q defined in %s and %s", ErrDuplicateProfile, profile.Name, other, fn)
		}
		seen[key] = fn

		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})

	log.Debug().Str("Dir", dir).Int("NumProfiles", len(profiles)).Msg("loaded profiles")

	return profiles, nil
}

// Find returns the profile with the given name (case-insensitive)
func Find(profiles []*Profile, name string) (*Profile, error) {
	for _, profile := range profiles {
		if strings.EqualFold(profile.Name, name) {
			return profile, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

func (p *Profile) applyDefaults() {
	if p.Name == "" && p.Path != "" {
		base := filepath.Base(p.Path)
		p.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.InitialInvestment == 0 {
		p.InitialInvestment = portfolio.DefaultInitialInvestment
	}
	if len(p.MonthlyInvestments) == 0 {
		p.MonthlyInvestments = append([]float64{}, DefaultMonthlyInvestments...)
	}
	if p.TradingDaysPerMonth == 0 {
		p.TradingDaysPerMonth = portfolio.TradingDaysPerMonth
	}
	if p.TaxRate == nil {
		rate := portfolio.FlatTaxRate
		p.TaxRate = &rate
	}
	p.Risk = strings.ToLower(strings.TrimSpace(p.Risk))
	for _, fund := range p.Funds {
		if fund != nil && fund.Fee == 0 && fund.FeePercent != 0 {
			fund.Fee = fund.FeePercent / 100
		}
	}
}

func (p *Profile) resolvePaths(dir string) {
	for _, fund := range p.Funds {
		if fund != nil && fund.Path != "" && !filepath.IsAbs(fund.Path) {
			fund.Path = filepath.Join(dir, fund.Path)
		}
	}
}

// Validate checks the profile and the simulation configuration derived from it
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}

	switch p.Risk {
	case "", RiskPrudent, RiskBalanced, RiskDynamic:
	default:
		return fmt.Errorf("%w: %s: unknown risk level %q", ErrInvalidProfile, p.Name, p.Risk)
	}

	if len(p.Funds) == 0 {
		return fmt.Errorf("%w: %s: no funds", ErrInvalidProfile, p.Name)
	}

	keys := make(map[string]bool, len(p.Funds))
	for idx, fund := range p.Funds {
		if fund == nil || strings.TrimSpace(fund.Name) == "" {
			return fmt.Errorf("%w: %s: fund %d has no name", ErrInvalidProfile, p.Name, idx+1)
		}

		key := nav.ColumnKey(fund.Name)
		if keys[key] {
			return fmt.Errorf("%w: %s: fund %q listed twice", ErrInvalidProfile, p.Name, fund.Name)
		}
		keys[key] = true

		if (fund.Path == "") == (fund.URL == "") {
			return fmt.Errorf("%w: %s: fund %q needs exactly one of path or url", ErrInvalidProfile, p.Name, fund.Name)
		}

		if fund.Fee != 0 && fund.FeePercent != 0 && math.Abs(fund.Fee*100-fund.FeePercent) > 1e-9 {
			return fmt.Errorf("%w: %s: fund %q sets both fee and fee_percent", ErrInvalidProfile, p.Name, fund.Name)
		}

		if _, err := fund.Source().DetectFormat(); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrInvalidProfile, p.Name, err)
		}
	}

	if _, err := p.Start(); err != nil {
		return err
	}
	if _, err := p.End(); err != nil {
		return err
	}

	cfg, err := p.SimulationConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidProfile, p.Name, err)
	}

	return nil
}

// Start returns the parsed start date; zero when no start date is set
func (p *Profile) Start() (time.Time, error) {
	return parseOptionalDate(p.Name, "start_date", p.StartDate)
}

// End returns the parsed end date; zero when no end date is set
func (p *Profile) End() (time.Time, error) {
	return parseOptionalDate(p.Name, "end_date", p.EndDate)
}

func parseOptionalDate(profile, field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	dt, ok := nav.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s: cannot parse %s %q", ErrInvalidProfile, profile, field, s)
	}
	return dt, nil
}

// SimulationConfig converts the profile into a simulation configuration.
// Weights and fees are keyed by nav.ColumnKey of the fund name.
func (p *Profile) SimulationConfig() (*portfolio.Config, error) {
	dayCount, err := nav.ParseDayCount(p.DayCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidProfile, p.Name, err)
	}

	end, err := p.End()
	if err != nil {
		return nil, err
	}

	taxRate := portfolio.FlatTaxRate
	if p.TaxRate != nil {
		taxRate = *p.TaxRate
	}

	cfg := &portfolio.Config{
		Weights:             make(portfolio.WeightSet, len(p.Funds)),
		Fees:                make(portfolio.FeeSet, len(p.Funds)),
		InitialInvestment:   p.InitialInvestment,
		IncludeInitial:      p.IncludeInitial,
		MonthlyInvestments:  append([]float64{}, p.MonthlyInvestments...),
		TradingDaysPerMonth: p.TradingDaysPerMonth,
		DayCount:            dayCount,
		TaxRate:             taxRate,
		EndDate:             end,
	}

	for _, fund := range p.Funds {
		key := nav.ColumnKey(fund.Name)
		cfg.Weights[key] = fund.Weight
		cfg.Fees[key] = fund.Fee
	}

	return cfg, nil
}

// Sources returns the NAV sources of every fund in profile order
func (p *Profile) Sources() []nav.Source {
	sources := make([]nav.Source, 0, len(p.Funds))
	for _, fund := range p.Funds {
		sources = append(sources, fund.Source())
	}
	return sources
}

// Source returns the NAV source of the fund
func (f *Fund) Source() nav.Source {
	return nav.Source{
		Name:        f.Name,
		Path:        f.Path,
		URL:         f.URL,
		Format:      nav.Format(f.Format),
		DateColumn:  f.DateColumn,
		ValueColumn: f.ValueColumn,
	}
}
