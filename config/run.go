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
	"context"

	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/observability/opentelemetry"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Run loads the NAV history of every fund with loader and simulates the
// profile. When cfg is nil the profile's own SimulationConfig is used.
func (p *Profile) Run(ctx context.Context, loader *nav.Loader, cfg *portfolio.Config) (*portfolio.Result, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "config.Run")
	defer span.End()

	span.SetAttributes(attribute.String("Profile", p.Name))
	subLog := log.With().Str("Profile", p.Name).Logger()

	var err error
	if cfg == nil {
		if cfg, err = p.SimulationConfig(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid profile")
			return nil, err
		}
	}

	start, err := p.Start()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid start date")
		return nil, err
	}

	if loader == nil {
		loader = nav.NewLoader(nil)
	}

	series, err := loader.LoadAll(ctx, p.Sources(), start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not load nav")
		subLog.Error().Err(err).Msg("could not load nav")
		return nil, err
	}

	result, err := portfolio.Simulate(series, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "simulation failed")
		subLog.Error().Err(err).Msg("simulation failed")
		return nil, err
	}

	return result, nil
}
