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

package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/penny-vault/pv-dca/config"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/observability/opentelemetry"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/penny-vault/pv-dca/report"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const RunIDHeader = "X-Run-Id"

// SimulateProfile runs the simulation of a profile. Supported query
// parameters:
//
//	amount         comma separated list of monthly contributions
//	initial        initial investment
//	includeInitial count the initial investment as contributed capital
//	endDate        truncate the timeline (YYYY-MM-DD)
//	detailed       include the timeline and scenario series
func SimulateProfile(c *fiber.Ctx) error {
	runID := uuid.New().String()
	c.Set(RunIDHeader, runID)

	result, profile, err := runProfile(c, runID)
	if err != nil {
		return err
	}

	detailed, err := parseBool(c.Query("detailed"), false)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("detailed: %s", err))
	}

	doc, err := report.NewDocument(result, detailed)
	if err != nil {
		return errorStatus(err)
	}
	doc.RunID = runID
	doc.Profile = profile.Name
	doc.Currency = profile.Currency

	return c.JSON(doc)
}

// ChartProfile runs the simulation of a profile and returns a PNG chart of
// every scenario. Accepts the same query parameters as SimulateProfile.
func ChartProfile(c *fiber.Ctx) error {
	runID := uuid.New().String()
	c.Set(RunIDHeader, runID)

	result, profile, err := runProfile(c, runID)
	if err != nil {
		return err
	}

	img, err := report.Chart(result, profile.Name, profile.Currency)
	if err != nil {
		return errorStatus(err)
	}

	c.Type("png")
	return c.Send(img)
}

func runProfile(c *fiber.Ctx, runID string) (*portfolio.Result, *config.Profile, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.UserContext(), "handler.runProfile")
	defer span.End()

	span.SetAttributes(opentelemetry.SpanAttributesFromFiber(c)...)
	span.SetAttributes(attribute.String("RunID", runID))

	registered, loader := registry()
	profile, err := config.Find(registered, c.Params("name"))
	if err != nil {
		span.SetStatus(codes.Error, "profile not found")
		return nil, nil, errorStatus(err)
	}

	subLog := log.With().Str("RunID", runID).Str("Profile", profile.Name).Logger()

	cfg, err := profile.SimulationConfig()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid profile")
		return nil, nil, errorStatus(err)
	}

	if err := applyQuery(c, cfg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query")
		subLog.Warn().Err(err).Msg("invalid simulation query")
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := profile.Run(ctx, loader, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "simulation failed")
		return nil, nil, errorStatus(err)
	}

	subLog.Info().Int("NumRows", result.Timeline.Len()).Int("NumScenarios", len(result.Scenarios)).Msg("simulated profile")
	return result, profile, nil
}

// applyQuery overrides cfg with the query parameters of the request
func applyQuery(c *fiber.Ctx, cfg *portfolio.Config) error {
	if amounts := c.Query("amount"); amounts != "" {
		parsed, err := parseAmounts(amounts)
		if err != nil {
			return err
		}
		cfg.MonthlyInvestments = parsed
	}

	if initial := c.Query("initial"); initial != "" {
		v, err := strconv.ParseFloat(initial, 64)
		if err != nil {
			return fmt.Errorf("initial: %w", err)
		}
		cfg.InitialInvestment = v
	}

	includeInitial, err := parseBool(c.Query("includeInitial"), cfg.IncludeInitial)
	if err != nil {
		return fmt.Errorf("includeInitial: %w", err)
	}
	cfg.IncludeInitial = includeInitial

	if endDate := c.Query("endDate"); endDate != "" {
		dt, ok := nav.ParseDate(endDate)
		if !ok {
			return fmt.Errorf("endDate: cannot parse %q", endDate)
		}
		cfg.EndDate = dt
	}

	return cfg.Validate()
}

func parseAmounts(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	amounts := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		amounts = append(amounts, v)
	}
	return amounts, nil
}

func parseBool(s string, def bool) (bool, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseBool(s)
}
