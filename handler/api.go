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
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/pv-dca/common"
	"github.com/penny-vault/pv-dca/config"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/portfolio"
	"github.com/rs/zerolog/log"
)

var (
	registryLocker sync.RWMutex
	profiles       []*config.Profile
	navLoader      *nav.Loader
)

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Version string `json:"version" example:"0.1.0"`
	Time    string `json:"time" example:"2021-06-19T08:09:10.115924-05:00"`
}

// Setup registers the profiles served by the API and the loader used to read
// their NAV history
func Setup(p []*config.Profile, loader *nav.Loader) {
	registryLocker.Lock()
	defer registryLocker.Unlock()

	profiles = p
	navLoader = loader
	if navLoader == nil {
		navLoader = nav.NewLoader(nil)
	}

	log.Info().Int("NumProfiles", len(p)).Msg("registered profiles")
}

func registry() ([]*config.Profile, *nav.Loader) {
	registryLocker.RLock()
	defer registryLocker.RUnlock()
	return profiles, navLoader
}

func Ping(c *fiber.Ctx) error {
	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Version: common.CurrentVersion.String(),
		Time:    time.Now().Format(time.RFC3339Nano),
	})
}

// errorStatus maps domain errors to a fiber error
func errorStatus(err error) *fiber.Error {
	var missing *portfolio.MissingColumnsError

	switch {
	case errors.Is(err, config.ErrProfileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, portfolio.ErrNegativeContribution),
		errors.Is(err, portfolio.ErrInvalidInitialInvestment),
		errors.Is(err, portfolio.ErrInvalidTradingDays),
		errors.Is(err, portfolio.ErrInvalidTaxRate),
		errors.Is(err, portfolio.ErrEmptyTimeline),
		errors.Is(err, config.ErrInvalidProfile):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, nav.ErrUnreadableSource),
		errors.Is(err, nav.ErrMissingColumn),
		errors.Is(err, nav.ErrParseFailure),
		errors.As(err, &missing):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
