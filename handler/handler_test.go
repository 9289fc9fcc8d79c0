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

package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pv-dca/common"
	"github.com/penny-vault/pv-dca/config"
	"github.com/penny-vault/pv-dca/handler"
	"github.com/penny-vault/pv-dca/middleware"
	"github.com/penny-vault/pv-dca/nav"
	"github.com/penny-vault/pv-dca/report"
	"github.com/penny-vault/pv-dca/router"
)

func get(app *fiber.App, url string) (*http.Response, []byte) {
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	Expect(err).To(BeNil())
	body, err := io.ReadAll(resp.Body)
	Expect(err).To(BeNil())
	return resp, body
}

var _ = Describe("Handler", func() {
	var (
		app *fiber.App
	)

	BeforeEach(func() {
		common.CachePurge()

		profiles, err := config.LoadProfiles("../config/testdata/profiles")
		Expect(err).To(BeNil())
		handler.Setup(profiles, nav.NewLoader(nil))

		app = fiber.New()
		app.Use(middleware.NewLogger())
		router.SetupRoutes(app)
	})

	It("responds to ping", func() {
		resp, body := get(app, "/v1/")
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		ping := handler.PingResponse{}
		Expect(json.Unmarshal(body, &ping)).To(Succeed())
		Expect(ping.Status).To(Equal("success"))
	})

	It("lists profiles", func() {
		resp, body := get(app, "/v1/profile/")
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		var summaries []*handler.ProfileSummary
		Expect(json.Unmarshal(body, &summaries)).To(Succeed())
		Expect(summaries).To(HaveLen(2))
		Expect(summaries[1].Name).To(Equal("prudent"))
		Expect(summaries[1].NumFunds).To(Equal(3))
	})

	It("returns a profile", func() {
		resp, body := get(app, "/v1/profile/prudent")
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

		profile := config.Profile{}
		Expect(json.Unmarshal(body, &profile)).To(Succeed())
		Expect(profile.Currency).To(Equal("EUR"))
		Expect(profile.Funds).To(HaveLen(3))
	})

	It("returns 404 for an unknown profile", func() {
		resp, _ := get(app, "/v1/profile/reckless")
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

		resp, _ = get(app, "/v1/profile/reckless/simulate")
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
	})

	Context("when simulating", func() {
		It("uses the profile amounts by default", func() {
			resp, body := get(app, "/v1/profile/prudent/simulate")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			runID := resp.Header.Get(handler.RunIDHeader)
			_, err := uuid.Parse(runID)
			Expect(err).To(BeNil())

			doc := report.Document{}
			Expect(json.Unmarshal(body, &doc)).To(Succeed())
			Expect(doc.RunID).To(Equal(runID))
			Expect(doc.Profile).To(Equal("prudent"))
			Expect(doc.Performance).To(HaveLen(2))
			Expect(doc.Performance[0].MonthlyInvestment).To(Equal(100.0))
			Expect(doc.Timeline).To(BeNil())
		})

		It("accepts query overrides", func() {
			resp, body := get(app, "/v1/profile/prudent/simulate?amount=50,75,125&initial=5000&detailed=true")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			doc := report.Document{}
			Expect(json.Unmarshal(body, &doc)).To(Succeed())
			Expect(doc.Performance).To(HaveLen(3))
			Expect(doc.Performance[2].MonthlyInvestment).To(Equal(125.0))
			Expect(doc.Timeline).ToNot(BeNil())
			Expect(doc.Timeline.Columns).To(HaveKey("PortfolioValue"))
			Expect(doc.Timeline.Columns["PortfolioValue"][0]).To(BeNumerically("~", 5000, 1e-9))
			Expect(doc.Scenarios).To(HaveLen(3))
		})

		It("truncates the timeline", func() {
			resp, body := get(app, "/v1/profile/prudent/simulate?endDate=2017-11-30")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			doc := report.Document{}
			Expect(json.Unmarshal(body, &doc)).To(Succeed())
			Expect(doc.End).To(Equal("2017-11-30"))
		})

		DescribeTable("rejects invalid queries", func(query string) {
			resp, _ := get(app, "/v1/profile/prudent/simulate?"+query)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		},
			Entry("negative amount", "amount=-5"),
			Entry("non numeric amount", "amount=abc"),
			Entry("zero initial investment", "initial=0"),
			Entry("bad boolean", "includeInitial=maybe"),
			Entry("bad end date", "endDate=someday"),
			Entry("end date before the first observation", "endDate=2001-01-01"),
		)
	})

	It("renders a chart", func() {
		resp, body := get(app, "/v1/profile/prudent/chart?amount=100")
		Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		Expect(resp.Header.Get(fiber.HeaderContentType)).To(Equal("image/png"))
		Expect(body[:4]).To(Equal([]byte("\x89PNG")))
	})
})
