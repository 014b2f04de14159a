package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/ingest"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/middleware"
	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/services"
)

func testService(t *testing.T, build bool) *services.AnalysisService {
	t.Helper()
	svc := services.NewAnalysisService(logging.NewNop(), config.AnalysisConfig{
		FitRange:     models.YearRange{Start: 2014, End: 2019},
		PredictRange: models.YearRange{Start: 2020, End: 2021},
		Workers:      2,
	})

	var records ingest.SliceSource
	for _, pair := range [][2]string{{"Theft from Vehicle", "Kitsilano"}, {"Theft from Vehicle", "West End"}, {"Mischief", "Kitsilano"}} {
		for month := 1; month <= 12; month++ {
			for year := 2014; year <= 2019; year++ {
				records = append(records, models.OccurrenceRecord{
					CrimeType: pair[0], Neighbourhood: pair[1], Year: year, Month: month,
					Count: 20 + year - 2014 + year%3,
				})
			}
			records = append(records, models.OccurrenceRecord{
				CrimeType: pair[0], Neighbourhood: pair[1], Year: 2020, Month: month, Count: 2,
			})
		}
	}
	_, err := svc.Ingest(context.Background(), records)
	require.NoError(t, err)

	if build {
		_, err = svc.Rebuild(context.Background(), nil, nil)
		require.NoError(t, err)
	}
	return svc
}

func newTestApp(svc *services.AnalysisService) *fiber.App {
	logger := logging.NewNop()
	h := New(logger, svc)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Get("/health", h.Health)
	app.Get("/v1/crimes", h.ListCrimes)
	app.Get("/v1/crimes/:crime/neighbourhoods", h.ListNeighbourhoods)
	app.Get("/v1/crimes/:crime/neighbourhoods/:neighbourhood", h.GetSeries)
	app.Get("/v1/crimes/:crime/frames", h.GetFrames)
	app.Get("/v1/averages", h.GetAverages)
	app.Get("/v1/crimes/:crime/averages", h.GetCrimeAverages)
	app.Post("/v1/rebuild", h.Rebuild)
	app.Use(h.NotFound)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}
