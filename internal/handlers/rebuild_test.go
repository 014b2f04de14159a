package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/pindex/internal/models"
	"github.com/soltixdb/pindex/internal/services"
)

func TestHandler_Rebuild_Defaults(t *testing.T) {
	svc := testService(t, false)
	app := newTestApp(svc)

	status, body := doRequest(t, app, "POST", "/v1/rebuild", "")
	require.Equal(t, fiber.StatusOK, status, string(body))

	resp := decode[models.RebuildResponse](t, body)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, models.YearRange{Start: 2014, End: 2019}, resp.FitRange)
	assert.Equal(t, 3, resp.Pairs)
	assert.Equal(t, 36, resp.Values)
	assert.Equal(t, 36, svc.Values())
}

func TestHandler_Rebuild_Override(t *testing.T) {
	app := newTestApp(testService(t, true))

	status, body := doRequest(t, app, "POST", "/v1/rebuild",
		`{"fit_range":{"start":2014,"end":2018},"predict_range":{"start":2019,"end":2019}}`)
	require.Equal(t, fiber.StatusOK, status, string(body))

	resp := decode[models.RebuildResponse](t, body)
	assert.Equal(t, models.YearRange{Start: 2019, End: 2019}, resp.PredictRange)
	assert.Equal(t, 36, resp.Values)
}

func TestHandler_Rebuild_Errors(t *testing.T) {
	app := newTestApp(testService(t, true))

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "overlapping ranges",
			body:   `{"predict_range":{"start":2018,"end":2021}}`,
			status: fiber.StatusBadRequest,
			code:   services.CodeInvalidConfiguration,
		},
		{
			name:   "inverted fit range",
			body:   `{"fit_range":{"start":2019,"end":2014}}`,
			status: fiber.StatusBadRequest,
			code:   services.CodeInvalidConfiguration,
		},
		{
			name:   "malformed body",
			body:   `{"fit_range":`,
			status: fiber.StatusBadRequest,
			code:   "INVALID_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, "POST", "/v1/rebuild", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, decode[models.ErrorResponse](t, body).Error.Code)
		})
	}
}
