package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/soltixdb/pindex/internal/models"
)

func TestHandler_Health(t *testing.T) {
	app := newTestApp(testService(t, true))

	status, body := doRequest(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, status)

	health := decode[models.HealthResponse](t, body)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.NotEmpty(t, health.Timestamp)
	assert.Equal(t, 3*12, health.Values)
}

func TestHandler_NotFound(t *testing.T) {
	app := newTestApp(testService(t, false))

	status, body := doRequest(t, app, "GET", "/nonexistent", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	resp := decode[models.ErrorResponse](t, body)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "/nonexistent", resp.Error.Path)
}
