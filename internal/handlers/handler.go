package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger  *logging.Logger
	service *services.AnalysisService
}

// New creates a new handler instance
func New(logger *logging.Logger, service *services.AnalysisService) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// param returns a path parameter with percent-escapes decoded, so crime types
// such as "Theft from Vehicle" can be addressed as Theft%20from%20Vehicle
func param(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid path parameter "+key)
	}
	return value, nil
}
