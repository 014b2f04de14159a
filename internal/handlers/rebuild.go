package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/pindex/internal/models"
)

// Rebuild handles POST /v1/rebuild. An empty body rebuilds with the
// configured ranges; either range can be overridden.
func (h *Handler) Rebuild(c *fiber.Ctx) error {
	var req models.RebuildRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_JSON",
					Message: "Failed to parse JSON body",
					Details: map[string]interface{}{"error": err.Error()},
				},
			})
		}
	}

	run, err := h.service.Rebuild(c.UserContext(), req.FitRange, req.PredictRange)
	if err != nil {
		return err
	}

	return c.JSON(models.RebuildResponse{
		RunID:         run.RunID,
		FitRange:      run.FitRange,
		PredictRange:  run.PredictRange,
		Pairs:         run.Stats.Pairs,
		Values:        run.Stats.Values,
		SkippedMonths: run.Stats.SkippedMonths,
		DurationMs:    run.Stats.Duration.Milliseconds(),
	})
}
