package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/pindex/internal/aggregation"
	"github.com/soltixdb/pindex/internal/models"
)

func averageView(s aggregation.Summary) models.AverageView {
	return models.AverageView{
		CrimeType:     s.CrimeType,
		Neighbourhood: s.Neighbourhood,
		Average:       s.Average,
		Min:           s.Min,
		Max:           s.Max,
		Count:         s.Count,
	}
}

func averageViews(summaries []aggregation.Summary) []models.AverageView {
	views := make([]models.AverageView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, averageView(s))
	}
	return views
}

// GetAverages handles GET /v1/averages: the overall signed mean and one
// entry per crime type
func (h *Handler) GetAverages(c *fiber.Ctx) error {
	overall, byCrime, err := h.service.Averages()
	if err != nil {
		return err
	}

	return c.JSON(models.AveragesResponse{
		Overall: averageView(overall),
		Groups:  averageViews(byCrime),
	})
}

// GetCrimeAverages handles GET /v1/crimes/:crime/averages: the signed mean of
// one crime type and one entry per neighbourhood
func (h *Handler) GetCrimeAverages(c *fiber.Ctx) error {
	crime, err := param(c, "crime")
	if err != nil {
		return err
	}

	overall, byNeighbourhood, err := h.service.CrimeAverages(crime)
	if err != nil {
		return err
	}

	return c.JSON(models.AveragesResponse{
		CrimeType: crime,
		Overall:   averageView(overall),
		Groups:    averageViews(byNeighbourhood),
	})
}
