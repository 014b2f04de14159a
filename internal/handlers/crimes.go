package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/pindex/internal/models"
)

// ListCrimes handles GET /v1/crimes
func (h *Handler) ListCrimes(c *fiber.Ctx) error {
	crimes := h.service.Crimes()
	if crimes == nil {
		crimes = []string{}
	}
	return c.JSON(models.CrimeListResponse{Crimes: crimes})
}

// ListNeighbourhoods handles GET /v1/crimes/:crime/neighbourhoods
func (h *Handler) ListNeighbourhoods(c *fiber.Ctx) error {
	crime, err := param(c, "crime")
	if err != nil {
		return err
	}

	neighbourhoods, err := h.service.Neighbourhoods(crime)
	if err != nil {
		return err
	}

	return c.JSON(models.NeighbourhoodListResponse{
		CrimeType:      crime,
		Neighbourhoods: neighbourhoods,
	})
}

// GetSeries handles GET /v1/crimes/:crime/neighbourhoods/:neighbourhood
// and returns the chronological index series of the pair
func (h *Handler) GetSeries(c *fiber.Ctx) error {
	crime, err := param(c, "crime")
	if err != nil {
		return err
	}
	neighbourhood, err := param(c, "neighbourhood")
	if err != nil {
		return err
	}

	points, err := h.service.Series(crime, neighbourhood)
	if err != nil {
		return err
	}

	views := make([]models.IndexPointView, 0, len(points))
	for _, p := range points {
		views = append(views, models.IndexPointView{
			Year:  p.Year,
			Month: p.Month,
			Index: p.Index,
			Class: string(h.service.Classify(p.Index)),
		})
	}

	return c.JSON(models.SeriesResponse{
		CrimeType:     crime,
		Neighbourhood: neighbourhood,
		Points:        views,
		Count:         len(views),
	})
}

// GetFrames handles GET /v1/crimes/:crime/frames
func (h *Handler) GetFrames(c *fiber.Ctx) error {
	crime, err := param(c, "crime")
	if err != nil {
		return err
	}

	frames, err := h.service.Frames(crime)
	if err != nil {
		return err
	}

	views := make([]models.FrameView, 0, len(frames))
	for _, f := range frames {
		views = append(views, models.FrameView{Date: f.Date, Region: f.Region, Index: f.Index})
	}

	return c.JSON(models.FramesResponse{
		CrimeType: crime,
		Frames:    views,
		Count:     len(views),
	})
}
