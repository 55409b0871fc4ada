package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tmc/cv-tailor/internal/models"
	"tmc/cv-tailor/internal/repositories"
)

type ResultHandler struct {
	matchRepo repositories.MatchRepository
}

func NewResultHandler(matchRepo repositories.MatchRepository) *ResultHandler {
	return &ResultHandler{
		matchRepo: matchRepo,
	}
}

// HandleGetMatch handles GET /match/:id.
func (h *ResultHandler) HandleGetMatch(c *fiber.Ctx) error {
	idParam := c.Params("id")
	matchID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "invalid match ID format",
		})
	}

	record, err := h.matchRepo.FindByID(matchID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "match not found or expired",
		})
	}

	return c.JSON(models.MatchResponse{
		ID:        record.ID.String(),
		Candidate: record.Profile,
		Match:     record.Result,
	})
}
