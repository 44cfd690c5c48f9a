package handler

import (
	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/domain"
	"greenbasket/internal/middleware"
	"greenbasket/internal/service/tracker"
)

type InteractionHandler struct {
	trackerService tracker.Service
}

func NewInteractionHandler(trackerService tracker.Service) *InteractionHandler {
	return &InteractionHandler{trackerService: trackerService}
}

func (h *InteractionHandler) Track(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.TrackInteractionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.trackerService.Track(c.Context(), userID, input); err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "tracked"})
}

func (h *InteractionHandler) GetPreferences(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	profile, err := h.trackerService.GetPreferences(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *InteractionHandler) UpdateSurvey(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.UpdateSurveyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.trackerService.UpdateSurvey(c.Context(), userID, input); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "updated"})
}
