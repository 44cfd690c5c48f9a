package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/middleware"
	"greenbasket/internal/service/recommend"
)

type RecommendationHandler struct {
	recommendService recommend.Service
}

func NewRecommendationHandler(recommendService recommend.Service) *RecommendationHandler {
	return &RecommendationHandler{recommendService: recommendService}
}

func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = recommend.DefaultLimit
	}

	recommendations, err := h.recommendService.GetRecommendations(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}
