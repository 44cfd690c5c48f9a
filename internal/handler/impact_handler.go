package handler

import (
	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/service/impact"
)

type ImpactHandler struct {
	impactService impact.Service
}

func NewImpactHandler(impactService impact.Service) *ImpactHandler {
	return &ImpactHandler{impactService: impactService}
}

func (h *ImpactHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.impactService.GetStats(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
