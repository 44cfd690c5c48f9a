package handler

import (
	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/service/sweep"
)

type SweepHandler struct {
	sweepService sweep.Service
}

func NewSweepHandler(sweepService sweep.Service) *SweepHandler {
	return &SweepHandler{sweepService: sweepService}
}

func (h *SweepHandler) Run(c *fiber.Ctx) error {
	result, err := h.sweepService.RunWeeklySweep(c.Context())
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if result.AlreadyRunning {
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(result)
}
