package handler

import (
	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/domain"
	"greenbasket/internal/middleware"
	"greenbasket/internal/service/purchase"
)

type PurchaseHandler struct {
	purchaseService purchase.Service
}

func NewPurchaseHandler(purchaseService purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

func (h *PurchaseHandler) Track(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreatePurchaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.purchaseService.TrackPurchase(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *PurchaseHandler) History(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	purchases, err := h.purchaseService.History(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"purchases": purchases})
}
