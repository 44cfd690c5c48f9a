package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"greenbasket/internal/domain"
	"greenbasket/internal/middleware"
	"greenbasket/internal/service/goal"
)

type GoalHandler struct {
	goalService goal.Service
}

func NewGoalHandler(goalService goal.Service) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateGoalInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.goalService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	activeOnly := c.Query("active_only") == "true"

	goals, err := h.goalService.List(c.Context(), userID, activeOnly)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"goals": goals})
}

func (h *GoalHandler) Get(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return middleware.BadRequest("Invalid goal ID")
	}

	found, err := h.goalService.GetByID(c.Context(), userID, goalID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *GoalHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return middleware.BadRequest("Invalid goal ID")
	}

	var input domain.UpdateGoalInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.goalService.Update(c.Context(), userID, goalID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return middleware.BadRequest("Invalid goal ID")
	}

	if err := h.goalService.Delete(c.Context(), userID, goalID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *GoalHandler) GetStats(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return middleware.BadRequest("Invalid goal ID")
	}

	stats, err := h.goalService.GetStats(c.Context(), userID, goalID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
