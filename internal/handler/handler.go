package handler

import (
	"github.com/gofiber/fiber/v2"

	"greenbasket/internal/domain"
	"greenbasket/internal/service"
)

type Handlers struct {
	Auth           *AuthHandler
	Interaction    *InteractionHandler
	Recommendation *RecommendationHandler
	Goal           *GoalHandler
	Purchase       *PurchaseHandler
	Notification   *NotificationHandler
	Impact         *ImpactHandler
	Sweep          *SweepHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:           NewAuthHandler(services.Auth),
		Interaction:    NewInteractionHandler(services.Tracker),
		Recommendation: NewRecommendationHandler(services.Recommend),
		Goal:           NewGoalHandler(services.Goal),
		Purchase:       NewPurchaseHandler(services.Purchase),
		Notification:   NewNotificationHandler(services.Milestone),
		Impact:         NewImpactHandler(services.Impact),
		Sweep:          NewSweepHandler(services.Sweep),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return domain.DefaultPagination()
	}
	params.Validate()
	return params
}
