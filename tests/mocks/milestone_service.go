package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MilestoneService struct {
	mock.Mock
}

func (m *MilestoneService) CheckMilestones(ctx context.Context, goal *domain.SustainabilityGoal, previousPct, newPct float64) ([]domain.Notification, error) {
	args := m.Called(ctx, goal, previousPct, newPct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MilestoneService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *MilestoneService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MilestoneService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MilestoneService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
