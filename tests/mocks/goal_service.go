package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type GoalService struct {
	mock.Mock
}

func (m *GoalService) Create(ctx context.Context, userID uuid.UUID, input domain.CreateGoalInput) (*domain.SustainabilityGoal, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalService) GetByID(ctx context.Context, userID, goalID uuid.UUID) (*domain.SustainabilityGoal, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalService) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, input domain.UpdateGoalInput) (*domain.SustainabilityGoal, error) {
	args := m.Called(ctx, userID, goalID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	args := m.Called(ctx, userID, goalID)
	return args.Error(0)
}

func (m *GoalService) GetStats(ctx context.Context, userID, goalID uuid.UUID) (*domain.GoalStats, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoalStats), args.Error(1)
}

func (m *GoalService) RecomputeProgress(ctx context.Context, goal *domain.SustainabilityGoal) (domain.GoalProgress, error) {
	args := m.Called(ctx, goal)
	return args.Get(0).(domain.GoalProgress), args.Error(1)
}

func (m *GoalService) ApplyPurchase(ctx context.Context, goal *domain.SustainabilityGoal, purchase domain.Purchase) (float64, domain.GoalProgress, error) {
	args := m.Called(ctx, goal, purchase)
	return args.Get(0).(float64), args.Get(1).(domain.GoalProgress), args.Error(2)
}
