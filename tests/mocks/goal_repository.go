package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type GoalRepository struct {
	mock.Mock
}

func (m *GoalRepository) Create(ctx context.Context, goal *domain.SustainabilityGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SustainabilityGoal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SustainabilityGoal), args.Error(1)
}

func (m *GoalRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *GoalRepository) Update(ctx context.Context, goal *domain.SustainabilityGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *GoalRepository) UpdateProgress(ctx context.Context, goalID uuid.UUID, progress domain.GoalProgress) error {
	args := m.Called(ctx, goalID, progress)
	return args.Error(0)
}

func (m *GoalRepository) ApplyDelta(ctx context.Context, goalID uuid.UUID, delta domain.GoalProgressDelta) (float64, domain.GoalProgress, error) {
	args := m.Called(ctx, goalID, delta)
	return args.Get(0).(float64), args.Get(1).(domain.GoalProgress), args.Error(2)
}

func (m *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *GoalRepository) ListUserIDsWithActiveGoals(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *GoalRepository) CountAllActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *GoalRepository) CountAchieved(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
