package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PurchaseRepository struct {
	mock.Mock
}

func (m *PurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *PurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *PurchaseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *PurchaseRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PurchaseRepository) CountItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PurchaseRepository) CountItemsByGrades(ctx context.Context, grades []domain.SustainabilityGrade) (int64, error) {
	args := m.Called(ctx, grades)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PurchaseRepository) AverageSustainabilityScore(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
