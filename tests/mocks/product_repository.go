package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) GetActiveProducts(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, filter, sort, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
