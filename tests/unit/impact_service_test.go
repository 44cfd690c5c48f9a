package unit_test

import (
	"context"
	"testing"

	"greenbasket/internal/domain"
	"greenbasket/internal/service/impact"
	"greenbasket/tests/mocks"

	"github.com/stretchr/testify/assert"
)

func TestImpactService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Composes Platform Counters", func(t *testing.T) {
		purchaseRepo := new(mocks.PurchaseRepository)
		goalRepo := new(mocks.GoalRepository)
		svc := impact.NewService(purchaseRepo, goalRepo, nil)

		purchaseRepo.On("CountAll", ctx).Return(int64(40), nil).Once()
		purchaseRepo.On("CountItems", ctx).Return(int64(100), nil).Once()
		purchaseRepo.On("CountItemsByGrades", ctx, []domain.SustainabilityGrade{domain.GradeA, domain.GradeB}).
			Return(int64(25), nil).Once()
		purchaseRepo.On("AverageSustainabilityScore", ctx).Return(61.5, nil).Once()
		goalRepo.On("CountAllActive", ctx).Return(int64(12), nil).Once()
		goalRepo.On("CountAchieved", ctx).Return(int64(4), nil).Once()

		stats, err := svc.GetStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(40), stats.TotalPurchases)
		assert.InDelta(t, 25.0, stats.EcoGradeShare, 0.001)
		assert.Equal(t, int64(12), stats.ActiveGoals)
		purchaseRepo.AssertExpectations(t)
		goalRepo.AssertExpectations(t)
	})

	t.Run("No Items Means Zero Share", func(t *testing.T) {
		purchaseRepo := new(mocks.PurchaseRepository)
		goalRepo := new(mocks.GoalRepository)
		svc := impact.NewService(purchaseRepo, goalRepo, nil)

		purchaseRepo.On("CountAll", ctx).Return(int64(0), nil).Once()
		purchaseRepo.On("CountItems", ctx).Return(int64(0), nil).Once()
		purchaseRepo.On("CountItemsByGrades", ctx, []domain.SustainabilityGrade{domain.GradeA, domain.GradeB}).
			Return(int64(0), nil).Once()
		purchaseRepo.On("AverageSustainabilityScore", ctx).Return(0.0, nil).Once()
		goalRepo.On("CountAllActive", ctx).Return(int64(0), nil).Once()
		goalRepo.On("CountAchieved", ctx).Return(int64(0), nil).Once()

		stats, err := svc.GetStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, stats.EcoGradeShare)
	})
}
