package unit_test

import (
	"context"
	"testing"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/service/purchase"
	"greenbasket/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type purchaseFixture struct {
	svc          purchase.Service
	purchaseRepo *mocks.PurchaseRepository
	productRepo  *mocks.ProductRepository
	goalRepo     *mocks.GoalRepository
	goalSvc      *mocks.GoalService
	milestoneSvc *mocks.MilestoneService
	trackerSvc   *mocks.TrackerService
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		purchaseRepo: new(mocks.PurchaseRepository),
		productRepo:  new(mocks.ProductRepository),
		goalRepo:     new(mocks.GoalRepository),
		goalSvc:      new(mocks.GoalService),
		milestoneSvc: new(mocks.MilestoneService),
		trackerSvc:   new(mocks.TrackerService),
	}
	f.svc = purchase.NewService(
		f.purchaseRepo, f.productRepo, f.goalRepo,
		f.goalSvc, f.milestoneSvc, f.trackerSvc,
		cache.New(cache.DefaultConfig()),
	)
	return f
}

func TestPurchaseService_TrackPurchase(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	productA := domain.Product{
		ID:                  uuid.New(),
		Name:                "Organic cotton shirt",
		Category:            "Clothing",
		Price:               30,
		SustainabilityGrade: domain.GradeA,
		SustainabilityScore: 88,
		IsActive:            true,
	}

	t.Run("Snapshots Items And Updates Goals", func(t *testing.T) {
		f := newPurchaseFixture()

		g := domain.SustainabilityGoal{
			ID:               uuid.New(),
			UserID:           userID,
			GoalType:         domain.GoalGradeBased,
			Config:           domain.GoalConfig{TargetGrades: []domain.SustainabilityGrade{domain.GradeA}},
			TargetPercentage: 50,
			Progress:         domain.GoalProgress{TotalItems: 2, GoalMetItems: 0, CurrentPercentage: 0},
			IsActive:         true,
		}

		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{productA.ID}).Return([]domain.Product{productA}, nil).Once()
		f.purchaseRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Purchase) bool {
			return p.UserID == userID && len(p.Items) == 1 &&
				p.Items[0].Quantity == 2 && p.Total == 60 &&
				p.Items[0].SustainabilityGrade == domain.GradeA
		})).Return(nil).Once()
		f.trackerSvc.On("Track", ctx, userID, mock.MatchedBy(func(in domain.TrackInteractionInput) bool {
			return in.Type == domain.InteractionPurchase && in.ProductID != nil && *in.ProductID == productA.ID
		})).Return(nil).Once()
		f.goalRepo.On("ListByUser", ctx, userID, true).Return([]domain.SustainabilityGoal{g}, nil).Once()
		f.goalSvc.On("ApplyPurchase", ctx, mock.AnythingOfType("*domain.SustainabilityGoal"), mock.AnythingOfType("domain.Purchase")).
			Return(0.0, domain.GoalProgress{TotalItems: 4, GoalMetItems: 2, CurrentPercentage: 50}, nil).Once()
		f.milestoneSvc.On("CheckMilestones", ctx, mock.AnythingOfType("*domain.SustainabilityGoal"), 0.0, 50.0).
			Return([]domain.Notification{}, nil).Once()

		created, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{
			Items: []domain.CreatePurchaseItemInput{{ProductID: productA.ID, Quantity: 2}},
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, 60.0, created.Total)
		f.purchaseRepo.AssertExpectations(t)
		f.goalSvc.AssertExpectations(t)
		f.milestoneSvc.AssertExpectations(t)
	})

	t.Run("Milestone Window Comes From The Atomic Fold", func(t *testing.T) {
		f := newPurchaseFixture()

		// the snapshot read says 20%, but a concurrent purchase has
		// already moved the row to 30% by the time the fold lands
		g := domain.SustainabilityGoal{
			ID:               uuid.New(),
			UserID:           userID,
			GoalType:         domain.GoalGradeBased,
			Config:           domain.GoalConfig{TargetGrades: []domain.SustainabilityGrade{domain.GradeA}},
			TargetPercentage: 80,
			Progress:         domain.GoalProgress{TotalItems: 10, GoalMetItems: 2, CurrentPercentage: 20},
			IsActive:         true,
		}

		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{productA.ID}).Return([]domain.Product{productA}, nil).Once()
		f.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Purchase")).Return(nil).Once()
		f.trackerSvc.On("Track", ctx, userID, mock.AnythingOfType("domain.TrackInteractionInput")).Return(nil).Once()
		f.goalRepo.On("ListByUser", ctx, userID, true).Return([]domain.SustainabilityGoal{g}, nil).Once()
		f.goalSvc.On("ApplyPurchase", ctx, mock.AnythingOfType("*domain.SustainabilityGoal"), mock.AnythingOfType("domain.Purchase")).
			Return(30.0, domain.GoalProgress{TotalItems: 13, GoalMetItems: 7, CurrentPercentage: 53.8}, nil).Once()
		f.milestoneSvc.On("CheckMilestones", ctx, mock.AnythingOfType("*domain.SustainabilityGoal"), 30.0, 53.8).
			Return([]domain.Notification{}, nil).Once()

		_, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{
			Items: []domain.CreatePurchaseItemInput{{ProductID: productA.ID, Quantity: 1}},
		})

		assert.NoError(t, err)
		f.milestoneSvc.AssertExpectations(t)
	})

	t.Run("Empty Order Is Rejected", func(t *testing.T) {
		f := newPurchaseFixture()

		created, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{})

		assert.Nil(t, created)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "items", vErr.Field)
	})

	t.Run("Unknown Products Only", func(t *testing.T) {
		f := newPurchaseFixture()
		ghostID := uuid.New()

		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{ghostID}).Return([]domain.Product{}, nil).Once()

		created, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{
			Items: []domain.CreatePurchaseItemInput{{ProductID: ghostID, Quantity: 1}},
		})

		assert.Nil(t, created)
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
		f.purchaseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Tracker Failure Does Not Fail The Purchase", func(t *testing.T) {
		f := newPurchaseFixture()

		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{productA.ID}).Return([]domain.Product{productA}, nil).Once()
		f.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Purchase")).Return(nil).Once()
		f.trackerSvc.On("Track", ctx, userID, mock.AnythingOfType("domain.TrackInteractionInput")).
			Return(assert.AnError).Once()
		f.goalRepo.On("ListByUser", ctx, userID, true).Return([]domain.SustainabilityGoal{}, nil).Once()

		created, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{
			Items: []domain.CreatePurchaseItemInput{{ProductID: productA.ID, Quantity: 1}},
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("Goal Failure Surfaces But Keeps The Purchase", func(t *testing.T) {
		f := newPurchaseFixture()

		g := domain.SustainabilityGoal{
			ID:       uuid.New(),
			UserID:   userID,
			GoalType: domain.GoalGradeBased,
			IsActive: true,
		}

		f.productRepo.On("GetByIDs", ctx, []uuid.UUID{productA.ID}).Return([]domain.Product{productA}, nil).Once()
		f.purchaseRepo.On("Create", ctx, mock.AnythingOfType("*domain.Purchase")).Return(nil).Once()
		f.trackerSvc.On("Track", ctx, userID, mock.AnythingOfType("domain.TrackInteractionInput")).Return(nil).Once()
		f.goalRepo.On("ListByUser", ctx, userID, true).Return([]domain.SustainabilityGoal{g}, nil).Once()
		f.goalSvc.On("ApplyPurchase", ctx, mock.AnythingOfType("*domain.SustainabilityGoal"), mock.AnythingOfType("domain.Purchase")).
			Return(0.0, domain.GoalProgress{}, assert.AnError).Once()

		created, err := f.svc.TrackPurchase(ctx, userID, domain.CreatePurchaseInput{
			Items: []domain.CreatePurchaseItemInput{{ProductID: productA.ID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotNil(t, created)
		f.milestoneSvc.AssertNotCalled(t, "CheckMilestones", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
