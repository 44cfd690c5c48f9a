package unit_test

import (
	"context"
	"testing"
	"time"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/service/recommend"
	"greenbasket/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRecommendService() (recommend.Service, *mocks.PreferenceRepository, *mocks.ProductRepository) {
	prefRepo := new(mocks.PreferenceRepository)
	productRepo := new(mocks.ProductRepository)
	svc := recommend.NewService(prefRepo, productRepo, cache.New(cache.DefaultConfig()))
	return svc, prefRepo, productRepo
}

func TestRecommendService_GetRecommendations(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	catalog := []domain.Product{
		{ID: uuid.New(), Name: "Solar lamp", Category: "Home & Garden", Price: 40, SustainabilityGrade: domain.GradeA, SustainabilityScore: 92, Rating: 4.8, IsActive: true, CreatedAt: now},
		{ID: uuid.New(), Name: "Desk fan", Category: "Electronics", Price: 25, SustainabilityGrade: domain.GradeC, SustainabilityScore: 50, Rating: 4.0, IsActive: true, CreatedAt: now},
	}

	t.Run("New User Gets Catalog Ranking", func(t *testing.T) {
		svc, prefRepo, productRepo := newRecommendService()

		prefRepo.On("EnsureProfile", ctx, userID).Return(nil).Once()
		prefRepo.On("GetProfile", ctx, userID).Return(&domain.PreferenceProfile{UserID: userID}, nil).Once()
		productRepo.On("GetActiveProducts", ctx, domain.ProductFilter{}, domain.SortBySustainability, 200).
			Return(catalog, nil).Once()

		got, err := svc.GetRecommendations(ctx, userID, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Solar lamp", got[0].Product.Name)
		assert.Greater(t, got[0].Score, got[1].Score)
	})

	t.Run("Survey Narrows The Pool", func(t *testing.T) {
		svc, prefRepo, productRepo := newRecommendService()

		profile := &domain.PreferenceProfile{
			UserID: userID,
			Survey: domain.SurveyPreferences{
				Completed:     true,
				Categories:    []string{"Home & Garden"},
				PriceRange:    domain.PriceBandMid,
				EcoPreference: domain.EcoStrict,
			},
		}

		prefRepo.On("EnsureProfile", ctx, userID).Return(nil).Once()
		prefRepo.On("GetProfile", ctx, userID).Return(profile, nil).Once()
		productRepo.On("GetActiveProducts", ctx, mock.MatchedBy(func(f domain.ProductFilter) bool {
			return len(f.Categories) == 1 && f.Categories[0] == "Home & Garden" &&
				len(f.Grades) == 2 && f.PriceBand != nil && *f.PriceBand == domain.PriceBandMid
		}), domain.SortBySustainability, 200).Return(catalog[:1], nil).Once()

		got, err := svc.GetRecommendations(ctx, userID, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		productRepo.AssertExpectations(t)
	})

	t.Run("History Overrides Survey", func(t *testing.T) {
		svc, prefRepo, productRepo := newRecommendService()

		interactions := make([]domain.ProductInteraction, 6)
		ids := make([]uuid.UUID, 6)
		for i := range interactions {
			ids[i] = uuid.New()
			interactions[i] = domain.ProductInteraction{ProductID: ids[i], Count: 2}
		}
		profile := &domain.PreferenceProfile{
			UserID:              userID,
			Survey:              domain.SurveyPreferences{Completed: true, Categories: []string{"Books"}},
			CategoryFrequency:   map[string]float64{"Electronics": 12},
			CategoryFirstSeen:   map[string]int{"Electronics": 0},
			ProductInteractions: interactions,
		}

		interacted := []domain.Product{
			{ID: ids[0], Category: "Electronics", Price: 30, SustainabilityGrade: domain.GradeB},
			{ID: ids[1], Category: "Electronics", Price: 50, SustainabilityGrade: domain.GradeB},
		}

		prefRepo.On("EnsureProfile", ctx, userID).Return(nil).Once()
		prefRepo.On("GetProfile", ctx, userID).Return(profile, nil).Once()
		productRepo.On("GetByIDs", ctx, ids).Return(interacted, nil).Once()
		productRepo.On("GetActiveProducts", ctx, mock.MatchedBy(func(f domain.ProductFilter) bool {
			return len(f.Categories) == 1 && f.Categories[0] == "Electronics" &&
				len(f.Grades) == 1 && f.Grades[0] == domain.GradeB &&
				f.PriceBand != nil && *f.PriceBand == domain.PriceBandMid
		}), domain.SortBySustainability, 200).Return(catalog[1:], nil).Once()

		got, err := svc.GetRecommendations(ctx, userID, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		productRepo.AssertExpectations(t)
	})

	t.Run("Empty Filtered Pool Falls Back To Full Catalog", func(t *testing.T) {
		svc, prefRepo, productRepo := newRecommendService()

		profile := &domain.PreferenceProfile{
			UserID: userID,
			Survey: domain.SurveyPreferences{Completed: true, Categories: []string{"Toys"}, EcoPreference: domain.EcoStrict},
		}

		prefRepo.On("EnsureProfile", ctx, userID).Return(nil).Once()
		prefRepo.On("GetProfile", ctx, userID).Return(profile, nil).Once()
		productRepo.On("GetActiveProducts", ctx, mock.MatchedBy(func(f domain.ProductFilter) bool {
			return len(f.Categories) == 1
		}), domain.SortBySustainability, 200).Return([]domain.Product{}, nil).Once()
		productRepo.On("GetActiveProducts", ctx, domain.ProductFilter{}, domain.SortBySustainability, 200).
			Return(catalog, nil).Once()

		got, err := svc.GetRecommendations(ctx, userID, 10)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		productRepo.AssertExpectations(t)
	})

	t.Run("Result Is Cached Per User And Limit", func(t *testing.T) {
		svc, prefRepo, productRepo := newRecommendService()

		prefRepo.On("EnsureProfile", ctx, userID).Return(nil).Once()
		prefRepo.On("GetProfile", ctx, userID).Return(&domain.PreferenceProfile{UserID: userID}, nil).Once()
		productRepo.On("GetActiveProducts", ctx, domain.ProductFilter{}, domain.SortBySustainability, 200).
			Return(catalog, nil).Once()

		_, err := svc.GetRecommendations(ctx, userID, 10)
		assert.NoError(t, err)
		_, err = svc.GetRecommendations(ctx, userID, 10)
		assert.NoError(t, err)

		prefRepo.AssertNumberOfCalls(t, "GetProfile", 1)
	})
}
