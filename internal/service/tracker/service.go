package tracker

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

// engagementFactor scales an interaction weight into engagement points.
const engagementFactor = 0.1

type Service interface {
	Track(ctx context.Context, userID uuid.UUID, input domain.TrackInteractionInput) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error)
	UpdateSurvey(ctx context.Context, userID uuid.UUID, input domain.UpdateSurveyInput) error
}

type service struct {
	prefRepo    repository.PreferenceRepository
	productRepo repository.ProductRepository
	cache       *cache.Cache
}

func NewService(prefRepo repository.PreferenceRepository, productRepo repository.ProductRepository, c *cache.Cache) Service {
	return &service{
		prefRepo:    prefRepo,
		productRepo: productRepo,
		cache:       c,
	}
}

func (s *service) Track(ctx context.Context, userID uuid.UUID, input domain.TrackInteractionInput) error {
	if input.Type == "" {
		return domain.NewValidationError("type", "interaction type is required")
	}
	if !input.Type.IsValid() {
		// rejected, but the enclosing request carries on
		log.Printf("Ignoring unknown interaction type %q for user %s", input.Type, userID)
		return nil
	}

	if err := s.prefRepo.EnsureProfile(ctx, userID); err != nil {
		return err
	}

	now := time.Now()
	weight := input.Type.Weight()

	category := input.Category
	if category == nil && input.ProductID != nil {
		category = s.lookupCategory(ctx, *input.ProductID)
	}

	if category != nil {
		if err := s.prefRepo.IncrementCategoryWeight(ctx, userID, *category, weight); err != nil {
			return err
		}
	}

	if input.Type == domain.InteractionSearch && input.SearchQuery != nil {
		entry := domain.SearchEntry{
			Query:     *input.SearchQuery,
			Category:  category,
			Weight:    weight,
			Timestamp: now,
		}
		if err := s.prefRepo.AddSearchEntry(ctx, userID, entry); err != nil {
			return err
		}
	}

	if input.ProductID != nil {
		if err := s.prefRepo.RecordProductInteraction(ctx, userID, *input.ProductID, input.Type, now); err != nil {
			return err
		}
	}

	if err := s.prefRepo.AddEngagement(ctx, userID, weight*engagementFactor); err != nil {
		return err
	}

	if category != nil {
		if err := s.refreshDashboardCategories(ctx, userID); err != nil {
			return err
		}
	}

	s.cache.Invalidate("getPreferences", "getRecommendations")
	return nil
}

// lookupCategory resolves a product's category from the catalog. A
// missing or inactive product is skipped silently.
func (s *service) lookupCategory(ctx context.Context, productID uuid.UUID) *string {
	products, err := s.productRepo.GetByIDs(ctx, []uuid.UUID{productID})
	if err != nil || len(products) == 0 {
		return nil
	}
	return &products[0].Category
}

func (s *service) refreshDashboardCategories(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.prefRepo.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	top := profile.TopCategories(domain.MaxDashboardCategories, profile.CategoryFirstSeen)
	return s.prefRepo.SetDashboardCategories(ctx, userID, top)
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	key := cache.Key("getPreferences", userID)
	return cache.Do(ctx, s.cache, "getPreferences", key, func(ctx context.Context) (*domain.PreferenceProfile, error) {
		if err := s.prefRepo.EnsureProfile(ctx, userID); err != nil {
			return nil, err
		}
		return s.prefRepo.GetProfile(ctx, userID)
	})
}

func (s *service) UpdateSurvey(ctx context.Context, userID uuid.UUID, input domain.UpdateSurveyInput) error {
	if len(input.Categories) == 0 {
		return domain.NewValidationError("categories", "at least one category is required")
	}
	for _, c := range input.Categories {
		if !domain.IsKnownCategory(c) {
			return domain.NewValidationError("categories", "unknown category: "+c)
		}
	}
	switch input.PriceRange {
	case domain.PriceBandBudget, domain.PriceBandMid, domain.PriceBandPremium:
	default:
		return domain.NewValidationError("price_range", "must be budget, mid or premium")
	}
	switch input.EcoPreference {
	case domain.EcoStrict, domain.EcoModerate, domain.EcoNoPreference:
	default:
		return domain.NewValidationError("eco_preference", "must be strict, moderate or no_preference")
	}

	if err := s.prefRepo.EnsureProfile(ctx, userID); err != nil {
		return err
	}

	survey := domain.SurveyPreferences{
		Completed:     true,
		Categories:    input.Categories,
		PriceRange:    input.PriceRange,
		EcoPreference: input.EcoPreference,
		Interests:     input.Interests,
	}
	if err := s.prefRepo.UpdateSurvey(ctx, userID, survey); err != nil {
		return err
	}

	s.cache.Invalidate("getPreferences", "getRecommendations")
	return nil
}
