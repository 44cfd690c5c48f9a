package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

// candidatePoolSize bounds how many products are pulled from the
// catalog before scoring.
const candidatePoolSize = 200

const DefaultLimit = 20

type Service interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]ScoredProduct, error)
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

func (s *service) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]ScoredProduct, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cache.Key("getRecommendations", userID, limit)
	return cache.Do(ctx, s.cache, "getRecommendations", key, func(ctx context.Context) ([]ScoredProduct, error) {
		return s.compute(ctx, userID, limit)
	})
}

func (s *service) compute(ctx context.Context, userID uuid.UUID, limit int) ([]ScoredProduct, error) {
	if err := s.prefRepo.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := s.prefRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter, err := s.candidateFilter(ctx, profile)
	if err != nil {
		return nil, err
	}

	candidates, err := s.productRepo.GetActiveProducts(ctx, filter, domain.SortBySustainability, candidatePoolSize)
	if err != nil {
		return nil, err
	}

	// empty filtered set falls back to the whole active catalog
	if len(candidates) == 0 {
		candidates, err = s.productRepo.GetActiveProducts(ctx, domain.ProductFilter{}, domain.SortBySustainability, candidatePoolSize)
		if err != nil {
			return nil, err
		}
	}

	return Rank(profile, candidates, limit, time.Now()), nil
}

// candidateFilter derives the catalog query. Interaction-derived
// filters override the survey baseline once the user has significant
// history.
func (s *service) candidateFilter(ctx context.Context, profile *domain.PreferenceProfile) (domain.ProductFilter, error) {
	if profile.HasSignificantHistory() {
		return s.interactionFilter(ctx, profile)
	}
	if profile.Survey.Completed {
		return surveyFilter(profile.Survey), nil
	}
	return domain.ProductFilter{}, nil
}

func surveyFilter(survey domain.SurveyPreferences) domain.ProductFilter {
	filter := domain.ProductFilter{Categories: survey.Categories}

	band := survey.PriceRange
	if band != "" {
		filter.PriceBand = &band
	}

	switch survey.EcoPreference {
	case domain.EcoStrict:
		filter.Grades = []domain.SustainabilityGrade{domain.GradeA, domain.GradeB}
	case domain.EcoModerate:
		filter.Grades = []domain.SustainabilityGrade{domain.GradeA, domain.GradeB, domain.GradeC}
	}

	return filter
}

func (s *service) interactionFilter(ctx context.Context, profile *domain.PreferenceProfile) (domain.ProductFilter, error) {
	filter := domain.ProductFilter{
		Categories: profile.TopCategories(3, profile.CategoryFirstSeen),
	}

	ids := make([]uuid.UUID, 0, len(profile.ProductInteractions))
	for _, pi := range profile.ProductInteractions {
		ids = append(ids, pi.ProductID)
	}

	interacted, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return domain.ProductFilter{}, err
	}

	if grade := InferredGradePreference(interacted); grade != nil {
		filter.Grades = []domain.SustainabilityGrade{*grade}
	}
	filter.PriceBand = InferredPriceBand(interacted)

	return filter, nil
}
