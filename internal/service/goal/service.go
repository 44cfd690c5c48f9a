package goal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"greenbasket/internal/cache"
	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.CreateGoalInput) (*domain.SustainabilityGoal, error)
	GetByID(ctx context.Context, userID, goalID uuid.UUID) (*domain.SustainabilityGoal, error)
	List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error)
	Update(ctx context.Context, userID, goalID uuid.UUID, input domain.UpdateGoalInput) (*domain.SustainabilityGoal, error)
	Delete(ctx context.Context, userID, goalID uuid.UUID) error
	GetStats(ctx context.Context, userID, goalID uuid.UUID) (*domain.GoalStats, error)

	// RecomputeProgress rebuilds the goal's counters from the full
	// purchase history and persists them.
	RecomputeProgress(ctx context.Context, goal *domain.SustainabilityGoal) (domain.GoalProgress, error)
	// ApplyPurchase folds one new purchase into the goal's counters as
	// an atomic in-database increment; it must converge with
	// RecomputeProgress. The percentage the goal held before the fold
	// is returned for milestone crossing checks.
	ApplyPurchase(ctx context.Context, goal *domain.SustainabilityGoal, purchase domain.Purchase) (float64, domain.GoalProgress, error)
}

type service struct {
	goalRepo     repository.GoalRepository
	purchaseRepo repository.PurchaseRepository
	cache        *cache.Cache
}

func NewService(goalRepo repository.GoalRepository, purchaseRepo repository.PurchaseRepository, c *cache.Cache) Service {
	return &service{
		goalRepo:     goalRepo,
		purchaseRepo: purchaseRepo,
		cache:        c,
	}
}

func validateCreate(input domain.CreateGoalInput) error {
	if input.Name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if input.TargetPercentage <= 0 || input.TargetPercentage > 100 {
		return domain.NewValidationError("target_percentage", "must be between 1 and 100")
	}

	switch input.GoalType {
	case domain.GoalGradeBased:
		if len(input.TargetGrades) == 0 {
			return domain.NewValidationError("target_grades", "at least one target grade is required")
		}
	case domain.GoalScoreBased:
		if input.MinimumScore == nil {
			return domain.NewValidationError("minimum_score", "minimum score is required")
		}
		if *input.MinimumScore < 0 || *input.MinimumScore > 100 {
			return domain.NewValidationError("minimum_score", "must be between 0 and 100")
		}
	case domain.GoalCategoryBased:
		if len(input.Categories) == 0 {
			return domain.NewValidationError("categories", "at least one category is required")
		}
		if len(input.TargetGrades) == 0 {
			return domain.NewValidationError("target_grades", "at least one target grade is required")
		}
	default:
		return domain.NewValidationError("goal_type", "must be grade-based, score-based or category-based")
	}

	for _, g := range input.TargetGrades {
		if !g.IsValid() {
			return domain.NewValidationError("target_grades", "unknown grade: "+string(g))
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input domain.CreateGoalInput) (*domain.SustainabilityGoal, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	active, err := s.goalRepo.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxActiveGoals {
		return nil, domain.NewValidationError("is_active", "active goal limit (5) reached")
	}

	goal := &domain.SustainabilityGoal{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     input.Name,
		GoalType: input.GoalType,
		Config: domain.GoalConfig{
			TargetGrades: input.TargetGrades,
			MinimumScore: input.MinimumScore,
			Categories:   input.Categories,
		},
		TargetPercentage: input.TargetPercentage,
		IsActive:         true,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}

	// seed progress from the history the user already has
	if _, err := s.RecomputeProgress(ctx, goal); err != nil {
		return nil, err
	}

	s.cache.Invalidate("getUserGoals", "getGoalStats")
	return goal, nil
}

func (s *service) GetByID(ctx context.Context, userID, goalID uuid.UUID) (*domain.SustainabilityGoal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error) {
	key := cache.Key("getUserGoals", userID, activeOnly)
	return cache.Do(ctx, s.cache, "getUserGoals", key, func(ctx context.Context) ([]domain.SustainabilityGoal, error) {
		return s.goalRepo.ListByUser(ctx, userID, activeOnly)
	})
}

func (s *service) Update(ctx context.Context, userID, goalID uuid.UUID, input domain.UpdateGoalInput) (*domain.SustainabilityGoal, error) {
	goal, err := s.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.NewValidationError("name", "name cannot be empty")
		}
		goal.Name = *input.Name
	}
	if input.TargetPercentage != nil {
		if *input.TargetPercentage <= 0 || *input.TargetPercentage > 100 {
			return nil, domain.NewValidationError("target_percentage", "must be between 1 and 100")
		}
		goal.TargetPercentage = *input.TargetPercentage
	}
	if input.IsActive != nil {
		if *input.IsActive && !goal.IsActive {
			active, err := s.goalRepo.CountActive(ctx, userID)
			if err != nil {
				return nil, err
			}
			if active >= domain.MaxActiveGoals {
				return nil, domain.NewValidationError("is_active", "active goal limit (5) reached")
			}
		}
		goal.IsActive = *input.IsActive
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}

	s.cache.Invalidate("getUserGoals", "getGoalStats")
	return goal, nil
}

func (s *service) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID, goalID); err != nil {
		return err
	}
	if err := s.goalRepo.Delete(ctx, goalID); err != nil {
		return err
	}

	s.cache.Invalidate("getUserGoals", "getGoalStats")
	return nil
}

func (s *service) GetStats(ctx context.Context, userID, goalID uuid.UUID) (*domain.GoalStats, error) {
	goal, err := s.GetByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	key := cache.Key("getGoalStats", userID, goalID)
	return cache.Do(ctx, s.cache, "getGoalStats", key, func(ctx context.Context) (*domain.GoalStats, error) {
		purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		stats := Recompute(goal, purchases)
		return &stats, nil
	})
}

func (s *service) RecomputeProgress(ctx context.Context, goal *domain.SustainabilityGoal) (domain.GoalProgress, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, goal.UserID)
	if err != nil {
		return domain.GoalProgress{}, err
	}

	stats := Recompute(goal, purchases)
	progress := domain.GoalProgress{
		TotalPurchases:    stats.TotalPurchases,
		TotalItems:        stats.TotalItems,
		GoalMetItems:      stats.GoalMetItems,
		CurrentPercentage: stats.CurrentPercentage,
		LastUpdated:       time.Now(),
	}

	if err := s.goalRepo.UpdateProgress(ctx, goal.ID, progress); err != nil {
		return domain.GoalProgress{}, err
	}
	goal.Progress = progress
	return progress, nil
}

func (s *service) ApplyPurchase(ctx context.Context, goal *domain.SustainabilityGoal, purchase domain.Purchase) (float64, domain.GoalProgress, error) {
	totalItems, metItems := purchaseContribution(goal, purchase)

	previous, progress, err := s.goalRepo.ApplyDelta(ctx, goal.ID, domain.GoalProgressDelta{
		Purchases: 1,
		Items:     totalItems,
		MetItems:  metItems,
	})
	if err != nil {
		return 0, domain.GoalProgress{}, err
	}
	goal.Progress = progress
	return previous, progress, nil
}
