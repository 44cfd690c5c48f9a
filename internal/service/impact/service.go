package impact

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

const (
	statsCacheKey = "impact:stats"
	statsCacheTTL = 5 * time.Minute
)

// Stats is the platform-wide sustainability picture shown on the
// storefront dashboard.
type Stats struct {
	TotalPurchases int64   `json:"total_purchases"`
	TotalItems     int64   `json:"total_items"`
	EcoGradeItems  int64   `json:"eco_grade_items"`
	EcoGradeShare  float64 `json:"eco_grade_share"`
	AverageScore   float64 `json:"average_score"`
	ActiveGoals    int64   `json:"active_goals"`
	AchievedGoals  int64   `json:"achieved_goals"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	purchaseRepo repository.PurchaseRepository
	goalRepo     repository.GoalRepository
	redis        *redis.Client
}

func NewService(purchaseRepo repository.PurchaseRepository, goalRepo repository.GoalRepository, redis *redis.Client) Service {
	return &service{
		purchaseRepo: purchaseRepo,
		goalRepo:     goalRepo,
		redis:        redis,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	totalPurchases, err := s.purchaseRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	totalItems, err := s.purchaseRepo.CountItems(ctx)
	if err != nil {
		return nil, err
	}

	ecoItems, err := s.purchaseRepo.CountItemsByGrades(ctx, []domain.SustainabilityGrade{domain.GradeA, domain.GradeB})
	if err != nil {
		return nil, err
	}

	avgScore, err := s.purchaseRepo.AverageSustainabilityScore(ctx)
	if err != nil {
		return nil, err
	}

	activeGoals, err := s.goalRepo.CountAllActive(ctx)
	if err != nil {
		return nil, err
	}

	achievedGoals, err := s.goalRepo.CountAchieved(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalPurchases: totalPurchases,
		TotalItems:     totalItems,
		EcoGradeItems:  ecoItems,
		AverageScore:   avgScore,
		ActiveGoals:    activeGoals,
		AchievedGoals:  achievedGoals,
	}
	if totalItems > 0 {
		stats.EcoGradeShare = float64(ecoItems) / float64(totalItems) * 100
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}
