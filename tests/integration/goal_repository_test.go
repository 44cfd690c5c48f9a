//go:build integration
// +build integration

package integration_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

func TestGoalProgressConcurrentFolds(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	ctx := context.Background()
	repo := repository.NewGoalRepository(env.DB)
	userID := env.SeedUser(t)

	goal := &domain.SustainabilityGoal{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Mostly grade A",
		GoalType: domain.GoalGradeBased,
		Config: domain.GoalConfig{
			TargetGrades: []domain.SustainabilityGrade{domain.GradeA},
		},
		TargetPercentage: 50,
		IsActive:         true,
	}
	require.NoError(t, repo.Create(ctx, goal))

	// 20 purchases land at once, each folding {1 purchase, 2 items,
	// 1 met}; no contribution may be lost to a concurrent writer
	const folds = 20
	var wg sync.WaitGroup
	errs := make([]error, folds)
	for i := 0; i < folds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = repo.ApplyDelta(ctx, goal.ID, domain.GoalProgressDelta{
				Purchases: 1,
				Items:     2,
				MetItems:  1,
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "fold %d", i)
	}

	stored, err := repo.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, folds, stored.Progress.TotalPurchases)
	assert.Equal(t, 2*folds, stored.Progress.TotalItems)
	assert.Equal(t, folds, stored.Progress.GoalMetItems)
	assert.InDelta(t, 50.0, stored.Progress.CurrentPercentage, 0.001)
}

func TestGoalApplyDeltaUnknownGoal(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	repo := repository.NewGoalRepository(env.DB)

	_, _, err := repo.ApplyDelta(context.Background(), uuid.New(), domain.GoalProgressDelta{Purchases: 1})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}
