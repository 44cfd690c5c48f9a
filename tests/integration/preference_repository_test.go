//go:build integration
// +build integration

package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
)

func TestEngagementScoreStaysBounded(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Teardown()

	ctx := context.Background()
	repo := repository.NewPreferenceRepository(env.DB)

	t.Run("Saturates At The Ceiling", func(t *testing.T) {
		userID := env.SeedUser(t)
		require.NoError(t, repo.EnsureProfile(ctx, userID))

		// a purchase contributes 1.0; a long spree must stop at 100
		for i := 0; i < 150; i++ {
			require.NoError(t, repo.AddEngagement(ctx, userID, 1.0))
		}

		profile, err := repo.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxEngagementScore, profile.EngagementScore)

		// further events keep it pinned, not past it
		require.NoError(t, repo.AddEngagement(ctx, userID, 0.5))
		profile, err = repo.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxEngagementScore, profile.EngagementScore)
	})

	t.Run("Monotonic Under A Mixed Sequence", func(t *testing.T) {
		userID := env.SeedUser(t)
		require.NoError(t, repo.EnsureProfile(ctx, userID))

		weights := []float64{0.1, 0.2, 0.3, 0.5, 1.0}
		previous := 0.0
		for i := 0; i < 300; i++ {
			require.NoError(t, repo.AddEngagement(ctx, userID, weights[i%len(weights)]))

			profile, err := repo.GetProfile(ctx, userID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, profile.EngagementScore, previous)
			assert.LessOrEqual(t, profile.EngagementScore, domain.MaxEngagementScore)
			previous = profile.EngagementScore
		}
		assert.Equal(t, domain.MaxEngagementScore, previous)
	})

	t.Run("Never Drops Below Zero", func(t *testing.T) {
		userID := env.SeedUser(t)
		require.NoError(t, repo.EnsureProfile(ctx, userID))

		require.NoError(t, repo.AddEngagement(ctx, userID, -5))

		profile, err := repo.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, profile.EngagementScore)
	})
}
