package mocks

import (
	"context"
	"time"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) EnsureProfile(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *PreferenceRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreferenceProfile), args.Error(1)
}

func (m *PreferenceRepository) UpdateSurvey(ctx context.Context, userID uuid.UUID, survey domain.SurveyPreferences) error {
	args := m.Called(ctx, userID, survey)
	return args.Error(0)
}

func (m *PreferenceRepository) IncrementCategoryWeight(ctx context.Context, userID uuid.UUID, category string, delta float64) error {
	args := m.Called(ctx, userID, category, delta)
	return args.Error(0)
}

func (m *PreferenceRepository) AddEngagement(ctx context.Context, userID uuid.UUID, delta float64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *PreferenceRepository) AddSearchEntry(ctx context.Context, userID uuid.UUID, entry domain.SearchEntry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *PreferenceRepository) RecordProductInteraction(ctx context.Context, userID, productID uuid.UUID, interactionType domain.InteractionType, at time.Time) error {
	args := m.Called(ctx, userID, productID, interactionType, at)
	return args.Error(0)
}

func (m *PreferenceRepository) SetDashboardCategories(ctx context.Context, userID uuid.UUID, categories []string) error {
	args := m.Called(ctx, userID, categories)
	return args.Error(0)
}
