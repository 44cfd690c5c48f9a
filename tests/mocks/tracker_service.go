package mocks

import (
	"context"

	"greenbasket/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TrackerService struct {
	mock.Mock
}

func (m *TrackerService) Track(ctx context.Context, userID uuid.UUID, input domain.TrackInteractionInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *TrackerService) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PreferenceProfile), args.Error(1)
}

func (m *TrackerService) UpdateSurvey(ctx context.Context, userID uuid.UUID, input domain.UpdateSurveyInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}
