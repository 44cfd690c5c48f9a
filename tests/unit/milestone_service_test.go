package unit_test

import (
	"context"
	"errors"
	"testing"

	"greenbasket/internal/domain"
	"greenbasket/internal/service/milestone"
	"greenbasket/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newMilestoneService() (milestone.Service, *mocks.NotificationRepository) {
	notifRepo := new(mocks.NotificationRepository)
	svc := milestone.NewService(notifRepo, new(mocks.UserRepository), nil)
	return svc, notifRepo
}

func TestMilestoneService_CheckMilestones(t *testing.T) {
	ctx := context.Background()

	makeGoal := func(target float64) *domain.SustainabilityGoal {
		return &domain.SustainabilityGoal{
			ID:               uuid.New(),
			UserID:           uuid.New(),
			Name:             "Buy greener",
			GoalType:         domain.GoalGradeBased,
			Config:           domain.GoalConfig{TargetGrades: []domain.SustainabilityGrade{domain.GradeA}},
			TargetPercentage: target,
		}
	}

	t.Run("Single Crossing", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		notifRepo.On("CreateUnique", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.GoalID == g.ID && n.Milestone == domain.Milestone25
		})).Return(true, nil).Once()

		created, err := svc.CheckMilestones(ctx, g, 20, 30)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, domain.Milestone25, created[0].Milestone)
		notifRepo.AssertExpectations(t)
	})

	t.Run("Multiple Thresholds In One Jump", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		notifRepo.On("CreateUnique", ctx, mock.AnythingOfType("*domain.Notification")).Return(true, nil).Times(3)

		created, err := svc.CheckMilestones(ctx, g, 10, 76)

		assert.NoError(t, err)
		assert.Len(t, created, 3)
		assert.Equal(t, domain.Milestone25, created[0].Milestone)
		assert.Equal(t, domain.Milestone50, created[1].Milestone)
		assert.Equal(t, domain.Milestone75, created[2].Milestone)
	})

	t.Run("Target Crossing Fires Achieved", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		notifRepo.On("CreateUnique", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Milestone == domain.MilestoneAchieved
		})).Return(true, nil).Once()

		created, err := svc.CheckMilestones(ctx, g, 76, 85)

		assert.NoError(t, err)
		assert.Len(t, created, 1)
	})

	t.Run("Target On A Fixed Rung Fires Both", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(75)

		notifRepo.On("CreateUnique", ctx, mock.AnythingOfType("*domain.Notification")).Return(true, nil).Times(2)

		created, err := svc.CheckMilestones(ctx, g, 60, 80)

		assert.NoError(t, err)
		assert.Len(t, created, 2)
		assert.Equal(t, domain.Milestone75, created[0].Milestone)
		assert.Equal(t, domain.MilestoneAchieved, created[1].Milestone)
	})

	t.Run("Low Target Fires In Value Order", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(40)

		notifRepo.On("CreateUnique", ctx, mock.AnythingOfType("*domain.Notification")).Return(true, nil).Times(4)

		created, err := svc.CheckMilestones(ctx, g, 0, 80)

		assert.NoError(t, err)
		assert.Len(t, created, 4)
		assert.Equal(t, domain.Milestone25, created[0].Milestone)
		assert.Equal(t, domain.MilestoneAchieved, created[1].Milestone, "a target of 40 sits between the 25 and 50 rungs")
		assert.Equal(t, domain.Milestone50, created[2].Milestone)
		assert.Equal(t, domain.Milestone75, created[3].Milestone)
	})

	t.Run("No Crossing No Notifications", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		created, err := svc.CheckMilestones(ctx, g, 30, 40)

		assert.NoError(t, err)
		assert.Empty(t, created)
		notifRepo.AssertNotCalled(t, "CreateUnique", mock.Anything, mock.Anything)
	})

	t.Run("Regression Never Fires", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		created, err := svc.CheckMilestones(ctx, g, 60, 40)

		assert.NoError(t, err)
		assert.Empty(t, created)
		notifRepo.AssertNotCalled(t, "CreateUnique", mock.Anything, mock.Anything)
	})

	t.Run("Existing Row Is Not Redelivered", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)

		notifRepo.On("CreateUnique", ctx, mock.AnythingOfType("*domain.Notification")).Return(false, nil).Once()

		created, err := svc.CheckMilestones(ctx, g, 20, 30)

		assert.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("Insert Failure Continues To Later Thresholds", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()
		g := makeGoal(80)
		dbErr := errors.New("connection reset")

		notifRepo.On("CreateUnique", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Milestone == domain.Milestone25
		})).Return(false, dbErr).Once()
		notifRepo.On("CreateUnique", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Milestone == domain.Milestone50
		})).Return(true, nil).Once()

		created, err := svc.CheckMilestones(ctx, g, 10, 55)

		assert.ErrorIs(t, err, dbErr)
		assert.Len(t, created, 1)
		assert.Equal(t, domain.Milestone50, created[0].Milestone)
	})
}

func TestMilestoneService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notifID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()

		notifRepo.On("GetByID", ctx, notifID).Return(&domain.Notification{ID: notifID, UserID: userID}, nil).Once()
		notifRepo.On("MarkAsRead", ctx, notifID).Return(nil).Once()

		err := svc.MarkAsRead(ctx, userID, notifID)

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})

	t.Run("Foreign Notification", func(t *testing.T) {
		svc, notifRepo := newMilestoneService()

		notifRepo.On("GetByID", ctx, notifID).Return(&domain.Notification{ID: notifID, UserID: uuid.New()}, nil).Once()

		err := svc.MarkAsRead(ctx, userID, notifID)

		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
		notifRepo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})
}
