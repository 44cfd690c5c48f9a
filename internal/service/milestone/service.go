package milestone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"greenbasket/internal/domain"
	"greenbasket/internal/repository"
	"greenbasket/internal/service/email"
)

// threshold is one notifiable rung on a goal's progress ladder.
type threshold struct {
	value     float64
	milestone domain.MilestoneType
}

type Service interface {
	// CheckMilestones fires one notification per threshold newly
	// crossed between the previous and new percentage. Re-invoking with
	// the same pair creates nothing: uniqueness is enforced per
	// (user, goal, milestone) by the repository.
	CheckMilestones(ctx context.Context, goal *domain.SustainabilityGoal, previousPct, newPct float64) ([]domain.Notification, error)

	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

// thresholds returns the ladder for a goal: 25, 50, 75 and the target
// itself, sorted ascending so a target below a fixed rung fires in
// value order. A target equal to a fixed rung fires both entries.
func thresholds(goal *domain.SustainabilityGoal) []threshold {
	ladder := []threshold{
		{25, domain.Milestone25},
		{50, domain.Milestone50},
		{75, domain.Milestone75},
		{goal.TargetPercentage, domain.MilestoneAchieved},
	}
	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].value < ladder[j].value
	})
	return ladder
}

func (s *service) CheckMilestones(ctx context.Context, goal *domain.SustainabilityGoal, previousPct, newPct float64) ([]domain.Notification, error) {
	var created []domain.Notification
	var firstErr error

	for _, t := range thresholds(goal) {
		if !(previousPct < t.value && t.value <= newPct) {
			continue
		}

		notif := buildNotification(goal, t, newPct)
		inserted, err := s.notifRepo.CreateUnique(ctx, &notif)
		if err != nil {
			log.Printf("Failed to create milestone notification %s for goal %s: %v", t.milestone, goal.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !inserted {
			continue
		}

		created = append(created, notif)
		s.deliver(notif)
	}

	return created, firstErr
}

func buildNotification(goal *domain.SustainabilityGoal, t threshold, newPct float64) domain.Notification {
	var title, message string
	switch t.milestone {
	case domain.Milestone25:
		title = "Great start!"
		message = fmt.Sprintf("You've reached 25%% of your goal \"%s\". Keep it up!", goal.Name)
	case domain.Milestone50:
		title = "Halfway there!"
		message = fmt.Sprintf("You're at 50%% of your goal \"%s\".", goal.Name)
	case domain.Milestone75:
		title = "Almost there!"
		message = fmt.Sprintf("75%% of your goal \"%s\" is done.", goal.Name)
	case domain.MilestoneAchieved:
		title = "Goal achieved!"
		message = fmt.Sprintf("You've reached your target of %.0f%% for \"%s\". Congratulations!", goal.TargetPercentage, goal.Name)
	}

	data, _ := json.Marshal(map[string]string{
		"goal_id":   goal.ID.String(),
		"goal_type": string(goal.GoalType),
	})

	return domain.Notification{
		ID:         uuid.New(),
		UserID:     goal.UserID,
		GoalID:     goal.ID,
		Milestone:  t.milestone,
		Title:      title,
		Message:    message,
		Percentage: newPct,
		Data:       data,
	}
}

// deliver hands the persisted notification to the email transport.
// Delivery is best effort; the stored row is the source of truth.
func (s *service) deliver(notif domain.Notification) {
	if s.emailSvc == nil {
		return
	}

	go func(notif domain.Notification) {
		ctx := context.Background()
		user, err := s.userRepo.GetByID(ctx, notif.UserID)
		if err != nil || user == nil || user.Email == "" {
			return
		}
		if err := s.emailSvc.SendMilestoneEmail(ctx, user.Email, user.FullName, notif.Title, notif.Message); err != nil {
			log.Printf("Failed to deliver milestone email for notification %s: %v", notif.ID, err)
		}
	}(notif)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil || notif.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}
