package sweep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"greenbasket/internal/cache"
	"greenbasket/internal/config"
	"greenbasket/internal/repository"
	"greenbasket/internal/service/email"
	"greenbasket/internal/service/goal"
	"greenbasket/internal/service/milestone"
)

const (
	batchSize       = 10
	interBatchDelay = 500 * time.Millisecond
	lockKey         = "sweep:weekly:lock"
	lockTTL         = time.Hour
)

// Result summarizes one sweep run.
type Result struct {
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	AlreadyRunning  bool          `json:"already_running"`
	UsersProcessed  int           `json:"users_processed"`
	UsersFailed     int           `json:"users_failed"`
	GoalsRecomputed int           `json:"goals_recomputed"`
	MilestonesFired int           `json:"milestones_fired"`
	Failures        []UserFailure `json:"failures,omitempty"`
	ReportObject    string        `json:"report_object,omitempty"`
}

type UserFailure struct {
	UserID uuid.UUID `json:"user_id"`
	Error  string    `json:"error"`
}

// Service runs the weekly goal-summary sweep. The engine holds no timer
// state; an external scheduler calls RunWeeklySweep, and a Redis lock
// makes re-runs in short succession no-ops.
type Service interface {
	RunWeeklySweep(ctx context.Context) (*Result, error)
}

type service struct {
	goalRepo     repository.GoalRepository
	userRepo     repository.UserRepository
	goalSvc      goal.Service
	milestoneSvc milestone.Service
	emailSvc     email.Service
	redis        *redis.Client
	minioClient  *minio.Client
	cache        *cache.Cache
	cfg          *config.Config
}

func NewService(
	goalRepo repository.GoalRepository,
	userRepo repository.UserRepository,
	goalSvc goal.Service,
	milestoneSvc milestone.Service,
	emailSvc email.Service,
	redisClient *redis.Client,
	minioClient *minio.Client,
	c *cache.Cache,
	cfg *config.Config,
) Service {
	return &service{
		goalRepo:     goalRepo,
		userRepo:     userRepo,
		goalSvc:      goalSvc,
		milestoneSvc: milestoneSvc,
		emailSvc:     emailSvc,
		redis:        redisClient,
		minioClient:  minioClient,
		cache:        c,
		cfg:          cfg,
	}
}

func (s *service) RunWeeklySweep(ctx context.Context) (*Result, error) {
	result := &Result{StartedAt: time.Now()}

	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, lockKey, result.StartedAt.Format(time.RFC3339), lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !acquired {
			result.AlreadyRunning = true
			return result, nil
		}
		defer s.redis.Del(context.Background(), lockKey)
	}

	userIDs, err := s.goalRepo.ListUserIDsWithActiveGoals(ctx)
	if err != nil {
		return nil, err
	}

	for start := 0; start < len(userIDs); start += batchSize {
		end := start + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}

		for _, userID := range userIDs[start:end] {
			if err := s.processUser(ctx, userID, result); err != nil {
				log.Printf("Sweep failed for user %s: %v", userID, err)
				result.UsersFailed++
				result.Failures = append(result.Failures, UserFailure{UserID: userID, Error: err.Error()})
				continue
			}
			result.UsersProcessed++
		}

		if end < len(userIDs) {
			time.Sleep(interBatchDelay)
		}
	}

	s.cache.Invalidate("getUserGoals", "getGoalStats")

	result.Duration = time.Since(result.StartedAt)
	s.archiveReport(ctx, result)
	return result, nil
}

// processUser recomputes every active goal for one user, reconfirming
// progress and firing any milestone the incremental path missed.
func (s *service) processUser(ctx context.Context, userID uuid.UUID, result *Result) error {
	goals, err := s.goalRepo.ListByUser(ctx, userID, true)
	if err != nil {
		return err
	}

	summary := email.WeeklySummary{ActiveGoals: len(goals)}

	for i := range goals {
		g := &goals[i]
		previous := g.Progress.CurrentPercentage

		progress, err := s.goalSvc.RecomputeProgress(ctx, g)
		if err != nil {
			return err
		}
		result.GoalsRecomputed++

		fired, err := s.milestoneSvc.CheckMilestones(ctx, g, previous, progress.CurrentPercentage)
		if err != nil {
			log.Printf("Milestone check failed for goal %s during sweep: %v", g.ID, err)
		}
		result.MilestonesFired += len(fired)

		if g.IsAchieved() {
			summary.AchievedGoals++
		}
		if progress.CurrentPercentage > summary.BestGoalPct {
			summary.BestGoalPct = progress.CurrentPercentage
			summary.BestGoalName = g.Name
		}
	}

	s.sendSummary(userID, summary)
	return nil
}

func (s *service) sendSummary(userID uuid.UUID, summary email.WeeklySummary) {
	if s.emailSvc == nil || summary.ActiveGoals == 0 {
		return
	}

	go func() {
		ctx := context.Background()
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user == nil || user.Email == "" {
			return
		}
		if err := s.emailSvc.SendWeeklySummaryEmail(ctx, user.Email, user.FullName, summary); err != nil {
			log.Printf("Failed to send weekly summary to user %s: %v", userID, err)
		}
	}()
}

// archiveReport uploads the run report to object storage. Archiving is
// best effort.
func (s *service) archiveReport(ctx context.Context, result *Result) {
	if s.minioClient == nil {
		return
	}

	object := fmt.Sprintf("sweeps/%s.json", result.StartedAt.Format("2006-01-02T15-04-05"))
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		log.Printf("Failed to archive sweep report: %v", err)
		return
	}
	result.ReportObject = object
}
