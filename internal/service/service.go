package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"greenbasket/internal/cache"
	"greenbasket/internal/config"
	"greenbasket/internal/repository"
	"greenbasket/internal/service/auth"
	"greenbasket/internal/service/email"
	"greenbasket/internal/service/goal"
	"greenbasket/internal/service/impact"
	"greenbasket/internal/service/milestone"
	"greenbasket/internal/service/purchase"
	"greenbasket/internal/service/recommend"
	"greenbasket/internal/service/sweep"
	"greenbasket/internal/service/tracker"
)

type Services struct {
	Auth      auth.Service
	Tracker   tracker.Service
	Recommend recommend.Service
	Goal      goal.Service
	Milestone milestone.Service
	Purchase  purchase.Service
	Impact    impact.Service
	Sweep     sweep.Service
	Email     email.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	engineCache := cache.New(cache.DefaultConfig())

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, cfg)
	trackerService := tracker.NewService(repos.Preference, repos.Product, engineCache)
	recommendService := recommend.NewService(repos.Preference, repos.Product, engineCache)
	goalService := goal.NewService(repos.Goal, repos.Purchase, engineCache)
	milestoneService := milestone.NewService(repos.Notification, repos.User, emailService)
	purchaseService := purchase.NewService(repos.Purchase, repos.Product, repos.Goal, goalService, milestoneService, trackerService, engineCache)
	impactService := impact.NewService(repos.Purchase, repos.Goal, redisClient)
	sweepService := sweep.NewService(repos.Goal, repos.User, goalService, milestoneService, emailService, redisClient, minioClient, engineCache, cfg)

	return &Services{
		Auth:      authService,
		Tracker:   trackerService,
		Recommend: recommendService,
		Goal:      goalService,
		Milestone: milestoneService,
		Purchase:  purchaseService,
		Impact:    impactService,
		Sweep:     sweepService,
		Email:     emailService,
	}
}
