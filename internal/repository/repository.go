package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Product      ProductRepository
	Preference   PreferenceRepository
	Goal         GoalRepository
	Purchase     PurchaseRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Product:      NewProductRepository(db),
		Preference:   NewPreferenceRepository(db),
		Goal:         NewGoalRepository(db),
		Purchase:     NewPurchaseRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
