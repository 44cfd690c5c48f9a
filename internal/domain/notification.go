package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MilestoneType string

const (
	Milestone25       MilestoneType = "25"
	Milestone50       MilestoneType = "50"
	Milestone75       MilestoneType = "75"
	MilestoneAchieved MilestoneType = "achieved"
)

// Notification records a crossed goal milestone. At most one row may
// exist per (user_id, goal_id, milestone_type); the repository enforces
// this with a unique index rather than a check-then-insert.
type Notification struct {
	ID         uuid.UUID       `json:"id" db:"notification_id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	GoalID     uuid.UUID       `json:"goal_id" db:"goal_id"`
	Milestone  MilestoneType   `json:"milestone" db:"milestone_type"`
	Title      string          `json:"title" db:"title"`
	Message    string          `json:"message" db:"message"`
	Percentage float64         `json:"percentage" db:"percentage"`
	Data       json.RawMessage `json:"data,omitempty" db:"data"`
	IsRead     bool            `json:"is_read" db:"is_read"`
	ReadAt     *time.Time      `json:"read_at,omitempty" db:"read_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
