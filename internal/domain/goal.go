package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxActiveGoals caps concurrently active goals per user, enforced at
// creation.
const MaxActiveGoals = 5

type GoalType string

const (
	GoalGradeBased    GoalType = "grade-based"
	GoalScoreBased    GoalType = "score-based"
	GoalCategoryBased GoalType = "category-based"
)

// GoalConfig is the tagged variant for goal criteria. Exactly the
// fields for the goal's type are set; MeetsGoal dispatches exhaustively
// on GoalType.
type GoalConfig struct {
	// grade-based and category-based
	TargetGrades []SustainabilityGrade `json:"target_grades,omitempty"`
	// score-based
	MinimumScore *float64 `json:"minimum_score,omitempty"`
	// category-based
	Categories []string `json:"categories,omitempty"`
}

type GoalProgress struct {
	TotalPurchases    int       `json:"total_purchases" db:"total_purchases"`
	TotalItems        int       `json:"total_items" db:"total_items"`
	GoalMetItems      int       `json:"goal_met_items" db:"goal_met_items"`
	CurrentPercentage float64   `json:"current_percentage" db:"current_percentage"`
	LastUpdated       time.Time `json:"last_updated" db:"last_updated"`
}

// GoalProgressDelta is one purchase's contribution to a goal's
// counters, applied as an atomic increment in the database so
// concurrent purchases never overwrite each other.
type GoalProgressDelta struct {
	Purchases int
	Items     int
	MetItems  int
}

type SustainabilityGoal struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	Name             string       `json:"name"`
	GoalType         GoalType     `json:"goal_type"`
	Config           GoalConfig   `json:"config"`
	TargetPercentage float64      `json:"target_percentage"`
	Progress         GoalProgress `json:"progress"`
	IsActive         bool         `json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (g *SustainabilityGoal) IsAchieved() bool {
	return g.Progress.CurrentPercentage >= g.TargetPercentage
}

// MeetsGoal reports whether a purchased item satisfies the goal's
// criteria. Dispatch is exhaustive over GoalType; an unknown type never
// matches.
func (g *SustainabilityGoal) MeetsGoal(item PurchaseItem) bool {
	switch g.GoalType {
	case GoalGradeBased:
		return gradeIn(item.SustainabilityGrade, g.Config.TargetGrades)
	case GoalScoreBased:
		return g.Config.MinimumScore != nil && item.SustainabilityScore >= *g.Config.MinimumScore
	case GoalCategoryBased:
		return categoryIn(item.Category, g.Config.Categories) &&
			gradeIn(item.SustainabilityGrade, g.Config.TargetGrades)
	default:
		return false
	}
}

func gradeIn(grade SustainabilityGrade, grades []SustainabilityGrade) bool {
	for _, g := range grades {
		if g == grade {
			return true
		}
	}
	return false
}

func categoryIn(category string, categories []string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

type ProgressStatus string

const (
	StatusNotStarted       ProgressStatus = "not_started"
	StatusNeedsImprovement ProgressStatus = "needs_improvement"
	StatusGettingStarted   ProgressStatus = "getting_started"
	StatusOnTrack          ProgressStatus = "on_track"
	StatusAlmostThere      ProgressStatus = "almost_there"
	StatusAchieved         ProgressStatus = "achieved"
)

// StatusFor maps a completion percentage onto the progress ladder with
// rungs at 0%, 25%, 50%, 80% and 100% of the target.
func StatusFor(percentage, target float64) ProgressStatus {
	switch {
	case percentage <= 0:
		return StatusNotStarted
	case percentage >= target:
		return StatusAchieved
	case percentage >= target*0.8:
		return StatusAlmostThere
	case percentage >= target*0.5:
		return StatusOnTrack
	case percentage >= target*0.25:
		return StatusGettingStarted
	default:
		return StatusNeedsImprovement
	}
}

type StreakInfo struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// GoalStats is the full recompute output: aggregate counters plus
// breakdowns and streaks.
type GoalStats struct {
	GoalID            uuid.UUID          `json:"goal_id"`
	TotalPurchases    int                `json:"total_purchases"`
	TotalItems        int                `json:"total_items"`
	GoalMetItems      int                `json:"goal_met_items"`
	CurrentPercentage float64            `json:"current_percentage"`
	Status            ProgressStatus     `json:"status"`
	IsAchieved        bool               `json:"is_achieved"`
	Streak            StreakInfo         `json:"streak"`
	ByCategory        map[string]int     `json:"by_category"`
	ByGrade           map[string]int     `json:"by_grade"`
	ByScoreBucket     map[string]int     `json:"by_score_bucket"`
	ByMonth           map[string]int     `json:"by_month"`
}

type CreateGoalInput struct {
	Name             string                `json:"name"`
	GoalType         GoalType              `json:"goal_type"`
	TargetGrades     []SustainabilityGrade `json:"target_grades,omitempty"`
	MinimumScore     *float64              `json:"minimum_score,omitempty"`
	Categories       []string              `json:"categories,omitempty"`
	TargetPercentage float64               `json:"target_percentage"`
}

type UpdateGoalInput struct {
	Name             *string  `json:"name,omitempty"`
	TargetPercentage *float64 `json:"target_percentage,omitempty"`
	IsActive         *bool    `json:"is_active,omitempty"`
}
