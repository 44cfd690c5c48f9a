package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxSearchHistory caps the per-user search history list.
	MaxSearchHistory = 50
	// MaxProductInteractions caps the per-user product aggregate list.
	MaxProductInteractions = 100
	// MaxDashboardCategories is the number of top categories shown on
	// the user dashboard.
	MaxDashboardCategories = 3
	// MaxEngagementScore bounds the engagement scalar.
	MaxEngagementScore = 100.0
)

type EcoPreference string

const (
	EcoStrict       EcoPreference = "strict"        // only A/B grades
	EcoModerate     EcoPreference = "moderate"      // prefers A/B, accepts others
	EcoNoPreference EcoPreference = "no_preference"
)

// SurveyPreferences holds the baseline declared at onboarding. A zero
// value means the survey was never completed.
type SurveyPreferences struct {
	Completed     bool          `json:"completed"`
	Categories    []string      `json:"categories"`
	PriceRange    PriceBand     `json:"price_range"`
	EcoPreference EcoPreference `json:"eco_preference"`
	Interests     []string      `json:"interests"`
}

// SearchEntry is one remembered search, newest first in the profile list.
type SearchEntry struct {
	Query     string    `json:"query" db:"query"`
	Category  *string   `json:"category,omitempty" db:"category"`
	Weight    float64   `json:"weight" db:"weight"`
	Timestamp time.Time `json:"timestamp" db:"searched_at"`
}

// ProductInteraction aggregates every interaction a user had with one
// product.
type ProductInteraction struct {
	ProductID       uuid.UUID         `json:"product_id" db:"product_id"`
	Count           int               `json:"count" db:"interaction_count"`
	Types           []InteractionType `json:"types"`
	FirstSeen       time.Time         `json:"first_seen" db:"first_seen"`
	LastInteraction time.Time         `json:"last_interaction" db:"last_interaction"`
}

// PreferenceProfile is the per-user aggregate the tracker mutates and
// the scorer reads. Bounded lists never exceed their caps; the oldest
// entry is evicted first.
type PreferenceProfile struct {
	UserID              uuid.UUID            `json:"user_id"`
	Survey              SurveyPreferences    `json:"survey"`
	CategoryFrequency   map[string]float64   `json:"category_frequency"`
	SearchHistory       []SearchEntry        `json:"search_history"`
	ProductInteractions []ProductInteraction `json:"product_interactions"`
	EngagementScore     float64              `json:"engagement_score"`
	DashboardCategories []string             `json:"dashboard_categories"`
	UpdatedAt           time.Time            `json:"updated_at"`

	// CategoryFirstSeen ranks categories by when their first interaction
	// was recorded; used to break dashboard-category ties.
	CategoryFirstSeen map[string]int `json:"-"`
}

// HasSignificantHistory reports whether interaction-derived signals
// should take precedence over the survey baseline.
func (p *PreferenceProfile) HasSignificantHistory() bool {
	return len(p.ProductInteractions) > 5 || len(p.SearchHistory) > 3
}

// TopCategories returns the highest-weighted categories restricted to
// the known category enum, ties broken by first-seen order as recorded
// in firstSeen.
func (p *PreferenceProfile) TopCategories(limit int, firstSeen map[string]int) []string {
	type entry struct {
		category string
		weight   float64
		order    int
	}

	entries := make([]entry, 0, len(p.CategoryFrequency))
	for cat, w := range p.CategoryFrequency {
		if !IsKnownCategory(cat) {
			continue
		}
		order, ok := firstSeen[cat]
		if !ok {
			order = len(firstSeen) + len(entries)
		}
		entries = append(entries, entry{category: cat, weight: w, order: order})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].order < entries[j].order
	})

	if limit > len(entries) {
		limit = len(entries)
	}
	top := make([]string, 0, limit)
	for _, e := range entries[:limit] {
		top = append(top, e.category)
	}
	return top
}

type UpdateSurveyInput struct {
	Categories    []string      `json:"categories" validate:"required,min=1"`
	PriceRange    PriceBand     `json:"price_range" validate:"required,oneof=budget mid premium"`
	EcoPreference EcoPreference `json:"eco_preference" validate:"required,oneof=strict moderate no_preference"`
	Interests     []string      `json:"interests"`
}
