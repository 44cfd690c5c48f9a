package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"greenbasket/internal/domain"
)

// PreferenceRepository mutates the per-user preference document through
// command-style atomic statements (server-side increments and bounded
// trims) instead of read-whole/write-whole, so concurrent requests for
// the same user cannot lose updates.
type PreferenceRepository interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error)
	UpdateSurvey(ctx context.Context, userID uuid.UUID, survey domain.SurveyPreferences) error
	IncrementCategoryWeight(ctx context.Context, userID uuid.UUID, category string, delta float64) error
	AddEngagement(ctx context.Context, userID uuid.UUID, delta float64) error
	AddSearchEntry(ctx context.Context, userID uuid.UUID, entry domain.SearchEntry) error
	RecordProductInteraction(ctx context.Context, userID, productID uuid.UUID, interactionType domain.InteractionType, at time.Time) error
	SetDashboardCategories(ctx context.Context, userID uuid.UUID, categories []string) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) EnsureProfile(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO user_preferences (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

type preferenceRow struct {
	UserID              uuid.UUID      `db:"user_id"`
	SurveyCompleted     bool           `db:"survey_completed"`
	SurveyCategories    pq.StringArray `db:"survey_categories"`
	PriceRange          string         `db:"price_range"`
	EcoPreference       string         `db:"eco_preference"`
	Interests           pq.StringArray `db:"interests"`
	EngagementScore     float64        `db:"engagement_score"`
	DashboardCategories pq.StringArray `db:"dashboard_categories"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r *preferenceRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.PreferenceProfile, error) {
	var row preferenceRow
	query := `SELECT * FROM user_preferences WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	profile := &domain.PreferenceProfile{
		UserID: row.UserID,
		Survey: domain.SurveyPreferences{
			Completed:     row.SurveyCompleted,
			Categories:    row.SurveyCategories,
			PriceRange:    domain.PriceBand(row.PriceRange),
			EcoPreference: domain.EcoPreference(row.EcoPreference),
			Interests:     row.Interests,
		},
		CategoryFrequency:   map[string]float64{},
		DashboardCategories: row.DashboardCategories,
		EngagementScore:     row.EngagementScore,
		UpdatedAt:           row.UpdatedAt,
		CategoryFirstSeen:   map[string]int{},
	}

	type weightRow struct {
		Category string  `db:"category"`
		Weight   float64 `db:"weight"`
	}
	var weights []weightRow
	weightsQuery := `
		SELECT category, weight FROM user_category_weights
		WHERE user_id = $1
		ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &weights, weightsQuery, userID); err != nil {
		return nil, err
	}
	for i, w := range weights {
		profile.CategoryFrequency[w.Category] = w.Weight
		profile.CategoryFirstSeen[w.Category] = i
	}

	searchQuery := `
		SELECT query, category, weight, searched_at FROM user_search_history
		WHERE user_id = $1
		ORDER BY searched_at DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &profile.SearchHistory, searchQuery, userID, domain.MaxSearchHistory); err != nil {
		return nil, err
	}

	type interactionRow struct {
		ProductID       uuid.UUID      `db:"product_id"`
		Count           int            `db:"interaction_count"`
		Types           pq.StringArray `db:"interaction_types"`
		FirstSeen       time.Time      `db:"first_seen"`
		LastInteraction time.Time      `db:"last_interaction"`
	}
	var interactions []interactionRow
	interactionsQuery := `
		SELECT product_id, interaction_count, interaction_types, first_seen, last_interaction
		FROM user_product_interactions
		WHERE user_id = $1
		ORDER BY last_interaction DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &interactions, interactionsQuery, userID, domain.MaxProductInteractions); err != nil {
		return nil, err
	}
	for _, row := range interactions {
		types := make([]domain.InteractionType, len(row.Types))
		for i, t := range row.Types {
			types[i] = domain.InteractionType(t)
		}
		profile.ProductInteractions = append(profile.ProductInteractions, domain.ProductInteraction{
			ProductID:       row.ProductID,
			Count:           row.Count,
			Types:           types,
			FirstSeen:       row.FirstSeen,
			LastInteraction: row.LastInteraction,
		})
	}

	return profile, nil
}

func (r *preferenceRepository) UpdateSurvey(ctx context.Context, userID uuid.UUID, survey domain.SurveyPreferences) error {
	query := `
		UPDATE user_preferences
		SET survey_completed = true,
		    survey_categories = $2,
		    price_range = $3,
		    eco_preference = $4,
		    interests = $5,
		    updated_at = NOW()
		WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID,
		pq.Array(survey.Categories), string(survey.PriceRange),
		string(survey.EcoPreference), pq.Array(survey.Interests))
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *preferenceRepository) IncrementCategoryWeight(ctx context.Context, userID uuid.UUID, category string, delta float64) error {
	query := `
		INSERT INTO user_category_weights (user_id, category, weight)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category)
		DO UPDATE SET weight = user_category_weights.weight + EXCLUDED.weight`

	_, err := r.db.ExecContext(ctx, query, userID, category, delta)
	return err
}

func (r *preferenceRepository) AddEngagement(ctx context.Context, userID uuid.UUID, delta float64) error {
	query := `
		UPDATE user_preferences
		SET engagement_score = LEAST($2, GREATEST(0, engagement_score + $3)),
		    updated_at = NOW()
		WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID, domain.MaxEngagementScore, delta)
	return err
}

func (r *preferenceRepository) AddSearchEntry(ctx context.Context, userID uuid.UUID, entry domain.SearchEntry) error {
	insert := `
		INSERT INTO user_search_history (user_id, query, category, weight, searched_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, insert, userID, entry.Query, entry.Category, entry.Weight, entry.Timestamp); err != nil {
		return err
	}

	trim := `
		DELETE FROM user_search_history
		WHERE user_id = $1 AND search_id NOT IN (
			SELECT search_id FROM user_search_history
			WHERE user_id = $1
			ORDER BY searched_at DESC
			LIMIT $2
		)`
	_, err := r.db.ExecContext(ctx, trim, userID, domain.MaxSearchHistory)
	return err
}

func (r *preferenceRepository) RecordProductInteraction(ctx context.Context, userID, productID uuid.UUID, interactionType domain.InteractionType, at time.Time) error {
	upsert := `
		INSERT INTO user_product_interactions
			(user_id, product_id, interaction_count, interaction_types, first_seen, last_interaction)
		VALUES ($1, $2, 1, ARRAY[$3::text], $4, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET
			interaction_count = user_product_interactions.interaction_count + 1,
			interaction_types = array_append(user_product_interactions.interaction_types, $3),
			last_interaction = $4`
	if _, err := r.db.ExecContext(ctx, upsert, userID, productID, string(interactionType), at); err != nil {
		return err
	}

	trim := `
		DELETE FROM user_product_interactions
		WHERE user_id = $1 AND product_id NOT IN (
			SELECT product_id FROM user_product_interactions
			WHERE user_id = $1
			ORDER BY last_interaction DESC
			LIMIT $2
		)`
	_, err := r.db.ExecContext(ctx, trim, userID, domain.MaxProductInteractions)
	return err
}

func (r *preferenceRepository) SetDashboardCategories(ctx context.Context, userID uuid.UUID, categories []string) error {
	query := `
		UPDATE user_preferences
		SET dashboard_categories = $2, updated_at = NOW()
		WHERE user_id = $1`

	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(categories))
	return err
}
