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

type GoalRepository interface {
	Create(ctx context.Context, goal *domain.SustainabilityGoal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SustainabilityGoal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, goal *domain.SustainabilityGoal) error
	UpdateProgress(ctx context.Context, goalID uuid.UUID, progress domain.GoalProgress) error
	ApplyDelta(ctx context.Context, goalID uuid.UUID, delta domain.GoalProgressDelta) (float64, domain.GoalProgress, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListUserIDsWithActiveGoals(ctx context.Context) ([]uuid.UUID, error)
	CountAllActive(ctx context.Context) (int64, error)
	CountAchieved(ctx context.Context) (int64, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

type goalRow struct {
	ID                uuid.UUID       `db:"goal_id"`
	UserID            uuid.UUID       `db:"user_id"`
	Name              string          `db:"name"`
	GoalType          string          `db:"goal_type"`
	TargetGrades      pq.StringArray  `db:"target_grades"`
	MinimumScore      sql.NullFloat64 `db:"minimum_score"`
	Categories        pq.StringArray  `db:"categories"`
	TargetPercentage  float64         `db:"target_percentage"`
	TotalPurchases    int             `db:"total_purchases"`
	TotalItems        int             `db:"total_items"`
	GoalMetItems      int             `db:"goal_met_items"`
	CurrentPercentage float64         `db:"current_percentage"`
	LastUpdated       time.Time       `db:"last_updated"`
	IsActive          bool            `db:"is_active"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (row *goalRow) toDomain() domain.SustainabilityGoal {
	grades := make([]domain.SustainabilityGrade, len(row.TargetGrades))
	for i, g := range row.TargetGrades {
		grades[i] = domain.SustainabilityGrade(g)
	}

	goal := domain.SustainabilityGoal{
		ID:               row.ID,
		UserID:           row.UserID,
		Name:             row.Name,
		GoalType:         domain.GoalType(row.GoalType),
		TargetPercentage: row.TargetPercentage,
		Config: domain.GoalConfig{
			TargetGrades: grades,
			Categories:   row.Categories,
		},
		Progress: domain.GoalProgress{
			TotalPurchases:    row.TotalPurchases,
			TotalItems:        row.TotalItems,
			GoalMetItems:      row.GoalMetItems,
			CurrentPercentage: row.CurrentPercentage,
			LastUpdated:       row.LastUpdated,
		},
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.MinimumScore.Valid {
		score := row.MinimumScore.Float64
		goal.Config.MinimumScore = &score
	}
	return goal
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.SustainabilityGoal) error {
	grades := make([]string, len(goal.Config.TargetGrades))
	for i, g := range goal.Config.TargetGrades {
		grades[i] = string(g)
	}

	query := `
		INSERT INTO sustainability_goals
			(goal_id, user_id, name, goal_type, target_grades, minimum_score, categories, target_percentage, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at, last_updated`

	return r.db.QueryRowxContext(ctx, query,
		goal.ID, goal.UserID, goal.Name, string(goal.GoalType),
		pq.Array(grades), goal.Config.MinimumScore, pq.Array(goal.Config.Categories),
		goal.TargetPercentage, goal.IsActive,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt, &goal.Progress.LastUpdated)
}

func (r *goalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SustainabilityGoal, error) {
	var row goalRow
	query := `SELECT * FROM sustainability_goals WHERE goal_id = $1`
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal := row.toDomain()
	return &goal, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]domain.SustainabilityGoal, error) {
	query := `SELECT * FROM sustainability_goals WHERE user_id = $1 ORDER BY created_at ASC`
	if activeOnly {
		query = `SELECT * FROM sustainability_goals WHERE user_id = $1 AND is_active = true ORDER BY created_at ASC`
	}

	var rows []goalRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	goals := make([]domain.SustainabilityGoal, len(rows))
	for i := range rows {
		goals[i] = rows[i].toDomain()
	}
	return goals, nil
}

func (r *goalRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sustainability_goals WHERE user_id = $1 AND is_active = true`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.SustainabilityGoal) error {
	query := `
		UPDATE sustainability_goals
		SET name = $2, target_percentage = $3, is_active = $4, updated_at = NOW()
		WHERE goal_id = $1`

	res, err := r.db.ExecContext(ctx, query, goal.ID, goal.Name, goal.TargetPercentage, goal.IsActive)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) UpdateProgress(ctx context.Context, goalID uuid.UUID, progress domain.GoalProgress) error {
	query := `
		UPDATE sustainability_goals
		SET total_purchases = $2,
		    total_items = $3,
		    goal_met_items = $4,
		    current_percentage = $5,
		    last_updated = NOW(),
		    updated_at = NOW()
		WHERE goal_id = $1`

	_, err := r.db.ExecContext(ctx, query, goalID,
		progress.TotalPurchases, progress.TotalItems, progress.GoalMetItems, progress.CurrentPercentage)
	return err
}

// ApplyDelta increments the goal's counters and re-derives
// current_percentage inside one statement, so concurrent purchases for
// the same user cannot lose each other's contribution. The percentage
// the row held before the update is returned alongside the new
// progress; the FOR UPDATE in the CTE orders concurrent folds, giving
// each one a consistent previous/new pair for milestone checks.
func (r *goalRepository) ApplyDelta(ctx context.Context, goalID uuid.UUID, delta domain.GoalProgressDelta) (float64, domain.GoalProgress, error) {
	query := `
		WITH prev AS (
			SELECT current_percentage FROM sustainability_goals
			WHERE goal_id = $1
			FOR UPDATE
		)
		UPDATE sustainability_goals g
		SET total_purchases = g.total_purchases + $2,
		    total_items = g.total_items + $3,
		    goal_met_items = g.goal_met_items + $4,
		    current_percentage = CASE
		        WHEN g.total_items + $3 > 0
		        THEN (g.goal_met_items + $4) * 100.0 / (g.total_items + $3)
		        ELSE 0
		    END,
		    last_updated = NOW(),
		    updated_at = NOW()
		FROM prev
		WHERE g.goal_id = $1
		RETURNING prev.current_percentage,
		          g.total_purchases, g.total_items, g.goal_met_items,
		          g.current_percentage, g.last_updated`

	var previous float64
	var progress domain.GoalProgress
	err := r.db.QueryRowxContext(ctx, query, goalID, delta.Purchases, delta.Items, delta.MetItems).Scan(
		&previous,
		&progress.TotalPurchases, &progress.TotalItems, &progress.GoalMetItems,
		&progress.CurrentPercentage, &progress.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.GoalProgress{}, domain.ErrGoalNotFound
	}
	if err != nil {
		return 0, domain.GoalProgress{}, err
	}
	return previous, progress, nil
}

func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sustainability_goals WHERE goal_id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *goalRepository) ListUserIDsWithActiveGoals(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT DISTINCT user_id FROM sustainability_goals
		WHERE is_active = true
		ORDER BY user_id ASC`
	err := r.db.SelectContext(ctx, &ids, query)
	return ids, err
}

func (r *goalRepository) CountAllActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sustainability_goals WHERE is_active = true`)
	return count, err
}

func (r *goalRepository) CountAchieved(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM sustainability_goals WHERE current_percentage >= target_percentage AND total_items > 0`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}
