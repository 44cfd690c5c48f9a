package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"greenbasket/internal/domain"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.Purchase) error
	// ListByUser returns the full history in chronological order, the
	// order streak tracking depends on.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountAll(ctx context.Context) (int64, error)
	CountItems(ctx context.Context) (int64, error)
	CountItemsByGrades(ctx context.Context, grades []domain.SustainabilityGrade) (int64, error)
	AverageSustainabilityScore(ctx context.Context) (float64, error)
}

type purchaseRepository struct {
	db *sqlx.DB
}

func NewPurchaseRepository(db *sqlx.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertPurchase := `
		INSERT INTO purchases (purchase_id, user_id, total, purchased_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertPurchase,
		purchase.ID, purchase.UserID, purchase.Total, purchase.PurchasedAt); err != nil {
		return err
	}

	insertItem := `
		INSERT INTO purchase_items
			(purchase_id, product_id, product_name, category, quantity, unit_price, sustainability_grade, sustainability_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, item := range purchase.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			purchase.ID, item.ProductID, item.ProductName, item.Category,
			item.Quantity, item.UnitPrice, string(item.SustainabilityGrade), item.SustainabilityScore); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type purchaseHeaderRow struct {
	ID          uuid.UUID `db:"purchase_id"`
	UserID      uuid.UUID `db:"user_id"`
	Total       float64   `db:"total"`
	PurchasedAt time.Time `db:"purchased_at"`
}

func (r *purchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	var headers []purchaseHeaderRow
	headerQuery := `
		SELECT * FROM purchases
		WHERE user_id = $1
		ORDER BY purchased_at ASC`
	if err := r.db.SelectContext(ctx, &headers, headerQuery, userID); err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []domain.Purchase{}, nil
	}

	ids := make([]uuid.UUID, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}

	type itemRow struct {
		PurchaseID uuid.UUID `db:"purchase_id"`
		domain.PurchaseItem
	}
	var items []itemRow
	itemQuery := `SELECT * FROM purchase_items WHERE purchase_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &items, itemQuery, pq.Array(ids)); err != nil {
		return nil, err
	}

	byPurchase := make(map[uuid.UUID][]domain.PurchaseItem, len(headers))
	for _, item := range items {
		byPurchase[item.PurchaseID] = append(byPurchase[item.PurchaseID], item.PurchaseItem)
	}

	purchases := make([]domain.Purchase, len(headers))
	for i, h := range headers {
		purchases[i] = domain.Purchase{
			ID:          h.ID,
			UserID:      h.UserID,
			Total:       h.Total,
			PurchasedAt: h.PurchasedAt,
			Items:       byPurchase[h.ID],
		}
	}
	return purchases, nil
}

func (r *purchaseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM purchases WHERE user_id = $1`, userID)
	return count, err
}

func (r *purchaseRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM purchases`)
	return count, err
}

func (r *purchaseRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COALESCE(SUM(quantity), 0) FROM purchase_items`)
	return count, err
}

func (r *purchaseRepository) CountItemsByGrades(ctx context.Context, grades []domain.SustainabilityGrade) (int64, error) {
	names := make([]string, len(grades))
	for i, g := range grades {
		names[i] = string(g)
	}

	var count int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM purchase_items WHERE sustainability_grade = ANY($1)`
	err := r.db.GetContext(ctx, &count, query, pq.Array(names))
	return count, err
}

func (r *purchaseRepository) AverageSustainabilityScore(ctx context.Context) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(sustainability_score), 0) FROM purchase_items`
	err := r.db.GetContext(ctx, &avg, query)
	return avg, err
}
