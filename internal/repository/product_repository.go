package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"greenbasket/internal/domain"
)

// ProductRepository is the read-only catalog collaborator. The engine
// never writes products.
type ProductRepository interface {
	GetActiveProducts(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, limit int) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetActiveProducts(ctx context.Context, filter domain.ProductFilter, sort domain.ProductSort, limit int) ([]domain.Product, error) {
	conditions := []string{"is_active = true"}
	args := []any{}
	next := 1

	if len(filter.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", next))
		args = append(args, pq.Array(filter.Categories))
		next++
	}
	if len(filter.Grades) > 0 {
		grades := make([]string, len(filter.Grades))
		for i, g := range filter.Grades {
			grades[i] = string(g)
		}
		conditions = append(conditions, fmt.Sprintf("sustainability_grade = ANY($%d)", next))
		args = append(args, pq.Array(grades))
		next++
	}
	if filter.PriceBand != nil {
		switch *filter.PriceBand {
		case domain.PriceBandBudget:
			conditions = append(conditions, "price < 25")
		case domain.PriceBandMid:
			conditions = append(conditions, "price >= 25 AND price <= 100")
		case domain.PriceBandPremium:
			conditions = append(conditions, "price > 100")
		}
	}
	if filter.MinScore != nil {
		conditions = append(conditions, fmt.Sprintf("sustainability_score >= $%d", next))
		args = append(args, *filter.MinScore)
		next++
	}

	orderBy := "created_at DESC"
	if sort == domain.SortBySustainability {
		orderBy = "sustainability_score DESC, rating DESC"
	}

	query := fmt.Sprintf(`
		SELECT * FROM products
		WHERE %s
		ORDER BY %s
		LIMIT $%d`, strings.Join(conditions, " AND "), orderBy, next)
	args = append(args, limit)

	products := []domain.Product{}
	err := r.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	query := `SELECT * FROM products WHERE product_id = ANY($1) AND is_active = true`

	products := []domain.Product{}
	err := r.db.SelectContext(ctx, &products, query, pq.Array(ids))
	return products, err
}
