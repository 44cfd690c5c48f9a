package domain

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseItem carries the product attributes as they were at purchase
// time, so later catalog edits never rewrite goal history.
type PurchaseItem struct {
	ProductID           uuid.UUID           `json:"product_id" db:"product_id"`
	ProductName         string              `json:"product_name" db:"product_name"`
	Category            string              `json:"category" db:"category"`
	Quantity            int                 `json:"quantity" db:"quantity"`
	UnitPrice           float64             `json:"unit_price" db:"unit_price"`
	SustainabilityGrade SustainabilityGrade `json:"sustainability_grade" db:"sustainability_grade"`
	SustainabilityScore float64             `json:"sustainability_score" db:"sustainability_score"`
}

type Purchase struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Items       []PurchaseItem `json:"items"`
	Total       float64        `json:"total"`
	PurchasedAt time.Time      `json:"purchased_at"`
}

type CreatePurchaseInput struct {
	Items []CreatePurchaseItemInput `json:"items"`
}

type CreatePurchaseItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
