package domain

import (
	"time"

	"github.com/google/uuid"
)

type SustainabilityGrade string

const (
	GradeA SustainabilityGrade = "A"
	GradeB SustainabilityGrade = "B"
	GradeC SustainabilityGrade = "C"
	GradeD SustainabilityGrade = "D"
	GradeE SustainabilityGrade = "E"
	GradeF SustainabilityGrade = "F"
)

func (g SustainabilityGrade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE, GradeF:
		return true
	default:
		return false
	}
}

// Product is a read-only view from the catalog; the engine never writes it.
type Product struct {
	ID                   uuid.UUID           `json:"id" db:"product_id"`
	Name                 string              `json:"name" db:"name"`
	Description          string              `json:"description" db:"description"`
	Category             string              `json:"category" db:"category"`
	Price                float64             `json:"price" db:"price"`
	SustainabilityGrade  SustainabilityGrade `json:"sustainability_grade" db:"sustainability_grade"`
	SustainabilityScore  float64             `json:"sustainability_score" db:"sustainability_score"`
	Rating               float64             `json:"rating" db:"rating"`
	IsActive             bool                `json:"is_active" db:"is_active"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
}

type PriceBand string

const (
	PriceBandBudget  PriceBand = "budget"
	PriceBandMid     PriceBand = "mid"
	PriceBandPremium PriceBand = "premium"
)

// PriceBandFor buckets a price: <25 budget, 25-100 mid, >100 premium.
func PriceBandFor(price float64) PriceBand {
	switch {
	case price < 25:
		return PriceBandBudget
	case price <= 100:
		return PriceBandMid
	default:
		return PriceBandPremium
	}
}

// ProductFilter narrows a catalog query. Nil/empty fields are ignored.
type ProductFilter struct {
	Categories []string
	Grades     []SustainabilityGrade
	PriceBand  *PriceBand
	MinScore   *float64
}

type ProductSort string

const (
	SortBySustainability ProductSort = "sustainability" // score desc, rating desc
	SortByNewest         ProductSort = "newest"
)

// ProductCategories is the fixed category enum used for dashboard
// category derivation.
var ProductCategories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Beauty",
	"Food & Drink",
	"Sports",
	"Toys",
	"Books",
}

func IsKnownCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}
