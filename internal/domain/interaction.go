package domain

import (
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	InteractionSearch    InteractionType = "search"
	InteractionView      InteractionType = "view"
	InteractionClick     InteractionType = "click"
	InteractionAddToCart InteractionType = "add_to_cart"
	InteractionPurchase  InteractionType = "purchase"
)

// InteractionWeights maps each interaction type to its contribution
// toward category frequency and engagement.
var InteractionWeights = map[InteractionType]float64{
	InteractionSearch:    1.0,
	InteractionView:      2.0,
	InteractionClick:     3.0,
	InteractionAddToCart: 5.0,
	InteractionPurchase:  10.0,
}

func (t InteractionType) IsValid() bool {
	_, ok := InteractionWeights[t]
	return ok
}

func (t InteractionType) Weight() float64 {
	return InteractionWeights[t]
}

// InteractionEvent is immutable once created; the tracker only reads it.
type InteractionEvent struct {
	Type        InteractionType `json:"type"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Category    *string         `json:"category,omitempty"`
	SearchQuery *string         `json:"search_query,omitempty"`
	TimeSpent   int             `json:"time_spent"`
	Timestamp   time.Time       `json:"timestamp"`
}

type TrackInteractionInput struct {
	Type        InteractionType `json:"type" validate:"required"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Category    *string         `json:"category,omitempty"`
	SearchQuery *string         `json:"search_query,omitempty"`
	TimeSpent   int             `json:"time_spent"`
}
