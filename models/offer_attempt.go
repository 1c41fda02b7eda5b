package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferAttempt is the database backed negotiation state of one visitor for one product
type OfferAttempt struct {
	ID          uint                `gorm:"primaryKey"`
	VisitorKey  string              `gorm:"size:64;not null;uniqueIndex:ux_offer_attempt_visitor_key,priority:1"`
	AttemptKey  string              `gorm:"size:128;not null;uniqueIndex:ux_offer_attempt_visitor_key,priority:2"`
	Attempts    int                 `gorm:"not null;default:0"`
	LastCounter decimal.NullDecimal `gorm:"type:decimal(14,4)"`
	ExpiresAt   time.Time           `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
