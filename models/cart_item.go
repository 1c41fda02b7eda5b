package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a line in a visitor's cart. OfferPrice, when set, overrides
// the product's regular price at totals time.
type CartItem struct {
	ID         string              `json:"id" gorm:"primaryKey;size:36"`
	VisitorKey string              `json:"-" gorm:"index;not null;size:64"`
	ProductID  uint                `json:"product_id" gorm:"not null"`
	Product    Product             `json:"product" gorm:"foreignKey:ProductID"`
	Quantity   int                 `json:"quantity" gorm:"default:1"`
	OfferPrice decimal.NullDecimal `json:"offer_price" gorm:"type:decimal(12,2)"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}
