package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. RegularPrice doubles as the floor price for
// products with make offer enabled and is hidden from shoppers for them.
type Product struct {
	gorm.Model
	Name             string          `json:"name" gorm:"not null"`
	Description      string          `json:"description"`
	SKU              string          `json:"sku" gorm:"index"`
	RegularPrice     decimal.Decimal `json:"regular_price" gorm:"type:decimal(12,2);not null"`
	ImageURL         string          `json:"image_url"`
	IsActive         bool            `json:"is_active"`
	MakeOfferEnabled bool            `json:"make_offer_enabled" gorm:"default:false"`
}
