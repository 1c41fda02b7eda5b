package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCartItemNotFound is returned when a cart line does not belong to the visitor
var ErrCartItemNotFound = errors.New("cart item not found")

// CartLine is one priced line of a cart
type CartLine struct {
	ItemID     string          `json:"id"`
	ProductID  uint            `json:"product_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Negotiated bool            `json:"negotiated"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// CartSummary is a cart priced in a single totals pass
type CartSummary struct {
	Lines    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartRepository stores visitor carts
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// AddToCart puts the product in the visitor's cart at the given override
// price. An existing line for the same product gets its quantity bumped and
// its override replaced.
func (r *CartRepository) AddToCart(ctx context.Context, visitorKey, productID string, price decimal.Decimal) (string, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return "", err
	}

	var itemID string
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return fmt.Errorf("product %d: %w", id, err)
		}

		var existing models.CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("visitor_key = ? AND product_id = ?", visitorKey, id).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Quantity++
			existing.OfferPrice = decimal.NewNullDecimal(price)
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			itemID = existing.ID
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := models.CartItem{
				ID:         uuid.New().String(),
				VisitorKey: visitorKey,
				ProductID:  id,
				Quantity:   1,
				OfferPrice: decimal.NewNullDecimal(price),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemID = item.ID
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return "", err
	}
	return itemID, nil
}

// Items returns the visitor's cart lines with their products
func (r *CartRepository) Items(ctx context.Context, visitorKey string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("visitor_key = ?", visitorKey).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// Totals prices every line once: the negotiated override replaces the
// regular price, it is never applied on top of it.
func (r *CartRepository) Totals(ctx context.Context, visitorKey string) (CartSummary, error) {
	items, err := r.Items(ctx, visitorKey)
	if err != nil {
		return CartSummary{}, err
	}

	summary := CartSummary{Lines: make([]CartLine, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		unit := item.Product.RegularPrice
		negotiated := item.OfferPrice.Valid
		if negotiated {
			unit = item.OfferPrice.Decimal
		}
		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		summary.Lines = append(summary.Lines, CartLine{
			ItemID:     item.ID,
			ProductID:  item.ProductID,
			Name:       item.Product.Name,
			ImageURL:   item.Product.ImageURL,
			Quantity:   item.Quantity,
			UnitPrice:  unit,
			Negotiated: negotiated,
			LineTotal:  lineTotal,
		})
		summary.Subtotal = summary.Subtotal.Add(lineTotal)
	}
	return summary, nil
}

// Remove deletes a line from the visitor's cart
func (r *CartRepository) Remove(ctx context.Context, visitorKey, itemID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND visitor_key = ?", itemID, visitorKey).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
