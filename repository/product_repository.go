package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository reads and writes catalog products
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ParseProductID converts an opaque product id into a primary key
func ParseProductID(productID string) (uint, error) {
	id, err := strconv.ParseUint(productID, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: malformed product id %q", negotiation.ErrInvalidProduct, productID)
	}
	return uint(id), nil
}

// Find returns the product or ErrInvalidProduct when it does not exist
func (r *ProductRepository) Find(ctx context.Context, productID string) (*models.Product, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s not found", negotiation.ErrInvalidProduct, productID)
		}
		return nil, err
	}
	return &product, nil
}

// MinimumPrice returns the product's regular price, which is the floor for offers
func (r *ProductRepository) MinimumPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	product, err := r.Find(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.RegularPrice, nil
}

// IsNegotiable reports whether the product is active and has make offer enabled
func (r *ProductRepository) IsNegotiable(ctx context.Context, productID string) (bool, error) {
	product, err := r.Find(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.IsActive && product.MakeOfferEnabled, nil
}

// Name returns the product name, or the id when the product cannot be loaded
func (r *ProductRepository) Name(ctx context.Context, productID string) string {
	product, err := r.Find(ctx, productID)
	if err != nil {
		return productID
	}
	return product.Name
}

// Page returns one page of products ordered by id and the total count
func (r *ProductRepository) Page(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
