package controllers

import (
	"errors"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductController serves the storefront catalog and admin product management
type ProductController struct {
	products *repository.ProductRepository
}

func NewProductController(products *repository.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// StorefrontProduct is a product as shoppers see it. Price is left out for
// make offer products so the floor price is never revealed.
type StorefrontProduct struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	SKU              string           `json:"sku"`
	ImageURL         string           `json:"image_url"`
	MakeOfferEnabled bool             `json:"make_offer_enabled"`
	Price            *decimal.Decimal `json:"price,omitempty"`
}

func storefrontProduct(p models.Product) StorefrontProduct {
	view := StorefrontProduct{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		SKU:              p.SKU,
		ImageURL:         p.ImageURL,
		MakeOfferEnabled: p.MakeOfferEnabled,
	}
	if !p.MakeOfferEnabled {
		price := p.RegularPrice
		view.Price = &price
	}
	return view
}

// ListProducts returns active products for the storefront
func (pc *ProductController) ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	pagination := utils.NewPagination(c)
	products, total, err := pc.products.Page(c.Request.Context(), true, pagination.Offset, pagination.Limit)
	if err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)

	views := make([]StorefrontProduct, 0, len(products))
	for _, p := range products {
		views = append(views, storefrontProduct(p))
	}
	utils.LogInfo("Retrieved %d products (page %d)", len(views), pagination.Page)
	utils.SuccessWithPagination(c, "Products retrieved successfully", views, pagination)
}

// GetProduct returns a single active product for the storefront
func (pc *ProductController) GetProduct(c *gin.Context) {
	utils.LogInfo("GetProduct called")

	product, err := pc.products.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, negotiation.ErrInvalidProduct) {
			utils.NotFound(c, utils.ErrInvalidProduct)
			return
		}
		utils.LogError("Failed to fetch product %s: %v", c.Param("id"), err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}
	if !product.IsActive {
		utils.NotFound(c, utils.ErrInvalidProduct)
		return
	}
	utils.Success(c, "Product retrieved successfully", storefrontProduct(*product))
}

// ProductRequest is the admin create/update payload
type ProductRequest struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	SKU              string           `json:"sku"`
	RegularPrice     utils.FlexString `json:"regular_price"`
	ImageURL         string           `json:"image_url"`
	IsActive         *bool            `json:"is_active"`
	MakeOfferEnabled *bool            `json:"make_offer_enabled"`
}

// apply copies the set fields of req onto product
func (req ProductRequest) apply(product *models.Product) error {
	if req.Name != "" {
		product.Name = utils.SanitizeString(req.Name)
	}
	if req.Description != "" {
		product.Description = utils.SanitizeString(req.Description)
	}
	if req.SKU != "" {
		product.SKU = utils.SanitizeString(req.SKU)
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}
	if req.RegularPrice != "" {
		price, err := req.RegularPrice.Decimal()
		if err != nil {
			return err
		}
		if price.IsNegative() {
			return errors.New("price cannot be negative")
		}
		product.RegularPrice = price.Round(negotiation.MoneyScale)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.MakeOfferEnabled != nil {
		product.MakeOfferEnabled = *req.MakeOfferEnabled
	}
	return nil
}

// AdminListProducts returns every product including prices and inactive ones
func (pc *ProductController) AdminListProducts(c *gin.Context) {
	utils.LogInfo("AdminListProducts called")

	pagination := utils.NewPagination(c)
	products, total, err := pc.products.Page(c.Request.Context(), false, pagination.Offset, pagination.Limit)
	if err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)
	utils.SuccessWithPagination(c, "Products retrieved successfully", products, pagination)
}

// AdminCreateProduct adds a product to the catalog
func (pc *ProductController) AdminCreateProduct(c *gin.Context) {
	utils.LogInfo("AdminCreateProduct called")

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}
	if req.Name == "" || req.RegularPrice == "" {
		utils.BadRequest(c, "Name and regular_price are required", nil)
		return
	}

	product := models.Product{IsActive: true}
	if err := req.apply(&product); err != nil {
		utils.LogError("Invalid product price %q: %v", req.RegularPrice, err)
		utils.ValidationError(c, utils.ErrInvalidPrice, err.Error())
		return
	}

	if err := pc.products.Create(c.Request.Context(), &product); err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}
	utils.LogInfo("Created product %d (%s), make offer enabled: %v", product.ID, product.Name, product.MakeOfferEnabled)
	utils.Created(c, utils.MsgCreateSuccess, product)
}

// AdminUpdateProduct changes a product, typically its price or make offer flag
func (pc *ProductController) AdminUpdateProduct(c *gin.Context) {
	utils.LogInfo("AdminUpdateProduct called")

	product, err := pc.products.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, negotiation.ErrInvalidProduct) {
			utils.NotFound(c, utils.ErrInvalidProduct)
			return
		}
		utils.LogError("Failed to fetch product %s: %v", c.Param("id"), err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}
	if err := req.apply(product); err != nil {
		utils.LogError("Invalid product price %q: %v", req.RegularPrice, err)
		utils.ValidationError(c, utils.ErrInvalidPrice, err.Error())
		return
	}

	if err := pc.products.Save(c.Request.Context(), product); err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}
	utils.LogInfo("Updated product %d, make offer enabled: %v", product.ID, product.MakeOfferEnabled)
	utils.Success(c, utils.MsgUpdateSuccess, product)
}
