package controllers

import (
	"errors"

	"github.com/Govind-619/MakeOffer/middleware"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
)

// CartController serves the visitor's cart
type CartController struct {
	cart *repository.CartRepository
}

func NewCartController(cart *repository.CartRepository) *CartController {
	return &CartController{cart: cart}
}

// GetCart retrieves the visitor's cart with negotiated prices applied
func (cc *CartController) GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")

	summary, err := cc.cart.Totals(c.Request.Context(), middleware.Visitor(c))
	if err != nil {
		utils.LogError("Failed to fetch cart: %v", err)
		utils.InternalServerError(c, "Failed to fetch cart items", nil)
		return
	}

	utils.LogInfo("Found %d items in cart, subtotal %s", len(summary.Lines), summary.Subtotal.StringFixed(2))
	utils.Success(c, "Cart retrieved successfully", summary)
}

// RemoveCartItem removes a line from the visitor's cart
func (cc *CartController) RemoveCartItem(c *gin.Context) {
	utils.LogInfo("RemoveCartItem called")

	itemID := c.Param("id")
	if err := cc.cart.Remove(c.Request.Context(), middleware.Visitor(c), itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			utils.NotFound(c, "Cart item not found")
			return
		}
		utils.LogError("Failed to remove cart item %s: %v", itemID, err)
		utils.InternalServerError(c, "Failed to remove cart item", nil)
		return
	}

	utils.LogInfo("Removed cart item %s", itemID)
	utils.Success(c, "Item removed from cart", gin.H{"id": itemID})
}
