package routes

import (
	"github.com/Govind-619/MakeOffer/middleware"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
)

// initShopRoutes initializes the shopper facing routes
func initShopRoutes(router *gin.RouterGroup, ctrl Controllers, opts Options) {
	shop := router.Group("")
	shop.Use(middleware.VisitorMiddleware())
	{
		shop.GET("/products", ctrl.Products.ListProducts)
		shop.GET("/products/:id", ctrl.Products.GetProduct)

		shop.GET("/cart", ctrl.Cart.GetCart)
		shop.DELETE("/cart/:id", ctrl.Cart.RemoveCartItem)

		offers := shop.Group("/offers")
		{
			offers.GET("/nonce", ctrl.Offers.GetNonce)
			offers.GET("/:product_id/attempts", ctrl.Offers.GetOfferAttempts)

			// Mutations need the nonce
			protected := offers.Group("")
			if opts.OfferLimiter != nil {
				protected.Use(utils.RateLimitMiddleware(opts.OfferLimiter))
			}
			protected.Use(middleware.OfferNonceMiddleware(opts.JWTSecret))
			{
				protected.POST("", ctrl.Offers.SubmitOffer)
				protected.POST("/accept-counter", ctrl.Offers.AcceptCounter)
				protected.POST("/restart", ctrl.Offers.RestartOffer)
			}
		}
	}
}
