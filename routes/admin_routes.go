package routes

import (
	"github.com/Govind-619/MakeOffer/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup, ctrl Controllers, opts Options) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", ctrl.AdminAuth.AdminLogin)
		admin.POST("/logout", ctrl.AdminAuth.AdminLogout)

		// Protected admin routes
		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware(opts.DB, opts.JWTSecret))
		{
			protected.GET("/offer-settings", ctrl.Settings.GetOfferSettings)
			protected.PUT("/offer-settings", ctrl.Settings.UpdateOfferSettings)

			protected.GET("/products", ctrl.Products.AdminListProducts)
			protected.POST("/products", ctrl.Products.AdminCreateProduct)
			protected.PUT("/products/:id", ctrl.Products.AdminUpdateProduct)
		}
	}
}
