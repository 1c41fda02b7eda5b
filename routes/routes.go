package routes

import (
	"net/http"

	"github.com/Govind-619/MakeOffer/controllers"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	Offers    *controllers.OfferController
	Products  *controllers.ProductController
	Cart      *controllers.CartController
	AdminAuth *controllers.AdminAuthController
	Settings  *controllers.OfferSettingsController
}

// Options configures the router
type Options struct {
	DB            *gorm.DB
	JWTSecret     string
	SessionSecret string
	CookieSecure  bool
	AllowedOrigin string
	// OfferLimiter throttles the offer mutations, nil disables throttling
	OfferLimiter *utils.RateLimiter
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(ctrl Controllers, opts Options) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(opts.AllowedOrigin))
	router.Use(utils.SecurityHeadersMiddleware())

	// Session cookie holding the visitor key
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   int(utils.VisitorSessionMaxAge.Seconds()),
		Path:     "/",
		Secure:   opts.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(utils.SessionName, store))

	router.GET("/healthz", func(c *gin.Context) {
		if err := utils.CheckSessionStore(c); err != nil {
			utils.LogError("Health check failed: %v", err)
			utils.Error(c, http.StatusServiceUnavailable, "Session store unavailable", nil)
			return
		}
		if opts.DB != nil {
			sqlDB, err := opts.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				utils.LogError("Health check failed: %v", err)
				utils.Error(c, http.StatusServiceUnavailable, "Database unavailable", nil)
				return
			}
		}
		utils.Success(c, "ok", nil)
	})

	api := router.Group("/" + utils.APIVersion)
	{
		initShopRoutes(api, ctrl, opts)
		initAdminRoutes(api, ctrl, opts)
	}

	return router
}
