package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/MakeOffer/config"
	"github.com/Govind-619/MakeOffer/controllers"
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/Govind-619/MakeOffer/routes"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const attemptPurgeInterval = time.Hour

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.LogError("Failed to initialize database: %v", err)
		log.Fatal("Failed to initialize database:", err)
	}

	// Create sample admin
	if err := config.CreateSampleAdmin(db, cfg); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	settings := repository.NewSettingsRepository(db)
	if _, err := settings.Load(ctx); err != nil {
		utils.LogError("Failed to seed offer settings: %v", err)
		log.Fatal("Failed to seed offer settings:", err)
	}

	store, closeStore, err := newAttemptStore(ctx, cfg, db)
	if err != nil {
		utils.LogError("Failed to initialize attempt store: %v", err)
		log.Fatal("Failed to initialize attempt store:", err)
	}
	defer closeStore()

	products := repository.NewProductRepository(db)
	cart := repository.NewCartRepository(db)

	var notifier negotiation.Notifier
	if cfg.MailerConfigured() {
		notifier = &utils.OfferMailer{
			Sender:         utils.NewMailSender(cfg.SMTP),
			From:           cfg.SMTP.From,
			To:             cfg.AdminNotifyEmail,
			ProductURL:     cfg.ProductURL,
			CurrencySymbol: cfg.CurrencySymbol,
			Enabled:        settings.EmailNotificationsEnabled,
			ProductName:    products.Name,
		}
		utils.LogInfo("Offer notifications go to %s", cfg.AdminNotifyEmail)
	} else {
		utils.LogInfo("SMTP_HOST or ADMIN_NOTIFY_EMAIL not set, offer notifications disabled")
	}

	session := negotiation.NewSession(store, products, cart, notifier, negotiation.Options{
		TrustClientCounter: cfg.TrustClientCounter,
	})

	offerLimiter := utils.NewRateLimiter(cfg.OfferRateLimit, cfg.OfferRateWindow)
	defer offerLimiter.Stop()

	// Set up router
	router := routes.SetupRouter(routes.Controllers{
		Offers: controllers.NewOfferController(session, settings, controllers.OfferOptions{
			CartURL:             cfg.CartURL,
			CurrencySymbol:      cfg.CurrencySymbol,
			NonceSecret:         cfg.JWTSecret,
			LenientCartFailures: cfg.LenientCartFailures,
		}),
		Products:  controllers.NewProductController(products),
		Cart:      controllers.NewCartController(cart),
		AdminAuth: controllers.NewAdminAuthController(db, cfg.JWTSecret),
		Settings:  controllers.NewOfferSettingsController(settings),
	}, routes.Options{
		DB:            db,
		JWTSecret:     cfg.JWTSecret,
		SessionSecret: cfg.SessionSecret,
		CookieSecure:  cfg.CookieSecure,
		AllowedOrigin: cfg.AllowedOrigin,
		OfferLimiter:  offerLimiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		utils.LogInfo("%s server starting on port %s (attempt store: %s)", utils.AppName, cfg.Port, cfg.AttemptStore)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		utils.LogError("Error starting server: %v", err)
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		utils.LogInfo("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Error during server shutdown: %v", err)
	}
	utils.LogInfo("Server exited")
}

// newAttemptStore builds the configured attempt store and its cleanup func
func newAttemptStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (negotiation.Store, func(), error) {
	switch cfg.AttemptStore {
	case config.StoreMemory:
		store := repository.NewMemoryAttemptStore(cfg.AttemptTTL)
		return store, store.Stop, nil

	case config.StoreRedis:
		client, err := config.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		utils.LogInfo("Connected to redis at %s", cfg.RedisAddr)
		store := repository.NewRedisAttemptStore(client, cfg.RedisKeyPrefix, cfg.AttemptTTL)
		return store, func() { closeRedis(client) }, nil

	default:
		store := repository.NewDBAttemptStore(db, cfg.AttemptTTL)
		go purgeExpiredAttempts(ctx, store)
		return store, func() {}, nil
	}
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		utils.LogError("Failed to close redis client: %v", err)
	}
}

// purgeExpiredAttempts deletes expired attempt rows until ctx is done
func purgeExpiredAttempts(ctx context.Context, store *repository.DBAttemptStore) {
	ticker := time.NewTicker(attemptPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				utils.LogError("Failed to purge expired offer attempts: %v", err)
				continue
			}
			if n > 0 {
				utils.LogInfo("Purged %d expired offer attempts", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
