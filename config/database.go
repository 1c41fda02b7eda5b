package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects using the configured driver
func OpenDatabase(config *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch config.DBDriver {
	case "sqlite":
		if dir := filepath.Dir(config.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %v", err)
			}
		}
		dialector = sqlite.Open(config.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	default:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	utils.LogInfo("Connected to %s database", config.DBDriver)
	return db, nil
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.BlacklistedToken{},
		&models.Product{},
		&models.CartItem{},
		&models.OfferSettings{},
		&models.OfferAttempt{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}

// InitDB connects and migrates
func InitDB(config *Config) (*gorm.DB, error) {
	db, err := OpenDatabase(config)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// CreateSampleAdmin makes sure the admin from ADMIN_EMAIL / ADMIN_PASSWORD
// exists. It is a no-op when they are not set.
func CreateSampleAdmin(db *gorm.DB, config *Config) error {
	if config.AdminEmail == "" || config.AdminPassword == "" {
		utils.LogInfo("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping sample admin")
		return nil
	}

	hashedPassword, err := utils.HashPassword(config.AdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}

	admin := models.Admin{
		Email:     config.AdminEmail,
		Password:  hashedPassword,
		FirstName: config.AdminFirstName,
		LastName:  config.AdminLastName,
		IsActive:  true,
	}
	if err := db.Where(models.Admin{Email: admin.Email}).Attrs(admin).FirstOrCreate(&admin).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Successfully created/updated sample admin: %s", admin.Email)
	return nil
}
