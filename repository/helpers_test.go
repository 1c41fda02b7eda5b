package repository

import (
	"path/filepath"
	"testing"

	"github.com/Govind-619/MakeOffer/config"
	"github.com/Govind-619/MakeOffer/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, makeOffer bool) models.Product {
	t.Helper()
	product := models.Product{
		Name:             name,
		RegularPrice:     decimal.RequireFromString(price),
		IsActive:         true,
		MakeOfferEnabled: makeOffer,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}
