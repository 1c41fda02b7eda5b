package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken is an admin JWT revoked by logout
type BlacklistedToken struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
