package models

import "time"

// OfferSettingsID is the primary key of the single settings row
const OfferSettingsID = 1

// OfferSettings holds the process wide make offer configuration
type OfferSettings struct {
	ID                      uint      `json:"-" gorm:"primaryKey"`
	EmailNotifications      bool      `json:"email_notifications"`
	FirstCounterPercentage  int       `json:"first_counter_percentage" gorm:"default:25"`
	SecondCounterPercentage int       `json:"second_counter_percentage" gorm:"default:15"`
	UpdatedAt               time.Time `json:"updated_at"`
}
