package repository

import (
	"context"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/negotiation"
	"gorm.io/gorm"
)

// SettingsRepository loads and stores the single offer settings row
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// DefaultSettings returns the settings a fresh install starts with
func DefaultSettings() models.OfferSettings {
	return models.OfferSettings{
		ID:                      models.OfferSettingsID,
		EmailNotifications:      true,
		FirstCounterPercentage:  negotiation.DefaultFirstCounterPercent,
		SecondCounterPercentage: negotiation.DefaultSecondCounterPercent,
	}
}

// Load returns the settings row, creating it with defaults on first use
func (r *SettingsRepository) Load(ctx context.Context) (models.OfferSettings, error) {
	settings := DefaultSettings()
	if err := r.db.WithContext(ctx).
		Where(models.OfferSettings{ID: models.OfferSettingsID}).
		Attrs(settings).
		FirstOrCreate(&settings).Error; err != nil {
		return models.OfferSettings{}, err
	}
	return settings, nil
}

// Save writes the settings row
func (r *SettingsRepository) Save(ctx context.Context, settings *models.OfferSettings) error {
	settings.ID = models.OfferSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}

// Policy loads the settings and returns the counter offer curve
func (r *SettingsRepository) Policy(ctx context.Context) (negotiation.PolicyConfig, error) {
	settings, err := r.Load(ctx)
	if err != nil {
		return negotiation.PolicyConfig{}, err
	}
	return PolicyFromSettings(settings), nil
}

// EmailNotificationsEnabled reports whether offer emails should go out
func (r *SettingsRepository) EmailNotificationsEnabled(ctx context.Context) bool {
	settings, err := r.Load(ctx)
	if err != nil {
		return false
	}
	return settings.EmailNotifications
}

// PolicyFromSettings converts a settings row into a policy config. Values
// outside 1-100 fall back to the defaults.
func PolicyFromSettings(settings models.OfferSettings) negotiation.PolicyConfig {
	cfg := negotiation.PolicyConfig{
		FirstCounterPercent:  settings.FirstCounterPercentage,
		SecondCounterPercent: settings.SecondCounterPercentage,
	}
	defaults := negotiation.DefaultPolicyConfig()
	if cfg.FirstCounterPercent < 1 || cfg.FirstCounterPercent > 100 {
		cfg.FirstCounterPercent = defaults.FirstCounterPercent
	}
	if cfg.SecondCounterPercent < 1 || cfg.SecondCounterPercent > 100 {
		cfg.SecondCounterPercent = defaults.SecondCounterPercent
	}
	return cfg
}
