package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/negotiation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBAttemptStore keeps attempt state in the offer_attempts table
type DBAttemptStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDBAttemptStore creates a database backed store
func NewDBAttemptStore(db *gorm.DB, ttl time.Duration) *DBAttemptStore {
	if ttl <= 0 {
		ttl = negotiation.StateTTL
	}
	return &DBAttemptStore{db: db, ttl: ttl, now: time.Now}
}

func (s *DBAttemptStore) toState(row models.OfferAttempt) negotiation.State {
	if !s.now().Before(row.ExpiresAt) {
		return negotiation.State{}
	}
	return negotiation.State{Attempts: row.Attempts, LastCounter: row.LastCounter}
}

func (s *DBAttemptStore) Get(ctx context.Context, visitorKey, productID string) (negotiation.State, error) {
	var row models.OfferAttempt
	err := s.db.WithContext(ctx).
		Where("visitor_key = ? AND attempt_key = ?", visitorKey, negotiation.AttemptKey(productID)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return negotiation.State{}, nil
	}
	if err != nil {
		return negotiation.State{}, err
	}
	return s.toState(row), nil
}

// Update makes sure the row exists, locks it and applies fn within one transaction
func (s *DBAttemptStore) Update(ctx context.Context, visitorKey, productID string, fn func(negotiation.State) (negotiation.State, error)) (negotiation.State, error) {
	attemptKey := negotiation.AttemptKey(productID)

	var result negotiation.State
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placeholder := models.OfferAttempt{
			VisitorKey: visitorKey,
			AttemptKey: attemptKey,
			ExpiresAt:  s.now(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&placeholder).Error; err != nil {
			return err
		}

		var row models.OfferAttempt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("visitor_key = ? AND attempt_key = ?", visitorKey, attemptKey).
			First(&row).Error; err != nil {
			return err
		}

		next, err := fn(s.toState(row))
		if err != nil {
			return err
		}

		if next.IsZero() {
			result = negotiation.State{}
			return tx.Delete(&row).Error
		}

		row.Attempts = next.Attempts
		row.LastCounter = next.LastCounter
		row.ExpiresAt = s.now().Add(s.ttl)
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return negotiation.State{}, err
	}
	return result, nil
}

func (s *DBAttemptStore) Clear(ctx context.Context, visitorKey, productID string) error {
	return s.db.WithContext(ctx).
		Where("visitor_key = ? AND attempt_key = ?", visitorKey, negotiation.AttemptKey(productID)).
		Delete(&models.OfferAttempt{}).Error
}

// PurgeExpired removes rows past their expiry and returns how many were deleted
func (s *DBAttemptStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.OfferAttempt{})
	return res.RowsAffected, res.Error
}
