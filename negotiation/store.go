package negotiation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StateTTL is how long attempt state survives without being touched
const StateTTL = 24 * time.Hour

// State is the per (visitor, product) negotiation state
type State struct {
	Attempts    int
	LastCounter decimal.NullDecimal
}

// IsZero reports whether the state is the initial attempt 0 state
func (s State) IsZero() bool {
	return s.Attempts <= 0 && !s.LastCounter.Valid
}

// Store persists attempt state per (visitor, product).
//
// Update must apply fn atomically for the key: concurrent updates of the
// same key never observe the same prior state. A zero State returned by fn
// removes the entry. If fn returns an error nothing is written.
type Store interface {
	Get(ctx context.Context, visitorKey, productID string) (State, error)
	Update(ctx context.Context, visitorKey, productID string, fn func(State) (State, error)) (State, error)
	Clear(ctx context.Context, visitorKey, productID string) error
}

// AttemptKey returns the visitor scoped key the state is stored under
func AttemptKey(productID string) string {
	return fmt.Sprintf("offer_attempts_%s", productID)
}
