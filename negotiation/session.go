package negotiation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Govind-619/MakeOffer/utils"
	"github.com/shopspring/decimal"
)

// Catalog resolves floor prices and negotiability of products
type Catalog interface {
	MinimumPrice(ctx context.Context, productID string) (decimal.Decimal, error)
	IsNegotiable(ctx context.Context, productID string) (bool, error)
}

// Cart inserts a product at an override price into the visitor's cart
type Cart interface {
	AddToCart(ctx context.Context, visitorKey, productID string, price decimal.Decimal) (string, error)
}

// Notifier is told about every submitted offer. Errors are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, productID string, offerAmount, minimumPrice decimal.Decimal) error
}

// Options toggles legacy behaviour
type Options struct {
	// TrustClientCounter accepts whatever counter amount the client sends
	// instead of requiring the counter the server last offered.
	TrustClientCounter bool
}

// CartReceipt is returned once a negotiated price made it into the cart
type CartReceipt struct {
	CartItemID string          `json:"cart_item_id"`
	ProductID  string          `json:"product_id"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Submission is the result of SubmitOffer. Receipt is set for accepted offers.
type Submission struct {
	Outcome Outcome
	Receipt *CartReceipt
}

// Session binds the policy to per visitor attempt state
type Session struct {
	store    Store
	catalog  Catalog
	cart     Cart
	notifier Notifier
	opts     Options
}

// NewSession creates a negotiation session. notifier may be nil.
func NewSession(store Store, catalog Catalog, cart Cart, notifier Notifier, opts Options) *Session {
	return &Session{
		store:    store,
		catalog:  catalog,
		cart:     cart,
		notifier: notifier,
		opts:     opts,
	}
}

// Negotiate runs one round against a known floor price and persists the
// resulting attempt count. Accepted offers clear the state.
func (s *Session) Negotiate(ctx context.Context, visitorKey, productID string, minimumPrice, offerAmount decimal.Decimal, cfg PolicyConfig) (Outcome, error) {
	if visitorKey == "" {
		return Outcome{}, fmt.Errorf("%w: missing visitor key", ErrSecurityCheckFailed)
	}

	var outcome Outcome
	var prior int
	_, err := s.store.Update(ctx, visitorKey, productID, func(prev State) (State, error) {
		prior = prev.Attempts
		outcome = Decide(minimumPrice, offerAmount, prev.Attempts, cfg)
		if outcome.IsAccepted() {
			return State{}, nil
		}
		return State{
			Attempts:    outcome.AttemptNumber,
			LastCounter: decimal.NewNullDecimal(outcome.CounterPrice),
		}, nil
	})
	if err != nil {
		utils.LogError("Failed to update offer attempts for product %s: %v", productID, err)
		return Outcome{}, fmt.Errorf("failed to update offer attempts: %w", err)
	}

	utils.LogInfo("Offer decision - Product ID: %s, Attempts before: %d, Offer: %s, Minimum: %s, Outcome: %s, Price: %s, Attempt: %d",
		productID, prior, offerAmount.String(), minimumPrice.String(), outcome.Kind, outcome.Price().String(), outcome.AttemptNumber)
	return outcome, nil
}

// SubmitOffer resolves the product floor, notifies, negotiates and puts
// accepted offers into the cart.
func (s *Session) SubmitOffer(ctx context.Context, visitorKey, productID string, offerAmount decimal.Decimal, cfg PolicyConfig) (Submission, error) {
	if err := cfg.Validate(); err != nil {
		return Submission{}, fmt.Errorf("invalid policy config: %w", err)
	}

	minimumPrice, err := s.floor(ctx, productID)
	if err != nil {
		return Submission{}, err
	}

	s.notify(ctx, productID, offerAmount, minimumPrice)

	outcome, err := s.Negotiate(ctx, visitorKey, productID, minimumPrice, offerAmount, cfg)
	if err != nil {
		return Submission{}, err
	}

	result := Submission{Outcome: outcome}
	if !outcome.IsAccepted() {
		return result, nil
	}

	receipt, err := s.insert(ctx, visitorKey, productID, outcome.FinalPrice)
	if err != nil {
		// accepted offers do not depend on attempts, resubmitting yields the same outcome
		return result, err
	}
	result.Receipt = &receipt
	return result, nil
}

// AcceptCounter finalizes a counter offer and adds the product to the cart.
// Unless TrustClientCounter is set the amount must match the counter the
// server last offered for this visitor and product.
func (s *Session) AcceptCounter(ctx context.Context, visitorKey, productID string, counterAmount decimal.Decimal) (CartReceipt, error) {
	if visitorKey == "" {
		return CartReceipt{}, fmt.Errorf("%w: missing visitor key", ErrSecurityCheckFailed)
	}
	if counterAmount.IsNegative() {
		return CartReceipt{}, fmt.Errorf("%w: counter amount cannot be negative", ErrInvalidOffer)
	}
	if _, err := s.floor(ctx, productID); err != nil {
		return CartReceipt{}, err
	}

	price := counterAmount
	var consumed State
	_, err := s.store.Update(ctx, visitorKey, productID, func(prev State) (State, error) {
		if !s.opts.TrustClientCounter {
			if !prev.LastCounter.Valid {
				return prev, fmt.Errorf("%w: no counter offer pending", ErrInvalidOffer)
			}
			if !prev.LastCounter.Decimal.Round(MoneyScale).Equal(counterAmount.Round(MoneyScale)) {
				return prev, fmt.Errorf("%w: counter amount %s does not match the offered %s",
					ErrInvalidOffer, counterAmount.String(), prev.LastCounter.Decimal.String())
			}
			price = prev.LastCounter.Decimal
		}
		consumed = prev
		return State{}, nil
	})
	if err != nil {
		utils.LogError("Counter acceptance rejected for product %s: %v", productID, err)
		if errors.Is(err, ErrInvalidOffer) {
			return CartReceipt{}, err
		}
		return CartReceipt{}, fmt.Errorf("failed to update offer attempts: %w", err)
	}

	receipt, err := s.insert(ctx, visitorKey, productID, price)
	if err != nil {
		if _, rerr := s.store.Update(ctx, visitorKey, productID, func(State) (State, error) { return consumed, nil }); rerr != nil {
			utils.LogError("Failed to restore offer attempts for product %s: %v", productID, rerr)
		}
		return CartReceipt{}, err
	}

	utils.LogInfo("Counter offer accepted - Product ID: %s, Price: %s, Cart item: %s", productID, receipt.FinalPrice.String(), receipt.CartItemID)
	return receipt, nil
}

// Restart drops the attempt state so the next offer starts at attempt 1
func (s *Session) Restart(ctx context.Context, visitorKey, productID string) error {
	if visitorKey == "" {
		return fmt.Errorf("%w: missing visitor key", ErrSecurityCheckFailed)
	}
	if err := s.store.Clear(ctx, visitorKey, productID); err != nil {
		return fmt.Errorf("failed to clear offer attempts: %w", err)
	}
	utils.LogInfo("Offer negotiation restarted - Product ID: %s", productID)
	return nil
}

// State returns the current attempt state without changing it
func (s *Session) State(ctx context.Context, visitorKey, productID string) (State, error) {
	if visitorKey == "" {
		return State{}, nil
	}
	state, err := s.store.Get(ctx, visitorKey, productID)
	if err != nil {
		return State{}, fmt.Errorf("failed to read offer attempts: %w", err)
	}
	return state, nil
}

func (s *Session) floor(ctx context.Context, productID string) (decimal.Decimal, error) {
	negotiable, err := s.catalog.IsNegotiable(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if !negotiable {
		return decimal.Zero, fmt.Errorf("%w: make offer is disabled for product %s", ErrInvalidProduct, productID)
	}

	minimumPrice, err := s.catalog.MinimumPrice(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if minimumPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative floor price for product %s", ErrInvalidProduct, productID)
	}
	return minimumPrice, nil
}

func (s *Session) insert(ctx context.Context, visitorKey, productID string, price decimal.Decimal) (CartReceipt, error) {
	price = price.Round(MoneyScale)
	itemID, err := s.cart.AddToCart(ctx, visitorKey, productID, price)
	if err != nil {
		utils.LogError("Failed to add product %s to cart at %s: %v", productID, price.String(), err)
		return CartReceipt{}, fmt.Errorf("%w: %v", ErrCartInsertionFailed, err)
	}
	return CartReceipt{CartItemID: itemID, ProductID: productID, FinalPrice: price}, nil
}

func (s *Session) notify(ctx context.Context, productID string, offerAmount, minimumPrice decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, productID, offerAmount, minimumPrice); err != nil {
		utils.LogError("Offer notification failed for product %s: %v", productID, err)
	}
}
