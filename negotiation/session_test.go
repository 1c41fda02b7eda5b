package negotiation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProduct struct {
	price      decimal.Decimal
	negotiable bool
}

type fakeCatalog map[string]fakeProduct

func (c fakeCatalog) lookup(id string) (fakeProduct, error) {
	p, ok := c[id]
	if !ok {
		return fakeProduct{}, negotiation.ErrInvalidProduct
	}
	return p, nil
}

func (c fakeCatalog) MinimumPrice(_ context.Context, id string) (decimal.Decimal, error) {
	p, err := c.lookup(id)
	return p.price, err
}

func (c fakeCatalog) IsNegotiable(_ context.Context, id string) (bool, error) {
	p, err := c.lookup(id)
	return p.negotiable, err
}

type cartCall struct {
	visitor, product string
	price            decimal.Decimal
}

type fakeCart struct {
	mu    sync.Mutex
	fail  bool
	calls []cartCall
}

func (c *fakeCart) AddToCart(_ context.Context, visitor, product string, price decimal.Decimal) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return "", errors.New("cart unavailable")
	}
	c.calls = append(c.calls, cartCall{visitor, product, price})
	return "item-" + product, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	offers []decimal.Decimal
}

func (n *fakeNotifier) Notify(_ context.Context, _ string, offer, _ decimal.Decimal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.offers = append(n.offers, offer)
	return n.err
}

type sessionFixture struct {
	session  *negotiation.Session
	store    *repository.MemoryAttemptStore
	cart     *fakeCart
	notifier *fakeNotifier
}

func newFixture(t *testing.T, opts negotiation.Options) *sessionFixture {
	t.Helper()
	store := repository.NewMemoryAttemptStore(negotiation.StateTTL)
	t.Cleanup(store.Stop)

	catalog := fakeCatalog{
		"10": {price: dec("100"), negotiable: true},
		"11": {price: dec("19.99"), negotiable: true},
		"12": {price: dec("50"), negotiable: false},
	}
	f := &sessionFixture{store: store, cart: &fakeCart{}, notifier: &fakeNotifier{}}
	f.session = negotiation.NewSession(store, catalog, f.cart, f.notifier, opts)
	return f
}

func (f *sessionFixture) attempts(t *testing.T, visitor, product string) int {
	t.Helper()
	state, err := f.session.State(context.Background(), visitor, product)
	require.NoError(t, err)
	return state.Attempts
}

func TestSubmitOffer_WalksTheCounterCurve(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	want := []struct {
		kind    negotiation.OutcomeKind
		price   string
		attempt int
	}{
		{negotiation.OutcomeCounterOffer, "125", 1},
		{negotiation.OutcomeCounterOffer, "115", 2},
		{negotiation.OutcomeFinalOffer, "100", 3},
		{negotiation.OutcomeFinalOffer, "100", 4},
	}
	for _, w := range want {
		result, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), cfg)
		require.NoError(t, err)
		assert.Equal(t, w.kind, result.Outcome.Kind)
		assert.True(t, result.Outcome.CounterPrice.Equal(dec(w.price)))
		assert.Equal(t, w.attempt, result.Outcome.AttemptNumber)
		assert.Nil(t, result.Receipt)
	}

	assert.Equal(t, 4, f.attempts(t, "v1", "10"))
	assert.Empty(t, f.cart.calls)
	assert.Len(t, f.notifier.offers, 4)
}

func TestSubmitOffer_AcceptedClearsStateAndFillsCart(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, f.attempts(t, "v1", "10"))

	result, err := f.session.SubmitOffer(ctx, "v1", "10", dec("100.555"), cfg)
	require.NoError(t, err)
	require.True(t, result.Outcome.IsAccepted())
	require.NotNil(t, result.Receipt)

	assert.Equal(t, "item-10", result.Receipt.CartItemID)
	assert.True(t, result.Receipt.FinalPrice.Equal(dec("100.56")))
	assert.Equal(t, 0, f.attempts(t, "v1", "10"))
	require.Len(t, f.cart.calls, 1)
	assert.Equal(t, "v1", f.cart.calls[0].visitor)
}

func TestSubmitOffer_StateIsScopedPerVisitorAndProduct(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("1"), cfg)
	require.NoError(t, err)
	_, err = f.session.SubmitOffer(ctx, "v1", "10", dec("1"), cfg)
	require.NoError(t, err)

	other, err := f.session.SubmitOffer(ctx, "v2", "10", dec("1"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Outcome.AttemptNumber)

	otherProduct, err := f.session.SubmitOffer(ctx, "v1", "11", dec("1"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, otherProduct.Outcome.AttemptNumber)
	assert.Equal(t, 2, f.attempts(t, "v1", "10"))
}

func TestSubmitOffer_RejectsUnknownAndDisabledProducts(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()

	for _, id := range []string{"404", "12"} {
		_, err := f.session.SubmitOffer(ctx, "v1", id, dec("10"), negotiation.DefaultPolicyConfig())
		assert.ErrorIs(t, err, negotiation.ErrInvalidProduct, id)
		assert.Equal(t, 0, f.attempts(t, "v1", id))
	}
	assert.Empty(t, f.notifier.offers)
}

func TestSubmitOffer_RequiresVisitor(t *testing.T) {
	f := newFixture(t, negotiation.Options{})

	_, err := f.session.SubmitOffer(context.Background(), "", "10", dec("10"), negotiation.DefaultPolicyConfig())
	assert.ErrorIs(t, err, negotiation.ErrSecurityCheckFailed)
}

func TestSubmitOffer_RejectsInvalidPolicy(t *testing.T) {
	f := newFixture(t, negotiation.Options{})

	_, err := f.session.SubmitOffer(context.Background(), "v1", "10", dec("10"), negotiation.PolicyConfig{})
	assert.Error(t, err)
	assert.Equal(t, 0, f.attempts(t, "v1", "10"))
}

func TestSubmitOffer_NotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	f.notifier.err = errors.New("smtp down")

	result, err := f.session.SubmitOffer(context.Background(), "v1", "10", dec("50"), negotiation.DefaultPolicyConfig())
	require.NoError(t, err)
	assert.Equal(t, negotiation.OutcomeCounterOffer, result.Outcome.Kind)
	assert.Len(t, f.notifier.offers, 1)
}

func TestSubmitOffer_CartFailureSurfacesAfterClearingState(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), cfg)
	require.NoError(t, err)

	f.cart.fail = true
	result, err := f.session.SubmitOffer(ctx, "v1", "10", dec("120"), cfg)
	assert.ErrorIs(t, err, negotiation.ErrCartInsertionFailed)
	assert.True(t, result.Outcome.IsAccepted())
	assert.Nil(t, result.Receipt)
	assert.Equal(t, 0, f.attempts(t, "v1", "10"))
}

func TestAcceptCounter_MatchingCounter(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), negotiation.DefaultPolicyConfig())
	require.NoError(t, err)

	receipt, err := f.session.AcceptCounter(ctx, "v1", "10", dec("125.00"))
	require.NoError(t, err)
	assert.True(t, receipt.FinalPrice.Equal(dec("125")))
	assert.Equal(t, "10", receipt.ProductID)
	assert.Equal(t, 0, f.attempts(t, "v1", "10"))
}

func TestAcceptCounter_MatchesAtCentPrecision(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.PolicyConfig{FirstCounterPercent: 33, SecondCounterPercent: 7}

	result, err := f.session.SubmitOffer(ctx, "v1", "11", dec("5"), cfg)
	require.NoError(t, err)
	require.True(t, result.Outcome.CounterPrice.Equal(dec("26.5867")))

	receipt, err := f.session.AcceptCounter(ctx, "v1", "11", dec("26.59"))
	require.NoError(t, err)
	assert.True(t, receipt.FinalPrice.Equal(dec("26.59")))
}

func TestAcceptCounter_RejectsTamperedAmount(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), negotiation.DefaultPolicyConfig())
	require.NoError(t, err)

	_, err = f.session.AcceptCounter(ctx, "v1", "10", dec("1"))
	assert.ErrorIs(t, err, negotiation.ErrInvalidOffer)
	assert.Equal(t, 1, f.attempts(t, "v1", "10"))
	assert.Empty(t, f.cart.calls)
}

func TestAcceptCounter_RequiresPendingCounter(t *testing.T) {
	f := newFixture(t, negotiation.Options{})

	_, err := f.session.AcceptCounter(context.Background(), "v1", "10", dec("125"))
	assert.ErrorIs(t, err, negotiation.ErrInvalidOffer)
}

func TestAcceptCounter_TrustClientCounter(t *testing.T) {
	f := newFixture(t, negotiation.Options{TrustClientCounter: true})

	receipt, err := f.session.AcceptCounter(context.Background(), "v1", "10", dec("3.333"))
	require.NoError(t, err)
	assert.True(t, receipt.FinalPrice.Equal(dec("3.33")))
}

func TestAcceptCounter_RejectsNegativeAndInvalidProduct(t *testing.T) {
	f := newFixture(t, negotiation.Options{TrustClientCounter: true})
	ctx := context.Background()

	_, err := f.session.AcceptCounter(ctx, "v1", "10", dec("-1"))
	assert.ErrorIs(t, err, negotiation.ErrInvalidOffer)

	_, err = f.session.AcceptCounter(ctx, "v1", "12", dec("10"))
	assert.ErrorIs(t, err, negotiation.ErrInvalidProduct)

	_, err = f.session.AcceptCounter(ctx, "", "10", dec("10"))
	assert.ErrorIs(t, err, negotiation.ErrSecurityCheckFailed)
}

func TestAcceptCounter_CartFailureRestoresCounter(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()

	_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), negotiation.DefaultPolicyConfig())
	require.NoError(t, err)

	f.cart.fail = true
	_, err = f.session.AcceptCounter(ctx, "v1", "10", dec("125"))
	assert.ErrorIs(t, err, negotiation.ErrCartInsertionFailed)

	state, err := f.session.State(ctx, "v1", "10")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Attempts)
	require.True(t, state.LastCounter.Valid)
	assert.True(t, state.LastCounter.Decimal.Equal(dec("125")))

	f.cart.fail = false
	_, err = f.session.AcceptCounter(ctx, "v1", "10", dec("125"))
	assert.NoError(t, err)
}

func TestRestart_ReturnsToAttemptZero(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	for i := 0; i < 3; i++ {
		_, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), cfg)
		require.NoError(t, err)
	}
	require.NoError(t, f.session.Restart(ctx, "v1", "10"))
	assert.Equal(t, 0, f.attempts(t, "v1", "10"))

	result, err := f.session.SubmitOffer(ctx, "v1", "10", dec("50"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Outcome.AttemptNumber)
	assert.True(t, result.Outcome.CounterPrice.Equal(dec("125")))

	assert.ErrorIs(t, f.session.Restart(ctx, "", "10"), negotiation.ErrSecurityCheckFailed)
}

func TestSubmitOffer_ConcurrentOffersAreAllCounted(t *testing.T) {
	f := newFixture(t, negotiation.Options{})
	ctx := context.Background()
	cfg := negotiation.DefaultPolicyConfig()

	const n = 50
	var wg sync.WaitGroup
	seen := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.session.SubmitOffer(ctx, "v1", "10", dec("1"), cfg)
			if assert.NoError(t, err) {
				seen[i] = result.Outcome.AttemptNumber
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, f.attempts(t, "v1", "10"))
	unique := make(map[int]bool, n)
	for _, attempt := range seen {
		unique[attempt] = true
	}
	assert.Len(t, unique, n)
}
