// Package negotiation holds the offer negotiation core: the pricing policy
// that decides between accepting, countering and a final floor offer, and the
// session that binds the policy to per-visitor attempt state.
package negotiation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultFirstCounterPercent is the markup above the floor offered after the first low offer
	DefaultFirstCounterPercent = 25
	// DefaultSecondCounterPercent is the markup above the floor offered after the second low offer
	DefaultSecondCounterPercent = 15

	minCounterPercent = 1
	maxCounterPercent = 100

	// MoneyScale is the number of decimal places prices are shown and stored with
	MoneyScale = 2
)

var hundred = decimal.NewFromInt(100)

// PolicyConfig holds the counter offer percentages above the floor price
type PolicyConfig struct {
	FirstCounterPercent  int `json:"first_counter_percentage"`
	SecondCounterPercent int `json:"second_counter_percentage"`
}

// DefaultPolicyConfig returns the 25% / 15% curve
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		FirstCounterPercent:  DefaultFirstCounterPercent,
		SecondCounterPercent: DefaultSecondCounterPercent,
	}
}

// Validate checks both percentages are within 1-100
func (c PolicyConfig) Validate() error {
	if c.FirstCounterPercent < minCounterPercent || c.FirstCounterPercent > maxCounterPercent {
		return fmt.Errorf("first counter percentage must be between %d and %d, got %d", minCounterPercent, maxCounterPercent, c.FirstCounterPercent)
	}
	if c.SecondCounterPercent < minCounterPercent || c.SecondCounterPercent > maxCounterPercent {
		return fmt.Errorf("second counter percentage must be between %d and %d, got %d", minCounterPercent, maxCounterPercent, c.SecondCounterPercent)
	}
	return nil
}

// OutcomeKind tags the variant of an Outcome
type OutcomeKind string

const (
	OutcomeAccepted     OutcomeKind = "accepted"
	OutcomeCounterOffer OutcomeKind = "counter_offer"
	OutcomeFinalOffer   OutcomeKind = "final_offer"
)

// Outcome is the result of one negotiation round.
//
// Accepted outcomes carry FinalPrice. Counter and final offers carry
// CounterPrice and AttemptNumber; CanCounterAgain is only set on counters.
type Outcome struct {
	Kind            OutcomeKind
	FinalPrice      decimal.Decimal
	CounterPrice    decimal.Decimal
	AttemptNumber   int
	CanCounterAgain bool
}

// Accepted builds an accepted outcome
func Accepted(finalPrice decimal.Decimal) Outcome {
	return Outcome{Kind: OutcomeAccepted, FinalPrice: finalPrice}
}

// Countered builds a counter offer outcome
func Countered(counterPrice decimal.Decimal, attemptNumber int) Outcome {
	return Outcome{
		Kind:            OutcomeCounterOffer,
		CounterPrice:    counterPrice,
		AttemptNumber:   attemptNumber,
		CanCounterAgain: true,
	}
}

// FinalOffer builds a final offer outcome at the floor price
func FinalOffer(minimumPrice decimal.Decimal, attemptNumber int) Outcome {
	return Outcome{Kind: OutcomeFinalOffer, CounterPrice: minimumPrice, AttemptNumber: attemptNumber}
}

// IsAccepted reports whether the outcome ends the negotiation
func (o Outcome) IsAccepted() bool {
	return o.Kind == OutcomeAccepted
}

// Price returns the price the outcome puts in front of the shopper
func (o Outcome) Price() decimal.Decimal {
	if o.IsAccepted() {
		return o.FinalPrice
	}
	return o.CounterPrice
}

// Decide maps a submitted offer to a negotiation outcome. priorAttempts is
// the number of rejected rounds before this submission.
func Decide(minimumPrice, offerAmount decimal.Decimal, priorAttempts int, cfg PolicyConfig) Outcome {
	if offerAmount.GreaterThanOrEqual(minimumPrice) {
		return Accepted(offerAmount)
	}

	if priorAttempts < 0 {
		priorAttempts = 0
	}
	nextAttempt := priorAttempts + 1

	switch nextAttempt {
	case 1:
		return Countered(markup(minimumPrice, cfg.FirstCounterPercent), nextAttempt)
	case 2:
		return Countered(markup(minimumPrice, cfg.SecondCounterPercent), nextAttempt)
	default:
		return FinalOffer(minimumPrice, nextAttempt)
	}
}

// markup returns price * (1 + percent/100)
func markup(price decimal.Decimal, percent int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(percent)).Div(hundred))
	return price.Mul(factor)
}
