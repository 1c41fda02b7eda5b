package negotiation

import "errors"

var (
	// ErrInvalidProduct is returned for unknown products or products with make offer disabled
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidOffer is returned for malformed amounts and counter amounts that do not match the pending counter
	ErrInvalidOffer = errors.New("invalid offer")
	// ErrSecurityCheckFailed is returned when the anti-forgery token is missing or invalid
	ErrSecurityCheckFailed = errors.New("security check failed")
	// ErrCartInsertionFailed is returned when the cart collaborator could not add the item
	ErrCartInsertionFailed = errors.New("failed to add to cart")
)
