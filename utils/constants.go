package utils

import "time"

// Application constants
const (
	// Application name
	AppName = "MakeOffer"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default log directory
	DefaultLogDir = "logs"

	// Default database settings
	DefaultDBDriver   = "postgres"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = "5432"
	DefaultDBName     = "makeoffer"
	DefaultDBUser     = "postgres"
	DefaultSQLitePath = "./data/makeoffer.db"

	// Default redis address
	DefaultRedisAddr = "localhost:6379"

	// Default cart page shoppers are sent to
	DefaultCartURL = "/cart"

	// Default currency symbol used in shopper messages
	DefaultCurrencySymbol = "$"

	// Session cookie holding the visitor key
	SessionName = "makeoffer"

	// Session key of the visitor key
	VisitorSessionKey = "visitor_key"

	// Form field and header carrying the anti-forgery nonce
	NonceField  = "make_offer_nonce"
	NonceHeader = "X-Make-Offer-Nonce"

	// Offer endpoints allowed per visitor per window
	DefaultOfferRateLimit = 30

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100
)

const (
	// Visitor session lifetime, matches the attempt state lifetime
	VisitorSessionMaxAge = 24 * time.Hour

	// Offer nonce lifetime
	NonceExpiration = 24 * time.Hour

	// Admin JWT token lifetime
	AdminTokenExpiration = 24 * time.Hour

	// Offer rate limit window
	DefaultOfferRateWindow = time.Minute
)

// Error messages
const (
	ErrInvalidCredentials   = "Invalid credentials"
	ErrUnauthorized         = "Please login for access"
	ErrSecurityCheck        = "Security check failed"
	ErrInvalidProduct       = "Invalid product"
	ErrInvalidOfferAmount   = "Offer amount must be a number"
	ErrInvalidCounterAmount = "Counter offer does not match"
	ErrCartInsertion        = "Failed to add to cart"
	ErrInvalidPercentage    = "Counter offer percentages must be between 1 and 100"
	ErrInvalidPrice         = "Price must be a non-negative number"
	ErrInternalServer       = "Internal server error"
	ErrTooManyRequests      = "Too many requests, please slow down"
)

// Shopper and admin messages
const (
	MsgOfferAccepted   = "Great! Your offer has been accepted. The item has been added to your cart."
	MsgCounterAccepted = "Perfect! Your item has been added to cart."
	MsgFirstCounter    = "Thanks for your offer! How about %s? You can also make another offer if you prefer."
	MsgSecondCounter   = "How about %s? You can also make one more offer if you prefer."
	MsgFinalOffer      = "Our final offer is %s. This is the minimum we can accept for this item."
	MsgOfferRestarted  = "You can make a new offer now."
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logged out successfully"
	MsgUpdateSuccess   = "Updated successfully"
	MsgCreateSuccess   = "Created successfully"
)
