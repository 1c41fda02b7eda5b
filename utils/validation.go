package utils

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when an amount is not a plain decimal number
var ErrMalformedAmount = errors.New("malformed amount")

var (
	amountRegex  = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`on\w+="[^"]*"`)
)

// maxAmountLength bounds the accepted input, prices beyond it are nonsense
const maxAmountLength = 20

// FlexString is a request field accepted both as JSON number and string,
// keeping the raw text. Form binding fills it like a plain string.
type FlexString string

// UnmarshalJSON keeps the raw text of numbers and unquotes strings
func (f *FlexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	*f = FlexString(strings.TrimSpace(raw))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Decimal parses the value as an amount, see ParseAmount
func (f FlexString) Decimal() (decimal.Decimal, error) {
	return ParseAmount(string(f))
}

// ParseAmount parses a decimal amount strictly: no exponent, no thousands
// separators, no silent coercion of garbage to zero.
func ParseAmount(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}
	if len(s) > maxAmountLength || !amountRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, input)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedAmount, err)
	}
	return d, nil
}

// FormatPrice renders an amount for shoppers, e.g. $125.00
func FormatPrice(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// SanitizeString removes potentially dangerous characters and HTML tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(strings.TrimSpace(input))
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	sanitized = jsEventRegex.ReplaceAllString(sanitized, "")
	return sanitized
}
