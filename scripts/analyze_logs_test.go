package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const infoLog = `INFO: 2024/01/31 10:00:00 session.go:93: Offer decision - Product ID: 10, Attempts before: 0, Offer: 50, Minimum: 100, Outcome: counter_offer, Price: 125, Attempt: 1
INFO: 2024/01/31 10:00:05 session.go:93: Offer decision - Product ID: 10, Attempts before: 2, Offer: 70, Minimum: 100, Outcome: final_offer, Price: 100, Attempt: 3
INFO: 2024/01/31 10:00:09 session.go:177: Counter offer accepted - Product ID: 10, Price: 100, Cart item: abc
INFO: 2024/01/31 10:01:00 session.go:93: Offer decision - Product ID: 11, Attempts before: 0, Offer: 150, Minimum: 100, Outcome: accepted, Price: 150, Attempt: 1
INFO: 2024/01/31 10:02:00 session.go:189: Offer negotiation restarted - Product ID: 11
`

const errorLog = `ERROR: 2024/01/31 10:00:01 nonce.go:22: Security check failed on /v1/offers: invalid or expired token
ERROR: 2024/01/31 10:00:02 session.go:162: Counter acceptance rejected for product 10: counter does not match
ERROR: 2024/01/31 10:00:03 session.go:162: Counter acceptance rejected for product 12: counter does not match
ERROR: 2024/01/31 10:00:04 middleware.go:65: Rate limit exceeded for client 1.2.3.4 on /v1/offers
ERROR: 2024/01/31 10:00:05 session.go:228: Failed to add product 10 to cart at 125: no such table
`

func TestAnalyze(t *testing.T) {
	stats := newLogStats()
	stats.analyzeInfo(strings.NewReader(infoLog))
	stats.analyzeErrors(strings.NewReader(errorLog))

	assert.Equal(t, 3, stats.Offers)
	assert.Equal(t, map[string]int{"counter_offer": 1, "final_offer": 1, "accepted": 1}, stats.Outcomes)
	assert.Equal(t, 1, stats.CountersAccepted)
	assert.Equal(t, 2, stats.CountersRejected)
	assert.Equal(t, 1, stats.Restarts)
	assert.Equal(t, 1, stats.SecurityFailures)
	assert.Equal(t, 1, stats.RateLimited)
	assert.Equal(t, 1, stats.CartFailures)
	assert.Equal(t, 5, stats.TotalErrors)
	assert.Equal(t, map[string]int{"10": 3, "11": 1}, stats.ProductActivities)
	assert.Equal(t, 2, stats.ErrorPatterns["Counter acceptance rejected for product N"])

	var out bytes.Buffer
	printReport(&out, stats)
	assert.Contains(t, out.String(), "Offers Submitted: 3")
	assert.Contains(t, out.String(), "product 10: 3 offers")
}
