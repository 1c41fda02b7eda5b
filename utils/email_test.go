package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	messages []*gomail.Message
	err      error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

func newTestMailer(sender MailSender, enabled bool) *OfferMailer {
	return &OfferMailer{
		Sender:      sender,
		From:        "shop@example.com",
		To:          "owner@example.com",
		ProductURL:  "https://shop.example.com/products/",
		Enabled:     func(context.Context) bool { return enabled },
		ProductName: func(_ context.Context, id string) string { return "Lamp #" + id },
	}
}

func TestOfferMailer_Notify(t *testing.T) {
	sender := &fakeSender{}
	mailer := newTestMailer(sender, true)

	err := mailer.Notify(context.Background(), "10", decimal.RequireFromString("80"), decimal.RequireFromString("100"))
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"New Offer Received - Lamp #10"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))

	var body bytes.Buffer
	_, err = msg.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "Offer Amount: $80.00")
	assert.Contains(t, body.String(), "Minimum Price: $100.00")
	assert.Contains(t, body.String(), "https://shop.example.com/products/10")
}

func TestOfferMailer_Disabled(t *testing.T) {
	sender := &fakeSender{}
	mailer := newTestMailer(sender, false)

	require.NoError(t, mailer.Notify(context.Background(), "10", decimal.NewFromInt(1), decimal.NewFromInt(2)))
	assert.Empty(t, sender.messages)
}

func TestOfferMailer_Errors(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	err := newTestMailer(sender, true).Notify(context.Background(), "10", decimal.NewFromInt(1), decimal.NewFromInt(2))
	assert.Error(t, err)

	unconfigured := &OfferMailer{}
	assert.Error(t, unconfigured.Notify(context.Background(), "10", decimal.NewFromInt(1), decimal.NewFromInt(2)))
}
