package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailSender delivers messages, *gomail.Dialer satisfies it
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewMailSender creates an SMTP dialer from config
func NewMailSender(cfg EmailConfig) MailSender {
	return gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
}

// OfferMailer emails the shop admin about every submitted offer
type OfferMailer struct {
	Sender         MailSender
	From           string
	To             string
	ProductURL     string
	CurrencySymbol string
	// Enabled is consulted per offer so the admin toggle applies immediately
	Enabled func(ctx context.Context) bool
	// ProductName resolves a display name for the subject line
	ProductName func(ctx context.Context, productID string) string
}

// Notify sends the "New Offer Received" email when notifications are enabled
func (m *OfferMailer) Notify(ctx context.Context, productID string, offerAmount, minimumPrice decimal.Decimal) error {
	if m.Enabled != nil && !m.Enabled(ctx) {
		return nil
	}
	if m.Sender == nil || m.To == "" {
		return errors.New("offer notification email is not configured")
	}

	name := productID
	if m.ProductName != nil {
		name = m.ProductName(ctx, productID)
	}
	symbol := m.CurrencySymbol
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}

	var body strings.Builder
	body.WriteString("A new offer has been received:\n\n")
	fmt.Fprintf(&body, "Product: %s\n", name)
	fmt.Fprintf(&body, "Offer Amount: %s\n", FormatPrice(symbol, offerAmount))
	fmt.Fprintf(&body, "Minimum Price: %s\n", FormatPrice(symbol, minimumPrice))
	if m.ProductURL != "" {
		fmt.Fprintf(&body, "Product URL: %s/%s\n", strings.TrimRight(m.ProductURL, "/"), productID)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", "New Offer Received - "+name)
	msg.SetBody("text/plain", body.String())

	if err := m.Sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	LogDebug("Offer notification sent to %s for product %s", m.To, productID)
	return nil
}
