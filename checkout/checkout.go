// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/danielhkuo/paris-guide/auth"
	"github.com/danielhkuo/paris-guide/models"
)

var (
	ErrInvalidSignature = errors.New("invalid checkout signature")
	ErrUnknownStatus    = errors.New("unknown payment status")
)

// Payment statuses reported by the hosted checkout
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Gateway talks to the hosted checkout page. Orders leave through
// RedirectURL and come back through a signed webhook.
type Gateway struct {
	baseURL string
	secret  string
}

func NewGateway(baseURL, secret string) *Gateway {
	return &Gateway{baseURL: baseURL, secret: secret}
}

// RedirectURL builds the hosted checkout link for a pending order. The query
// is signed so the checkout can reject tampered amounts.
func (g *Gateway) RedirectURL(o models.Order, returnURL string) (string, error) {
	if o.Reference == "" {
		return "", fmt.Errorf("order has no reference")
	}
	if o.AmountCents <= 0 {
		return "", fmt.Errorf("order %s has no amount", o.Reference)
	}

	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}

	currency := o.Currency
	if currency == "" {
		currency = models.CurrencyEUR
	}

	q := u.Query()
	q.Set("reference", o.Reference)
	q.Set("amount", strconv.FormatInt(o.AmountCents, 10))
	q.Set("currency", currency)
	q.Set("email", o.Email)
	q.Set("return_url", returnURL)
	// Encode sorts keys, so the signed string is stable
	q.Set("signature", auth.Sign([]byte(q.Encode()), g.secret))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// VerifyWebhook checks the X-Checkout-Signature header against the raw body
func (g *Gateway) VerifyWebhook(body []byte, signature string) error {
	if signature == "" || !auth.VerifySignature(body, signature, g.secret) {
		return ErrInvalidSignature
	}
	return nil
}

// SignWebhook produces the signature the checkout sends with a callback
func (g *Gateway) SignWebhook(body []byte) string {
	return auth.Sign(body, g.secret)
}

// OrderStatus maps a checkout payment status onto an order status
func OrderStatus(paymentStatus string) (string, error) {
	switch paymentStatus {
	case StatusSucceeded, models.OrderPaid:
		return models.OrderPaid, nil
	case StatusFailed:
		return models.OrderFailed, nil
	case StatusCancelled:
		return models.OrderCancelled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, paymentStatus)
}

// Receipt is the outcome of a locally simulated payment
type Receipt struct {
	Reference string
	Status    string
	PaidAt    time.Time
}

// Simulate settles a payment without leaving the site. The museum guide and
// city pass flows use it; it always succeeds for a positive amount.
func Simulate(amountCents int64, now time.Time) (Receipt, error) {
	if amountCents < 0 {
		return Receipt{}, fmt.Errorf("negative amount %d", amountCents)
	}
	return Receipt{
		Reference: auth.GenerateReference(),
		Status:    models.OrderPaid,
		PaidAt:    now.UTC(),
	}, nil
}
