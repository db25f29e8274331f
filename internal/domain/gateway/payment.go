package gateway

import (
	"context"
	"errors"
)

// ErrPaymentUnavailable is returned when no payment processor is configured
var ErrPaymentUnavailable = errors.New("payment gateway is not configured")

// PaymentStatusPaid is the processor status of a settled checkout session
const PaymentStatusPaid = "paid"

// CheckoutRequest describes a one-off hosted checkout
type CheckoutRequest struct {
	ProductName string
	Description string
	AmountMinor int64 // minor currency units (cents)
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the processor's view of a checkout
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url,omitempty"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// PaymentGateway creates and retrieves hosted checkout sessions
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
