package dto

import (
	"github.com/shopspring/decimal"
)

// The payment and analysis routes keep the camelCase bodies the web client
// already sends.

type CreatePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	UserID   string          `json:"userId" validate:"required,uuid"`
	PlanType string          `json:"planType" validate:"required,oneof=standard premium"`
}

type PaymentSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PaymentVerificationResponse struct {
	Success bool                    `json:"success"`
	Session *CheckoutSessionPayload `json:"session"`
}

type CheckoutSessionPayload struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type PlanResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}
