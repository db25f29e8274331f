package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
)

type mockPaymentUsecase struct {
	createErr error
	verifyErr error
	sessionID string
}

func (m *mockPaymentUsecase) ListPlans(context.Context) ([]dto.PlanResponse, error) {
	return []dto.PlanResponse{}, nil
}

func (m *mockPaymentUsecase) CreateCheckout(context.Context, *dto.CreatePaymentRequest) (*dto.PaymentSessionResponse, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &dto.PaymentSessionResponse{SessionID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (m *mockPaymentUsecase) VerifyCheckout(_ context.Context, sessionID string) (*dto.PaymentVerificationResponse, error) {
	m.sessionID = sessionID
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return &dto.PaymentVerificationResponse{
		Success: true,
		Session: &dto.CheckoutSessionPayload{ID: sessionID, PaymentStatus: "paid"},
	}, nil
}

func TestCreatePaymentSession(t *testing.T) {
	valid := `{"amount":19.99,"userId":"` + uuid.NewString() + `","planType":"premium"}`

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"ok", valid, nil, http.StatusOK},
		{"unknown plan type", `{"amount":1,"userId":"` + uuid.NewString() + `","planType":"gold"}`, nil, http.StatusBadRequest},
		{"bad user id", `{"amount":19.99,"userId":"42","planType":"premium"}`, nil, http.StatusBadRequest},
		{"amount mismatch", valid, usecase.ErrAmountMismatch, http.StatusBadRequest},
		{"unavailable", valid, gateway.ErrPaymentUnavailable, http.StatusServiceUnavailable},
		{"gateway failure", valid, usecase.ErrPaymentGateway, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPaymentHandler(&mockPaymentUsecase{createErr: tt.err}, validator.NewValidator())

			rec := httptest.NewRecorder()
			h.CreatePaymentSession(rec, httptest.NewRequest(http.MethodPost, "/api/payment/create-session", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["sessionId"] != "cs_test_1" || body["url"] == "" {
				t.Errorf("expected bare camelCase body, got %v", body)
			}
		})
	}
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"paid", "?session_id=cs_test_1", nil, http.StatusOK},
		{"missing", "", usecase.ErrMissingSessionID, http.StatusBadRequest},
		{"unpaid", "?session_id=cs_test_1", usecase.ErrPaymentNotCompleted, http.StatusBadRequest},
		{"upgrade failed", "?session_id=cs_test_1", usecase.ErrPlanUpgrade, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockPaymentUsecase{verifyErr: tt.err}
			h := NewPaymentHandler(uc, validator.NewValidator())

			rec := httptest.NewRecorder()
			h.VerifyPayment(rec, httptest.NewRequest(http.MethodGet, "/api/payment/verify"+tt.query, nil))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK {
				if uc.sessionID != "cs_test_1" {
					t.Errorf("expected session id to be passed through, got %q", uc.sessionID)
				}
				if !strings.Contains(rec.Body.String(), `"success":true`) {
					t.Errorf("unexpected body %s", rec.Body.String())
				}
			}
		})
	}
}
