package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

func (h *PaymentHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.paymentUsecase.ListPlans(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get plans")
		return
	}

	response.Success(w, http.StatusOK, "Plans retrieved successfully", plans)
}

// CreatePaymentSession answers with the bare {sessionId, url} body the web client redirects with
func (h *PaymentHandler) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.paymentUsecase.CreateCheckout(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPlanNotFound):
			response.BadRequest(w, "Unknown plan type")
		case errors.Is(err, usecase.ErrAmountMismatch):
			response.BadRequest(w, "Amount does not match the plan price")
		case errors.Is(err, gateway.ErrPaymentUnavailable):
			response.ServiceUnavailable(w, "Payments are not available")
		default:
			response.InternalServerError(w, "Failed to create payment session")
		}
		return
	}

	response.JSON(w, http.StatusOK, session)
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	result, err := h.paymentUsecase.VerifyCheckout(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingSessionID):
			response.BadRequest(w, "Session ID is required")
		case errors.Is(err, usecase.ErrPaymentNotCompleted):
			response.BadRequest(w, "Payment not completed")
		case errors.Is(err, gateway.ErrPaymentUnavailable):
			response.ServiceUnavailable(w, "Payments are not available")
		default:
			response.InternalServerError(w, "Failed to verify payment")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
