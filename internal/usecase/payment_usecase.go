package usecase

import (
	"context"
	"errors"
	"fmt"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrAmountMismatch      = errors.New("amount does not match the plan price")
	ErrMissingSessionID    = errors.New("session ID is required")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrPaymentGateway      = errors.New("payment gateway error")
	ErrPlanUpgrade         = errors.New("failed to upgrade plan")
)

// Metadata keys echoed back by the processor
const (
	metadataUserID   = "userId"
	metadataPlanType = "planType"
)

type PaymentUsecase interface {
	ListPlans(ctx context.Context) ([]dto.PlanResponse, error)
	CreateCheckout(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentSessionResponse, error)
	VerifyCheckout(ctx context.Context, sessionID string) (*dto.PaymentVerificationResponse, error)
}

type PaymentOptions struct {
	BaseURL  string
	Currency string
}

type paymentUsecase struct {
	log          *logrus.Logger
	planRepo     repository.PlanRepository
	userRepo     repository.UserRepository
	payments     gateway.PaymentGateway
	auditService service.AuditService
	opts         PaymentOptions
}

func NewPaymentUsecase(
	log *logrus.Logger,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	payments gateway.PaymentGateway,
	auditService service.AuditService,
	opts PaymentOptions,
) PaymentUsecase {
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	return &paymentUsecase{
		log:          log,
		planRepo:     planRepo,
		userRepo:     userRepo,
		payments:     payments,
		auditService: auditService,
		opts:         opts,
	}
}

func (u *paymentUsecase) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := u.planRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find plans: %+v", err)
		return nil, err
	}
	return converter.PlansToResponses(plans), nil
}

// CreateCheckout opens a hosted checkout for the plan. The client-sent
// amount must equal the stored price exactly.
func (u *paymentUsecase) CreateCheckout(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentSessionResponse, error) {
	plan, err := u.planRepo.FindByName(ctx, req.PlanType)
	if err != nil {
		u.log.Warnf("Failed to find plan: %+v", err)
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if !req.Amount.Equal(plan.Price) {
		return nil, ErrAmountMismatch
	}

	session, err := u.payments.CreateCheckoutSession(ctx, gateway.CheckoutRequest{
		ProductName: fmt.Sprintf("MediConnect %s Plan", plan.Name),
		Description: fmt.Sprintf("%s subscription for MediConnect healthcare platform", plan.Name),
		AmountMinor: entity.MinorUnits(plan.Price),
		Currency:    u.opts.Currency,
		SuccessURL:  u.opts.BaseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   u.opts.BaseURL + "/payment/cancel",
		Metadata: map[string]string{
			metadataUserID:   req.UserID,
			metadataPlanType: plan.Name,
		},
	})
	if err != nil {
		return nil, u.gatewayError("create checkout session", err)
	}

	return &dto.PaymentSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// VerifyCheckout confirms a paid session and upgrades the user named in its
// metadata. Verifying the same session again is harmless.
func (u *paymentUsecase) VerifyCheckout(ctx context.Context, sessionID string) (*dto.PaymentVerificationResponse, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := u.payments.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, u.gatewayError("retrieve checkout session", err)
	}

	if session.PaymentStatus != gateway.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	if err := u.upgradePlan(ctx, session); err != nil {
		return nil, err
	}

	return &dto.PaymentVerificationResponse{
		Success: true,
		Session: converter.CheckoutSessionToPayload(session),
	}, nil
}

func (u *paymentUsecase) upgradePlan(ctx context.Context, session *gateway.CheckoutSession) error {
	userID, err := uuid.Parse(session.Metadata[metadataUserID])
	if err != nil {
		u.log.Warnf("Checkout session %s has no usable userId metadata", session.ID)
		return nil
	}

	plan, err := u.planRepo.FindByName(ctx, session.Metadata[metadataPlanType])
	if err != nil {
		u.log.Warnf("Failed to find plan: %+v", err)
		return fmt.Errorf("%w: %v", ErrPlanUpgrade, err)
	}
	if plan == nil {
		u.log.Warnf("Checkout session %s names unknown plan %q", session.ID, session.Metadata[metadataPlanType])
		return nil
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return fmt.Errorf("%w: %v", ErrPlanUpgrade, err)
	}
	if user == nil {
		u.log.Warnf("Checkout session %s names unknown user %s", session.ID, userID)
		return nil
	}
	if user.Plan == plan.Name {
		return nil
	}

	if err := u.userRepo.UpdatePlan(ctx, userID, plan.Name); err != nil {
		u.log.Warnf("Failed to update user plan: %+v", err)
		return fmt.Errorf("%w: %v", ErrPlanUpgrade, err)
	}

	_ = u.auditService.LogUpdate(ctx, &userID, entity.AuditActionPlanUpgrade, "user", userID.String(),
		map[string]interface{}{"plan": user.Plan},
		map[string]interface{}{"plan": plan.Name, "session_id": session.ID},
	)
	return nil
}

func (u *paymentUsecase) gatewayError(op string, err error) error {
	if errors.Is(err, gateway.ErrPaymentUnavailable) {
		return err
	}
	u.log.Errorf("Failed to %s: %+v", op, err)
	return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
}
