package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
)

func CheckoutSessionToPayload(s *gateway.CheckoutSession) *dto.CheckoutSessionPayload {
	if s == nil {
		return nil
	}

	return &dto.CheckoutSessionPayload{
		ID:            s.ID,
		Status:        s.Status,
		PaymentStatus: s.PaymentStatus,
		AmountTotal:   s.AmountTotal,
		Currency:      s.Currency,
		Metadata:      s.Metadata,
	}
}

func PlansToResponses(plans []entity.Plan) []dto.PlanResponse {
	responses := make([]dto.PlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = dto.PlanResponse{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		}
	}
	return responses
}
