package repository

import (
	"context"

	"mediconnect/internal/domain/entity"
)

type PlanRepository interface {
	FindAll(ctx context.Context) ([]entity.Plan, error)
	FindByName(ctx context.Context, name string) (*entity.Plan, error)
}
