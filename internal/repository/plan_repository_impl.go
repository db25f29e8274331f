package repository

import (
	"context"
	"errors"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"gorm.io/gorm"
)

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) domainRepo.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) FindAll(ctx context.Context) ([]entity.Plan, error) {
	var plans []entity.Plan
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) FindByName(ctx context.Context, name string) (*entity.Plan, error) {
	var plan entity.Plan
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}
