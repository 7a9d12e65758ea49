package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"gorm.io/gorm"
)

type lossRepository struct {
	db *gorm.DB
}

// NewLossRepository creates a new loss repository
func NewLossRepository(db *gorm.DB) domainRepo.LossRepository {
	return &lossRepository{db: db}
}

func (r *lossRepository) Create(ctx context.Context, loss *entity.Loss) error {
	return dbFrom(ctx, r.db).Omit("Product").Create(loss).Error
}

func (r *lossRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Loss, error) {
	var loss entity.Loss
	err := dbFrom(ctx, r.db).Preload("Product").First(&loss, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &loss, err
}

func (r *lossRepository) Update(ctx context.Context, loss *entity.Loss) error {
	return dbFrom(ctx, r.db).Omit("Product").Save(loss).Error
}

func (r *lossRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Loss{}, "id = ?", id).Error
}

func (r *lossRepository) List(ctx context.Context, params *pagination.PaginationParams, reason string) ([]entity.Loss, int64, error) {
	var losses []entity.Loss
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Loss{})
	if reason != "" {
		query = query.Where("reason = ?", reason)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Product").
		Order("created_at DESC").
		Find(&losses).Error

	return losses, total, err
}

func (r *lossRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.Loss, error) {
	var losses []entity.Loss
	err := dbFrom(ctx, r.db).
		Scopes(CreatedBetween(&from, &to)).
		Order("created_at ASC").
		Find(&losses).Error
	return losses, err
}
