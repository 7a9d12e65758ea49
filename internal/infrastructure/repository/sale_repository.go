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

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts the sale and, through the Items association, every item
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return dbFrom(ctx, r.db).Omit("Items.Product").Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFrom(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Sale{}).
		Scopes(CreatedBetween(params.StartDate, params.EndDate))
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := dbFrom(ctx, r.db).
		Scopes(CreatedBetween(&from, &to)).
		Preload("Items").
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

// UpdateDetails only writes the fields that were provided
func (r *saleRepository) UpdateDetails(ctx context.Context, id uuid.UUID, details domainRepo.SaleDetails) error {
	updates := map[string]interface{}{}
	if details.CustomerName != nil {
		updates["customer_name"] = *details.CustomerName
	}
	if details.Signature != nil {
		updates["signature"] = *details.Signature
	}
	if details.Description != nil {
		updates["description"] = *details.Description
	}
	if len(updates) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ?", id).
		Updates(updates).Error
}
