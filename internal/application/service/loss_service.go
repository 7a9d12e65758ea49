package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// LossService records stock written off. Recording a loss does not move
// stock; the cashier adjusts pieces separately.
type LossService struct {
	lossRepo    repository.LossRepository
	productRepo repository.ProductRepository
	events      ChangePublisher
}

// NewLossService creates a new loss service
func NewLossService(lossRepo repository.LossRepository, productRepo repository.ProductRepository, events ChangePublisher) *LossService {
	return &LossService{
		lossRepo:    lossRepo,
		productRepo: productRepo,
		events:      publisherOrNoop(events),
	}
}

// CreateLossInput represents the create loss input. A nil LossValue is
// computed as buying price times quantity.
type CreateLossInput struct {
	ProductID   uuid.UUID
	Quantity    int
	Reason      string
	Description *string
	LossValue   *decimal.Decimal
}

// CreateLoss records a loss against a product
func (s *LossService) CreateLoss(ctx context.Context, input *CreateLossInput) (*entity.Loss, error) {
	var errs []apperror.FieldError
	if input.Quantity <= 0 {
		errs = append(errs, apperror.FieldError{Field: "quantity", Message: "Quantity must be greater than zero"})
	}
	if strings.TrimSpace(input.Reason) == "" {
		errs = append(errs, apperror.FieldError{Field: "reason", Message: "Reason is required"})
	}
	if input.LossValue != nil && input.LossValue.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "loss_value", Message: "Loss value cannot be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	loss := &entity.Loss{
		ProductID:   product.ID,
		Quantity:    input.Quantity,
		Reason:      strings.TrimSpace(input.Reason),
		Description: trimmed(input.Description),
	}
	if input.LossValue != nil {
		loss.LossValue = input.LossValue.Round(2)
	} else {
		loss.LossValue = product.BuyingPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	}

	if err := s.lossRepo.Create(ctx, loss); err != nil {
		return nil, err
	}
	loss.Product = product

	s.events.Inserted(TableLosses, *loss)
	return loss, nil
}

// GetLoss retrieves a loss by ID
func (s *LossService) GetLoss(ctx context.Context, id uuid.UUID) (*entity.Loss, error) {
	loss, err := s.lossRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loss == nil {
		return nil, apperror.NewNotFoundError("Loss")
	}
	return loss, nil
}

// ListLosses lists losses, optionally for one reason
func (s *LossService) ListLosses(ctx context.Context, params *pagination.PaginationParams, reason string) (*pagination.PaginatedResult[entity.Loss], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	losses, total, err := s.lossRepo.List(ctx, params, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(losses, params, total), nil
}

// UpdateLossInput represents the update loss input
type UpdateLossInput struct {
	ID          uuid.UUID
	Quantity    *int
	Reason      *string
	Description *string
	LossValue   *decimal.Decimal
}

// UpdateLoss edits a recorded loss
func (s *LossService) UpdateLoss(ctx context.Context, input *UpdateLossInput) (*entity.Loss, error) {
	loss, err := s.GetLoss(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, apperror.NewFieldError("quantity", "Quantity must be greater than zero")
		}
		loss.Quantity = *input.Quantity
	}
	if input.Reason != nil {
		if strings.TrimSpace(*input.Reason) == "" {
			return nil, apperror.NewFieldError("reason", "Reason is required")
		}
		loss.Reason = strings.TrimSpace(*input.Reason)
	}
	if input.Description != nil {
		loss.Description = trimmed(input.Description)
	}
	if input.LossValue != nil {
		if input.LossValue.IsNegative() {
			return nil, apperror.NewFieldError("loss_value", "Loss value cannot be negative")
		}
		loss.LossValue = input.LossValue.Round(2)
	}

	if err := s.lossRepo.Update(ctx, loss); err != nil {
		return nil, err
	}

	s.events.Updated(TableLosses, *loss)
	return loss, nil
}

// DeleteLoss deletes a recorded loss
func (s *LossService) DeleteLoss(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLoss(ctx, id); err != nil {
		return err
	}
	if err := s.lossRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Deleted(TableLosses, id)
	return nil
}
