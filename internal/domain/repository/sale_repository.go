package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Create stores the sale header and its items together
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListBetween returns the sales created in [from, to] with items loaded
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Sale, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, details SaleDetails) error
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SaleDetails are the receipt fields that stay editable after a sale
type SaleDetails struct {
	CustomerName *string
	Signature    *string
	Description  *string
}
