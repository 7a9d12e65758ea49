package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
)

// LossRepository defines the interface for loss data operations
type LossRepository interface {
	Create(ctx context.Context, loss *entity.Loss) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Loss, error)
	Update(ctx context.Context, loss *entity.Loss) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, reason string) ([]entity.Loss, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Loss, error)
}
