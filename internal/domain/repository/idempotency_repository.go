package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
)

// IdempotencyRepository stores replayable checkout responses
type IdempotencyRepository interface {
	// GetByKey returns the stored response for a user's key, or nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired keys and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
