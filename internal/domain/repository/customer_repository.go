package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, withLoans bool) ([]entity.Customer, int64, error)
	ListAll(ctx context.Context) ([]entity.Customer, error)
	// IncreaseLoan adds amount to the balance in one statement. It returns
	// false when the customer does not exist.
	IncreaseLoan(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
	// DecreaseLoan subtracts amount from the balance, stopping at zero.
	DecreaseLoan(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
	AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) (bool, error)
}

// LoanTransactionRepository stores the append-only loan ledger
type LoanTransactionRepository interface {
	Create(ctx context.Context, txn *entity.LoanTransaction) error
	// ListByCustomer returns the customer's ledger, newest first
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.LoanTransaction, error)
}
