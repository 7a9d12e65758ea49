package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return dbFrom(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := dbFrom(ctx, r.db).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

// Update writes contact fields only. Balances and points change through
// the dedicated atomic methods.
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return dbFrom(ctx, r.db).Model(customer).
		Select("name", "phone", "email", "address").
		Updates(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, withLoans bool) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Scopes(SearchScope(search, "name", "phone", "email"))
	if withLoans {
		query = query.Where("loan_balance > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := dbFrom(ctx, r.db).Order("name ASC").Find(&customers).Error
	return customers, err
}

// IncreaseLoan runs UPDATE customers SET loan_balance = loan_balance + ?
func (r *customerRepository) IncreaseLoan(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("loan_balance", gorm.Expr("loan_balance + ?", amount))
	return result.RowsAffected > 0, result.Error
}

// DecreaseLoan clamps at zero inside the UPDATE so concurrent payments
// cannot drive the balance negative or lose each other's writes.
func (r *customerRepository) DecreaseLoan(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("loan_balance", gorm.Expr("CASE WHEN loan_balance > ? THEN loan_balance - ? ELSE 0 END", amount, amount))
	return result.RowsAffected > 0, result.Error
}

func (r *customerRepository) AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("loyalty_points", gorm.Expr("loyalty_points + ?", points))
	return result.RowsAffected > 0, result.Error
}

type loanTransactionRepository struct {
	db *gorm.DB
}

// NewLoanTransactionRepository creates a new loan ledger repository
func NewLoanTransactionRepository(db *gorm.DB) domainRepo.LoanTransactionRepository {
	return &loanTransactionRepository{db: db}
}

func (r *loanTransactionRepository) Create(ctx context.Context, txn *entity.LoanTransaction) error {
	return dbFrom(ctx, r.db).Create(txn).Error
}

func (r *loanTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.LoanTransaction, error) {
	var txns []entity.LoanTransaction
	err := dbFrom(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}
