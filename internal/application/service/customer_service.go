package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CustomerService handles customers and their loan ledger
type CustomerService struct {
	tx           repository.Transactor
	customerRepo repository.CustomerRepository
	loanRepo     repository.LoanTransactionRepository
	events       ChangePublisher
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	tx repository.Transactor,
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanTransactionRepository,
	events ChangePublisher,
) *CustomerService {
	return &CustomerService{
		tx:           tx,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		events:       publisherOrNoop(events),
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// CreateCustomer creates a customer with no points and no balance
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}

	customer := &entity.Customer{
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.TrimSpace(input.Email),
		Address:     strings.TrimSpace(input.Address),
		LoanBalance: decimal.Zero,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.events.Inserted(TableCustomers, *customer)
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search. withLoans keeps only
// customers with an outstanding balance.
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string, withLoans bool) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	customers, total, err := s.customerRepo.List(ctx, params, search, withLoans)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(customers, params, total), nil
}

// UpdateCustomerInput represents the update customer input. Points and
// balance only move through the ledger operations.
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// UpdateCustomer updates a customer's contact details
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.events.Updated(TableCustomers, *customer)
	return customer, nil
}

// DeleteCustomer deletes a customer. Sales that named them keep the id.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Deleted(TableCustomers, id)
	return nil
}

// LoanInput is an amount posted to a customer's ledger
type LoanInput struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Description *string
}

// PaymentInput is a repayment against a customer's loan
type PaymentInput struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Description *string
	// RejectOverpayment fails payments above the balance instead of
	// clamping the balance at zero.
	RejectOverpayment bool
}

// AddLoan increases the customer's balance and records a loan entry
func (s *CustomerService) AddLoan(ctx context.Context, input *LoanInput) (*entity.Customer, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	var entry *entity.LoanTransaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = postLedgerEntry(ctx, s.customerRepo, s.loanRepo, input.CustomerID, enum.LoanTransactionLoan, input.Amount, input.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.afterLedgerEntry(ctx, entry)
}

// PayLoan decreases the customer's balance, never below zero, and records
// a payment entry for the amount paid
func (s *CustomerService) PayLoan(ctx context.Context, input *PaymentInput) (*entity.Customer, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	var entry *entity.LoanTransaction
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.RejectOverpayment {
			customer, err := s.GetCustomer(ctx, input.CustomerID)
			if err != nil {
				return err
			}
			if input.Amount.GreaterThan(customer.LoanBalance) {
				return apperror.ErrPaymentExceedsLoan
			}
		}

		var err error
		entry, err = postLedgerEntry(ctx, s.customerRepo, s.loanRepo, input.CustomerID, enum.LoanTransactionPayment, input.Amount, input.Description)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.afterLedgerEntry(ctx, entry)
}

// AddLoyaltyPoints adds points to the customer's running total
func (s *CustomerService) AddLoyaltyPoints(ctx context.Context, id uuid.UUID, points int) (*entity.Customer, error) {
	if points <= 0 {
		return nil, apperror.NewFieldError("points", "Points must be greater than zero")
	}

	ok, err := s.customerRepo.AddLoyaltyPoints(ctx, id, points)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}

	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Updated(TableCustomers, *customer)
	return customer, nil
}

// LoanHistory returns the customer's ledger, newest first
func (s *CustomerService) LoanHistory(ctx context.Context, id uuid.UUID) ([]entity.LoanTransaction, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.loanRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []entity.LoanTransaction{}
	}
	return history, nil
}

func (s *CustomerService) afterLedgerEntry(ctx context.Context, entry *entity.LoanTransaction) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, entry.CustomerID)
	if err != nil {
		return nil, err
	}
	s.events.Inserted(TableLoanHistory, *entry)
	s.events.Updated(TableCustomers, *customer)
	return customer, nil
}

// postLedgerEntry moves the balance and appends the matching history row.
// Callers run it inside a transaction so both land or neither does.
func postLedgerEntry(
	ctx context.Context,
	customers repository.CustomerRepository,
	loans repository.LoanTransactionRepository,
	customerID uuid.UUID,
	kind enum.LoanTransactionType,
	amount decimal.Decimal,
	description *string,
) (*entity.LoanTransaction, error) {
	amount = amount.Round(2)

	var (
		ok  bool
		err error
	)
	switch kind {
	case enum.LoanTransactionLoan:
		ok, err = customers.IncreaseLoan(ctx, customerID, amount)
	case enum.LoanTransactionPayment:
		ok, err = customers.DecreaseLoan(ctx, customerID, amount)
	default:
		return nil, apperror.NewFieldError("type", "Unknown loan transaction type")
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}

	entry := &entity.LoanTransaction{
		CustomerID:  customerID,
		Type:        kind,
		Amount:      amount,
		Description: description,
	}
	if err := loans.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
