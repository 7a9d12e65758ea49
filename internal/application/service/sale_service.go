package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/cart"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaleService runs the cashier's cart and turns it into sales. Each user
// has one in-memory cart; carts are not persisted.
type SaleService struct {
	tx           repository.Transactor
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	loanRepo     repository.LoanTransactionRepository
	saleRepo     repository.SaleRepository
	events       ChangePublisher

	mu        sync.Mutex
	carts     map[uuid.UUID]*cart.Cart
	checkouts map[uuid.UUID]struct{}
}

// NewSaleService creates a new sale service
func NewSaleService(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	loanRepo repository.LoanTransactionRepository,
	saleRepo repository.SaleRepository,
	events ChangePublisher,
) *SaleService {
	return &SaleService{
		tx:           tx,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		saleRepo:     saleRepo,
		events:       publisherOrNoop(events),
		carts:        make(map[uuid.UUID]*cart.Cart),
		checkouts:    make(map[uuid.UUID]struct{}),
	}
}

// cartFor returns the user's cart, creating it. Callers hold s.mu.
func (s *SaleService) cartFor(userID uuid.UUID) *cart.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = cart.New()
		s.carts[userID] = c
	}
	return c
}

func (s *SaleService) snapshot(userID uuid.UUID) []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartFor(userID).Lines()
}

// mutate edits the user's cart. A cart being checked out is frozen.
func (s *SaleService) mutate(userID uuid.UUID, fn func(c *cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.checkouts[userID]; busy {
		return apperror.ErrCheckoutInProgress
	}
	return fn(s.cartFor(userID))
}

// beginCheckout claims the user's cart for one checkout and returns its
// lines. A second checkout while the first is running is rejected.
func (s *SaleService) beginCheckout(userID uuid.UUID) ([]cart.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.checkouts[userID]; busy {
		return nil, apperror.ErrCheckoutInProgress
	}
	lines := s.cartFor(userID).Lines()
	if len(lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	s.checkouts[userID] = struct{}{}
	return lines, nil
}

// endCheckout releases the cart, emptying it when the sale was stored
func (s *SaleService) endCheckout(userID uuid.UUID, sold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkouts, userID)
	if sold {
		delete(s.carts, userID)
	}
}

// AddToCart adds one piece of a product to the user's cart
func (s *SaleService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*cart.Quote, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.mutate(userID, func(c *cart.Cart) error { return c.AddLine(product) }); err != nil {
		return nil, err
	}
	return s.Quote(ctx, userID)
}

// RemoveFromCart takes one piece of a product out of the user's cart
func (s *SaleService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*cart.Quote, error) {
	if err := s.mutate(userID, func(c *cart.Cart) error { return c.RemoveLine(productID) }); err != nil {
		return nil, err
	}
	return s.Quote(ctx, userID)
}

// SetLineDiscount sets the discount percentage on a cart line
func (s *SaleService) SetLineDiscount(ctx context.Context, userID, productID uuid.UUID, pct decimal.Decimal) (*cart.Quote, error) {
	if err := s.mutate(userID, func(c *cart.Cart) error { return c.SetDiscount(productID, pct) }); err != nil {
		return nil, err
	}
	return s.Quote(ctx, userID)
}

// SetLineLoan flags a cart line so its discount is charged to the customer
func (s *SaleService) SetLineLoan(ctx context.Context, userID, productID uuid.UUID, useLoan bool) (*cart.Quote, error) {
	if err := s.mutate(userID, func(c *cart.Cart) error { return c.SetUseLoan(productID, useLoan) }); err != nil {
		return nil, err
	}
	return s.Quote(ctx, userID)
}

// ClearCart empties the user's cart unless it is being checked out
func (s *SaleService) ClearCart(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.checkouts[userID]; busy {
		return apperror.ErrCheckoutInProgress
	}
	delete(s.carts, userID)
	return nil
}

// Quote prices the user's cart against current product data
func (s *SaleService) Quote(ctx context.Context, userID uuid.UUID) (*cart.Quote, error) {
	return s.price(ctx, s.snapshot(userID))
}

func (s *SaleService) price(ctx context.Context, lines []cart.Line) (*cart.Quote, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	var products []entity.Product
	if len(ids) > 0 {
		var err error
		products, err = s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	return cart.FromLines(lines).Price(cart.NewCatalog(products)), nil
}

// CompleteSaleInput represents the checkout input
type CompleteSaleInput struct {
	UserID       uuid.UUID
	CashReceived decimal.Decimal
	CustomerID   *uuid.UUID
	CustomerName *string
	Signature    *string
	Description  *string
}

// CompleteSale checks out the user's cart. Loan posting, stock decrement
// and the sale record commit together; on any failure nothing is written
// and the cart is left as it was. The cart is frozen while the checkout
// runs, so one cart becomes at most one sale.
func (s *SaleService) CompleteSale(ctx context.Context, input *CompleteSaleInput) (sale *entity.Sale, err error) {
	lines, err := s.beginCheckout(input.UserID)
	if err != nil {
		return nil, err
	}
	defer func() { s.endCheckout(input.UserID, err == nil) }()

	quote, err := s.price(ctx, lines)
	if err != nil {
		return nil, err
	}
	payment, err := quote.Checkout(input.CashReceived.Round(2))
	if err != nil {
		return nil, err
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	userID := input.UserID
	sale = &entity.Sale{
		ID:           uuid.New(),
		UserID:       &userID,
		Total:        payment.Total,
		CashReceived: payment.CashReceived,
		Change:       payment.Change,
		LoanAmount:   decimal.Zero,
		CustomerName: trimmed(input.CustomerName),
		Signature:    trimmed(input.Signature),
		Description:  trimmed(input.Description),
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
		if sale.CustomerName == nil {
			name := customer.Name
			sale.CustomerName = &name
		}
		sale.LoanAmount = quote.LoanAmount
	}

	decrements := make(map[uuid.UUID]int, len(quote.Lines))
	for _, l := range quote.Lines {
		decrements[l.ProductID] += l.Quantity
		sale.Items = append(sale.Items, entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.FinalUnitPrice,
		})
	}

	var loanEntry *entity.LoanTransaction
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if sale.LoanAmount.IsPositive() {
			desc := "Loan from sale " + utils.ReceiptNumber(sale.ID)
			entry, err := postLedgerEntry(ctx, s.customerRepo, s.loanRepo, customer.ID, enum.LoanTransactionLoan, sale.LoanAmount, &desc)
			if err != nil {
				return err
			}
			loanEntry = entry
		}

		failed, err := s.productRepo.DecrementBatch(ctx, decrements)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return apperror.ErrInsufficientStock
		}

		return s.saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.announceSale(ctx, sale, loanEntry, decrements)
	return sale, nil
}

func (s *SaleService) announceSale(ctx context.Context, sale *entity.Sale, loanEntry *entity.LoanTransaction, decrements map[uuid.UUID]int) {
	s.events.Inserted(TableSales, *sale)

	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	if products, err := s.productRepo.GetByIDs(ctx, ids); err == nil {
		for i := range products {
			s.events.Updated(TableProducts, products[i])
		}
	}

	if loanEntry != nil {
		s.events.Inserted(TableLoanHistory, *loanEntry)
		if customer, err := s.customerRepo.GetByID(ctx, loanEntry.CustomerID); err == nil && customer != nil {
			s.events.Updated(TableCustomers, *customer)
		}
	}
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales, newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, apperror.NewFieldError("end_date", "End date must not be before start date")
	}

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(sales, params.Pagination, total), nil
}

// ListSalesBetween returns every sale created in [from, to] with items
func (s *SaleService) ListSalesBetween(ctx context.Context, from, to time.Time) ([]entity.Sale, error) {
	return s.saleRepo.ListBetween(ctx, from, to)
}

// UpdateSaleDetailsInput holds the receipt fields editable after checkout
type UpdateSaleDetailsInput struct {
	SaleID       uuid.UUID
	CustomerName *string
	Signature    *string
	Description  *string
}

// UpdateSaleDetails edits the customer name, signature or description of
// a completed sale. Amounts and items never change.
func (s *SaleService) UpdateSaleDetails(ctx context.Context, input *UpdateSaleDetailsInput) (*entity.Sale, error) {
	if _, err := s.GetSale(ctx, input.SaleID); err != nil {
		return nil, err
	}

	details := repository.SaleDetails{
		CustomerName: input.CustomerName,
		Signature:    input.Signature,
		Description:  input.Description,
	}
	if err := s.saleRepo.UpdateDetails(ctx, input.SaleID, details); err != nil {
		return nil, err
	}

	sale, err := s.GetSale(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	s.events.Updated(TableSales, *sale)
	return sale, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
