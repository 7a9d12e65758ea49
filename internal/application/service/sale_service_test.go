package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/cart"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
)

type saleFixture struct {
	svc       *SaleService
	products  *fakeProducts
	customers *fakeCustomers
	loans     *fakeLoans
	sales     *fakeSales
	events    *recorder
	phone     entity.Product
	cover     entity.Product
	customer  entity.Customer
	user      uuid.UUID
}

func newSaleFixture() *saleFixture {
	f := &saleFixture{
		phone: entity.Product{
			ID: uuid.New(), Name: "Galaxy A15", SellingPrice: money("200000"),
			BuyingPrice: money("150000"), Pieces: 5, LowStockAlert: 1,
		},
		cover: entity.Product{
			ID: uuid.New(), Name: "Phone case", SellingPrice: money("10000"),
			BuyingPrice: money("4000"), Pieces: 2,
		},
		customer: entity.Customer{ID: uuid.New(), Name: "Asha", LoanBalance: money("0")},
		user:     uuid.New(),
		loans:    &fakeLoans{},
		events:   &recorder{},
	}
	f.products = newFakeProducts(f.phone, f.cover)
	f.customers = newFakeCustomers(f.customer)
	f.sales = newFakeSales(f.products)
	f.svc = NewSaleService(&fakeTransactor{}, f.products, f.customers, f.loans, f.sales, f.events)
	return f
}

func TestAddToCartRespectsStock(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.AddToCart(ctx, f.user, f.cover.ID); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if _, err := f.svc.AddToCart(ctx, f.user, f.cover.ID); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("third add = %v, want ErrInsufficientStock", err)
	}

	if _, err := f.svc.AddToCart(ctx, f.user, uuid.New()); err == nil {
		t.Fatal("adding an unknown product should fail")
	}
}

func TestCartsArePerUser(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()
	other := uuid.New()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}
	q, err := f.svc.Quote(ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Lines) != 0 {
		t.Fatalf("other user's cart has %d lines", len(q.Lines))
	}
}

func TestQuoteAppliesDiscount(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}
	q, err := f.svc.SetLineDiscount(ctx, f.user, f.phone.ID, money("10"))
	if err != nil {
		t.Fatal(err)
	}
	if !q.Total.Equal(money("180000")) {
		t.Fatalf("total = %s, want 180000", q.Total)
	}

	if _, err := f.svc.SetLineDiscount(ctx, f.user, f.phone.ID, money("101")); !errors.Is(err, apperror.ErrInvalidDiscount) {
		t.Fatalf("discount 101 = %v, want ErrInvalidDiscount", err)
	}
}

func TestCompleteSaleWithLoan(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetLineDiscount(ctx, f.user, f.phone.ID, money("5")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetLineLoan(ctx, f.user, f.phone.ID, true); err != nil {
		t.Fatal(err)
	}

	sale, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{
		UserID:       f.user,
		CashReceived: money("200000"),
		CustomerID:   &f.customer.ID,
	})
	if err != nil {
		t.Fatalf("CompleteSale: %v", err)
	}

	if !sale.Total.Equal(money("190000")) {
		t.Errorf("total = %s, want 190000", sale.Total)
	}
	if !sale.Change.Equal(money("10000")) {
		t.Errorf("change = %s, want 10000", sale.Change)
	}
	if !sale.LoanAmount.Equal(money("10000")) {
		t.Errorf("loan = %s, want 10000", sale.LoanAmount)
	}
	if sale.CustomerName == nil || *sale.CustomerName != "Asha" {
		t.Errorf("customer name = %v, want Asha", sale.CustomerName)
	}
	if len(sale.Items) != 1 || !sale.Items[0].Price.Equal(money("190000")) {
		t.Errorf("items = %+v", sale.Items)
	}

	if got := f.products.pieces(f.phone.ID); got != 4 {
		t.Errorf("pieces = %d, want 4", got)
	}
	c, _ := f.customers.GetByID(ctx, f.customer.ID)
	if !c.LoanBalance.Equal(money("10000")) {
		t.Errorf("loan balance = %s, want 10000", c.LoanBalance)
	}
	history, _ := f.loans.ListByCustomer(ctx, f.customer.ID)
	if len(history) != 1 || history[0].Type != enum.LoanTransactionLoan {
		t.Errorf("history = %+v", history)
	}

	q, _ := f.svc.Quote(ctx, f.user)
	if len(q.Lines) != 0 {
		t.Error("cart should be cleared after checkout")
	}

	if f.events.count(TableSales, realtime.Insert) != 1 {
		t.Error("sale insert not published")
	}
	if f.events.count(TableProducts, realtime.Update) != 1 {
		t.Error("product update not published")
	}
	if f.events.count(TableCustomers, realtime.Update) != 1 {
		t.Error("customer update not published")
	}
}

func TestCompleteSaleWithoutCustomerPostsNoLoan(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetLineDiscount(ctx, f.user, f.phone.ID, money("10")); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetLineLoan(ctx, f.user, f.phone.ID, true); err != nil {
		t.Fatal(err)
	}

	sale, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("180000")})
	if err != nil {
		t.Fatal(err)
	}
	if !sale.LoanAmount.IsZero() {
		t.Errorf("loan = %s, want 0", sale.LoanAmount)
	}
	if !sale.Change.IsZero() {
		t.Errorf("change = %s, want 0", sale.Change)
	}
	if len(f.loans.entries) != 0 {
		t.Errorf("ledger has %d entries, want 0", len(f.loans.entries))
	}
}

func TestCompleteSaleFailuresKeepCart(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(f *saleFixture) *CompleteSaleInput
		wantErr error
	}{
		{
			name: "empty cart",
			prepare: func(f *saleFixture) *CompleteSaleInput {
				return &CompleteSaleInput{UserID: uuid.New(), CashReceived: money("1")}
			},
			wantErr: apperror.ErrEmptyCart,
		},
		{
			name: "insufficient cash",
			prepare: func(f *saleFixture) *CompleteSaleInput {
				return &CompleteSaleInput{UserID: f.user, CashReceived: money("199999")}
			},
			wantErr: apperror.ErrInsufficientCash,
		},
		{
			name: "stock sold elsewhere",
			prepare: func(f *saleFixture) *CompleteSaleInput {
				_ = f.products.UpdatePieces(ctx, f.phone.ID, 0)
				return &CompleteSaleInput{UserID: f.user, CashReceived: money("200000")}
			},
			wantErr: apperror.ErrInsufficientStock,
		},
		{
			name: "store failure",
			prepare: func(f *saleFixture) *CompleteSaleInput {
				f.sales.failWith = errors.New("connection reset")
				return &CompleteSaleInput{UserID: f.user, CashReceived: money("200000")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture()
			if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
				t.Fatal(err)
			}

			_, err := f.svc.CompleteSale(ctx, tt.prepare(f))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if f.sales.count() != 0 {
				t.Error("no sale should be stored")
			}
			if len(f.svc.snapshot(f.user)) != 1 {
				t.Error("cart should be left intact")
			}
		})
	}
}

func TestConcurrentCheckoutSellsCartOnce(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.sales.beforeCreate = func() {
		once.Do(func() { close(entered) })
		<-release
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("200000")})
		firstErr <- err
	}()
	<-entered

	if _, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("200000")}); !errors.Is(err, apperror.ErrCheckoutInProgress) {
		t.Errorf("second checkout = %v, want ErrCheckoutInProgress", err)
	}
	if _, err := f.svc.AddToCart(ctx, f.user, f.cover.ID); !errors.Is(err, apperror.ErrCheckoutInProgress) {
		t.Errorf("edit during checkout = %v, want ErrCheckoutInProgress", err)
	}
	if err := f.svc.ClearCart(f.user); !errors.Is(err, apperror.ErrCheckoutInProgress) {
		t.Errorf("clear during checkout = %v, want ErrCheckoutInProgress", err)
	}

	close(release)
	if err := <-firstErr; err != nil {
		t.Fatalf("first checkout: %v", err)
	}

	if f.sales.count() != 1 {
		t.Errorf("sales = %d, want 1", f.sales.count())
	}
	if got := f.products.pieces(f.phone.ID); got != 4 {
		t.Errorf("pieces = %d, want 4", got)
	}
	if _, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("200000")}); !errors.Is(err, apperror.ErrEmptyCart) {
		t.Errorf("checkout after sale = %v, want ErrEmptyCart", err)
	}
}

func TestCartStaysUsableWhenStockDrops(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.phone.ID); err != nil {
		t.Fatal(err)
	}
	_ = f.products.UpdatePieces(ctx, f.phone.ID, 0)

	q, err := f.svc.AddToCart(ctx, f.user, f.cover.ID)
	if err != nil {
		t.Fatalf("add after stock dropped: %v", err)
	}
	if !q.Blocked || len(q.Lines) != 2 {
		t.Fatalf("quote blocked = %v lines = %d", q.Blocked, len(q.Lines))
	}
	if q.Lines[0].Issue != cart.IssueInsufficientStock || q.Lines[1].Issue != "" {
		t.Errorf("issues = %q, %q", q.Lines[0].Issue, q.Lines[1].Issue)
	}

	if _, err := f.svc.Quote(ctx, f.user); err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("300000")}); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("checkout = %v, want ErrInsufficientStock", err)
	}

	_ = f.products.Delete(ctx, f.cover.ID)
	q, err = f.svc.Quote(ctx, f.user)
	if err != nil {
		t.Fatalf("quote after delete: %v", err)
	}
	if q.Lines[1].Issue != cart.IssueUnknownProduct {
		t.Errorf("deleted product issue = %q", q.Lines[1].Issue)
	}

	for _, id := range []uuid.UUID{f.phone.ID, f.cover.ID} {
		if q, err = f.svc.RemoveFromCart(ctx, f.user, id); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	if q.Blocked || len(q.Lines) != 0 {
		t.Errorf("after removing problem lines: blocked = %v lines = %d", q.Blocked, len(q.Lines))
	}
}

func TestUpdateSaleDetails(t *testing.T) {
	f := newSaleFixture()
	ctx := context.Background()

	if _, err := f.svc.AddToCart(ctx, f.user, f.cover.ID); err != nil {
		t.Fatal(err)
	}
	sale, err := f.svc.CompleteSale(ctx, &CompleteSaleInput{UserID: f.user, CashReceived: money("10000")})
	if err != nil {
		t.Fatal(err)
	}

	sig := "J. Mwita"
	updated, err := f.svc.UpdateSaleDetails(ctx, &UpdateSaleDetailsInput{SaleID: sale.ID, Signature: &sig})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Signature == nil || *updated.Signature != sig {
		t.Errorf("signature = %v", updated.Signature)
	}
	if !updated.Total.Equal(sale.Total) {
		t.Error("total must not change")
	}

	if _, err := f.svc.UpdateSaleDetails(ctx, &UpdateSaleDetailsInput{SaleID: uuid.New()}); err == nil {
		t.Error("unknown sale should fail")
	}
}
