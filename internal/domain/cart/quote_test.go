package cart

import (
	"errors"
	"testing"

	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

func addN(t *testing.T, c *Cart, p *entity.Product, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := c.AddLine(p); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
}

func TestPriceSingleDiscountedLine(t *testing.T) {
	p := product("Itel A70", 10000, 5)
	c := New()
	addN(t, c, &p, 2)
	if err := c.SetDiscount(p.ID, dec(10)); err != nil {
		t.Fatal(err)
	}

	q := c.Price(NewCatalog([]entity.Product{p}))
	if !q.Total.Equal(dec(18000)) {
		t.Fatalf("total = %s, want 18000", q.Total)
	}
	if !q.Lines[0].FinalUnitPrice.Equal(dec(9000)) {
		t.Fatalf("final unit price = %s, want 9000", q.Lines[0].FinalUnitPrice)
	}
}

func TestPriceTwoLines(t *testing.T) {
	a := product("A", 100000, 3)
	b := product("B", 50000, 3)
	c := New()
	addN(t, c, &a, 1)
	addN(t, c, &b, 2)
	_ = c.SetDiscount(b.ID, dec(20))

	q := c.Price(NewCatalog([]entity.Product{a, b}))
	if !q.Total.Equal(dec(180000)) {
		t.Fatalf("total = %s, want 180000", q.Total)
	}
	if !q.LoanAmount.IsZero() {
		t.Fatalf("loan amount = %s, want 0", q.LoanAmount)
	}
}

func TestPriceLoanPostsDiscountDelta(t *testing.T) {
	a := product("A", 100000, 3)
	b := product("B", 50000, 3)
	c := New()
	addN(t, c, &a, 1)
	addN(t, c, &b, 2)
	_ = c.SetDiscount(a.ID, dec(10))
	_ = c.SetUseLoan(a.ID, true)
	_ = c.SetDiscount(b.ID, dec(20))

	q := c.Price(NewCatalog([]entity.Product{a, b}))
	// A: 90,000 cash + 10,000 loan. B: 80,000 cash, no loan flag.
	if !q.Total.Equal(dec(170000)) {
		t.Fatalf("total = %s, want 170000", q.Total)
	}
	if !q.LoanAmount.Equal(dec(10000)) {
		t.Fatalf("loan amount = %s, want 10000", q.LoanAmount)
	}
}

func TestPriceFlagsMissingOrShrunkStock(t *testing.T) {
	p := product("A", 100, 3)
	other := product("B", 50, 4)
	c := New()
	addN(t, c, &p, 3)
	addN(t, c, &other, 1)

	q := c.Price(NewCatalog([]entity.Product{other}))
	if !q.Blocked || q.Lines[0].Issue != IssueUnknownProduct {
		t.Fatalf("missing product: blocked = %v issue = %q", q.Blocked, q.Lines[0].Issue)
	}
	if !q.Total.Equal(dec(50)) {
		t.Errorf("total = %s, want only the known line", q.Total)
	}
	if _, err := q.Checkout(dec(1000)); !errors.Is(err, ErrUnknownProduct) {
		t.Fatalf("checkout err = %v, want unknown product", err)
	}

	shrunk := p
	shrunk.Pieces = 2
	q = c.Price(NewCatalog([]entity.Product{shrunk, other}))
	if !q.Blocked || q.Lines[0].Issue != IssueInsufficientStock || q.Lines[0].Available != 2 {
		t.Fatalf("shrunk stock: blocked = %v line = %+v", q.Blocked, q.Lines[0])
	}
	if q.Lines[1].Issue != "" {
		t.Errorf("healthy line flagged %q", q.Lines[1].Issue)
	}
	if _, err := q.Checkout(dec(1000)); !errors.Is(err, apperror.ErrInsufficientStock) {
		t.Fatalf("checkout err = %v, want insufficient stock", err)
	}
}

func TestCheckout(t *testing.T) {
	p := product("A", 10000, 5)
	c := New()
	addN(t, c, &p, 2)
	q := c.Price(NewCatalog([]entity.Product{p}))

	if _, err := q.Checkout(dec(19999)); !errors.Is(err, apperror.ErrInsufficientCash) {
		t.Fatalf("err = %v, want insufficient cash", err)
	}

	pay, err := q.Checkout(dec(20000))
	if err != nil {
		t.Fatal(err)
	}
	if !pay.Change.IsZero() {
		t.Fatalf("change = %s, want 0", pay.Change)
	}

	pay, err = q.Checkout(dec(25500))
	if err != nil {
		t.Fatal(err)
	}
	if !pay.Change.Equal(dec(5500)) {
		t.Fatalf("change = %s, want 5500", pay.Change)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	q := New().Price(Catalog{})
	if _, err := q.Checkout(decimal.NewFromInt(1000)); !errors.Is(err, apperror.ErrEmptyCart) {
		t.Fatalf("err = %v, want empty cart", err)
	}
}

func TestFinalUnitPrice(t *testing.T) {
	tests := []struct {
		price, pct int64
		want       string
	}{
		{10000, 0, "10000"},
		{10000, 100, "0"},
		{10000, 15, "8500"},
		{999, 33, "669.33"},
	}
	for _, tt := range tests {
		got := FinalUnitPrice(dec(tt.price), dec(tt.pct))
		want, _ := decimal.NewFromString(tt.want)
		if !got.Equal(want) {
			t.Errorf("FinalUnitPrice(%d, %d) = %s, want %s", tt.price, tt.pct, got, tt.want)
		}
	}
}
