package cart

import (
	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Catalog looks up the current state of a product
type Catalog map[uuid.UUID]entity.Product

// NewCatalog indexes products by id
func NewCatalog(products []entity.Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

// Line issues found while pricing. A cart with any issue can still be
// shown and edited but cannot be checked out.
const (
	IssueUnknownProduct    = "unknown_product"
	IssueInsufficientStock = "insufficient_stock"
)

// PricedLine is a cart line with its prices resolved against the catalog
type PricedLine struct {
	Line
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	FinalUnitPrice decimal.Decimal `json:"final_unit_price"`
	Total          decimal.Decimal `json:"total"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	Available      int             `json:"available"`
	Issue          string          `json:"issue,omitempty"`
}

// Quote is a fully priced cart
type Quote struct {
	Lines      []PricedLine    `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	LoanAmount decimal.Decimal `json:"loan_amount"`
	Blocked    bool            `json:"blocked"`
}

// Payment is the cash side of a checkout
type Payment struct {
	Total        decimal.Decimal `json:"total"`
	CashReceived decimal.Decimal `json:"cash_received"`
	Change       decimal.Decimal `json:"change"`
}

// FinalUnitPrice applies a percentage discount to a unit price
func FinalUnitPrice(price, discount decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(discount).Div(hundred)
	return price.Mul(factor).Round(2)
}

// Price resolves every line against the catalog. For a loan-flagged line
// the loan amount is the discount given on that line,
// (unitPrice - finalUnitPrice) * quantity; the cash total always uses the
// discounted price. Lines whose product is gone or whose quantity exceeds
// current stock are flagged with an Issue rather than failing the quote;
// unknown products add nothing to the totals.
func (c *Cart) Price(catalog Catalog) *Quote {
	q := &Quote{
		Lines:      make([]PricedLine, 0, len(c.lines)),
		Total:      decimal.Zero,
		LoanAmount: decimal.Zero,
	}

	for _, line := range c.lines {
		p, ok := catalog[line.ProductID]
		if !ok {
			q.Lines = append(q.Lines, PricedLine{
				Line:           line,
				UnitPrice:      decimal.Zero,
				FinalUnitPrice: decimal.Zero,
				Total:          decimal.Zero,
				LoanAmount:     decimal.Zero,
				Issue:          IssueUnknownProduct,
			})
			q.Blocked = true
			continue
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		final := FinalUnitPrice(p.SellingPrice, line.Discount)
		pl := PricedLine{
			Line:           line,
			Name:           p.Name,
			UnitPrice:      p.SellingPrice,
			FinalUnitPrice: final,
			Total:          final.Mul(qty),
			LoanAmount:     decimal.Zero,
			Available:      p.Pieces,
		}
		if line.UseLoan {
			pl.LoanAmount = p.SellingPrice.Sub(final).Mul(qty)
		}
		if line.Quantity > p.Pieces {
			pl.Issue = IssueInsufficientStock
			q.Blocked = true
		}

		q.Lines = append(q.Lines, pl)
		q.Total = q.Total.Add(pl.Total)
		q.LoanAmount = q.LoanAmount.Add(pl.LoanAmount)
	}

	return q
}

// Checkout validates the cart and the cash received against the total
func (q *Quote) Checkout(cashReceived decimal.Decimal) (Payment, error) {
	if len(q.Lines) == 0 {
		return Payment{}, apperror.ErrEmptyCart
	}
	for _, l := range q.Lines {
		switch l.Issue {
		case IssueUnknownProduct:
			return Payment{}, ErrUnknownProduct
		case IssueInsufficientStock:
			return Payment{}, apperror.ErrInsufficientStock
		}
	}
	if cashReceived.LessThan(q.Total) {
		return Payment{}, apperror.ErrInsufficientCash
	}
	return Payment{
		Total:        q.Total,
		CashReceived: cashReceived,
		Change:       cashReceived.Sub(q.Total),
	}, nil
}
