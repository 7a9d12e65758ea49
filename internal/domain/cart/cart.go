// Package cart prices a cashier's in-progress sale. It holds no storage
// and no locks; callers own a Cart for the length of one session.
package cart

import (
	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ErrLineNotFound is returned when a line operation names a product
	// that is not in the cart.
	ErrLineNotFound = apperror.NewNotFoundError("Cart line")
	// ErrUnknownProduct is returned when checking out a line whose product is
	// no longer in the catalog.
	ErrUnknownProduct = apperror.NewBadRequestError("Product in cart no longer exists")
)

// Line is one product in the cart
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	UseLoan   bool            `json:"use_loan"`
}

// Cart is an ordered set of lines, at most one per product
type Cart struct {
	lines []Line
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from a snapshot taken with Lines
func FromLines(lines []Line) *Cart {
	c := &Cart{lines: make([]Line, len(lines))}
	copy(c.lines, lines)
	return c
}

// Lines returns a copy of the cart lines in the order they were added
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Quantity returns how many pieces of a product are in the cart
func (c *Cart) Quantity(productID uuid.UUID) int {
	if i := c.index(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) index(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine puts one more piece of p in the cart. It fails when the product
// has no stock, or when the cart already holds every piece in stock.
func (c *Cart) AddLine(p *entity.Product) error {
	if p.Pieces <= 0 {
		return apperror.ErrOutOfStock
	}

	i := c.index(p.ID)
	if i < 0 {
		c.lines = append(c.lines, Line{ProductID: p.ID, Quantity: 1, Discount: decimal.Zero})
		return nil
	}
	if c.lines[i].Quantity >= p.Pieces {
		return apperror.ErrInsufficientStock
	}
	c.lines[i].Quantity++
	return nil
}

// RemoveLine takes one piece out of the cart, dropping the line when it
// reaches zero.
func (c *Cart) RemoveLine(productID uuid.UUID) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity--
	if c.lines[i].Quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	return nil
}

// SetDiscount sets a line's discount percentage, 0 to 100 inclusive
func (c *Cart) SetDiscount(productID uuid.UUID, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return apperror.ErrInvalidDiscount
	}
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Discount = pct
	return nil
}

// SetUseLoan flags a line to have its discount charged to the customer's loan
func (c *Cart) SetUseLoan(productID uuid.UUID, useLoan bool) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].UseLoan = useLoan
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}
