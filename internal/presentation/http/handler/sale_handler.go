package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
)

const dateLayout = "2006-01-02"

// SaleHandler handles the cart, checkout and sales history
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Cart returns the signed-in user's priced cart
func (h *SaleHandler) Cart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	quote, err := h.saleService.Quote(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", quote)
}

// AddItem adds one piece of a product to the cart
func (h *SaleHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.saleService.AddToCart(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", quote)
}

// RemoveItem removes a product's line from the cart
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product ID")
	if !ok {
		return
	}

	quote, err := h.saleService.RemoveFromCart(c.Request.Context(), userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", quote)
}

// SetDiscount sets a line's discount percentage
func (h *SaleHandler) SetDiscount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product ID")
	if !ok {
		return
	}

	var req request.LineDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.saleService.SetLineDiscount(c.Request.Context(), userID, productID, req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount applied", quote)
}

// SetLoan flags or unflags a line as partly on loan
func (h *SaleHandler) SetLoan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product ID")
	if !ok {
		return
	}

	var req request.LineLoanRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.saleService.SetLineLoan(c.Request.Context(), userID, productID, req.UseLoan)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan flag updated", quote)
}

// ClearCart empties the cart
func (h *SaleHandler) ClearCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.saleService.ClearCart(userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", nil)
}

// Checkout completes the sale in the cart
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CompleteSale(c.Request.Context(), &service.CompleteSaleInput{
		UserID:       userID,
		CashReceived: req.CashReceived,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Signature:    req.Signature,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", gin.H{
		"sale":           sale,
		"receipt_number": utils.ReceiptNumber(sale.ID),
	})
}

// List handles listing sales, newest first
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
	}

	if filter.CustomerID != "" {
		id, err := utils.ParseUUID("customer ID", filter.CustomerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		params.CustomerID = &id
	}

	var err error
	if params.StartDate, err = parseDate("start_date", filter.StartDate, false); err != nil {
		response.Error(c, err)
		return
	}
	if params.EndDate, err = parseDate("end_date", filter.EndDate, true); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Sales retrieved successfully", result)
}

// Get handles getting a single sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "sale ID")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// UpdateDetails edits the customer name, signature or description
func (h *SaleHandler) UpdateDetails(c *gin.Context) {
	id, ok := pathID(c, "id", "sale ID")
	if !ok {
		return
	}

	var req request.UpdateSaleDetailsRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.UpdateSaleDetails(c.Request.Context(), &service.UpdateSaleDetailsInput{
		SaleID:       id,
		CustomerName: req.CustomerName,
		Signature:    req.Signature,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// parseDate reads YYYY-MM-DD in local time or RFC 3339. A bare end date
// covers the whole day.
func parseDate(field, s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, apperror.NewFieldError(field, "Date must be YYYY-MM-DD")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
