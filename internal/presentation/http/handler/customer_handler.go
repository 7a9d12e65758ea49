package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer and loan HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), pageParams(filter.Page, filter.PerPage), filter.Search, filter.WithLoans)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Customers retrieved successfully", result)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Update handles updating a customer's contact details
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted successfully", nil)
}

// AddLoan posts a loan to the customer's balance
func (h *CustomerHandler) AddLoan(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	var req request.LedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.AddLoan(c.Request.Context(), &service.LoanInput{
		CustomerID:  id,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan added successfully", customer)
}

// PayLoan records a repayment. Payments above the balance are rejected.
func (h *CustomerHandler) PayLoan(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	var req request.LedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.PayLoan(c.Request.Context(), &service.PaymentInput{
		CustomerID:        id,
		Amount:            req.Amount,
		Description:       req.Description,
		RejectOverpayment: true,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", customer)
}

// AddPoints adds loyalty points
func (h *CustomerHandler) AddPoints(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	var req request.LoyaltyPointsRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.AddLoyaltyPoints(c.Request.Context(), id, req.Points)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty points added successfully", customer)
}

// LoanHistory lists the customer's loans and payments, newest first
func (h *CustomerHandler) LoanHistory(c *gin.Context) {
	id, ok := pathID(c, "id", "customer ID")
	if !ok {
		return
	}

	history, err := h.customerService.LoanHistory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loan history retrieved successfully", history)
}
