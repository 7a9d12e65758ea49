package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
)

// LossHandler handles recorded stock losses
type LossHandler struct {
	lossService *service.LossService
}

// NewLossHandler creates a new loss handler
func NewLossHandler(lossService *service.LossService) *LossHandler {
	return &LossHandler{lossService: lossService}
}

// List handles listing losses, optionally for one reason
func (h *LossHandler) List(c *gin.Context) {
	var filter request.LossFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.lossService.ListLosses(c.Request.Context(), pageParams(filter.Page, filter.PerPage), filter.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Losses retrieved successfully", result)
}

// Get handles getting a single loss
func (h *LossHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "loss ID")
	if !ok {
		return
	}

	loss, err := h.lossService.GetLoss(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loss retrieved successfully", loss)
}

// Create records a loss
func (h *LossHandler) Create(c *gin.Context) {
	var req request.CreateLossRequest
	if !bindJSON(c, &req) {
		return
	}

	loss, err := h.lossService.CreateLoss(c.Request.Context(), &service.CreateLossInput{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Description: req.Description,
		LossValue:   req.LossValue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Loss recorded successfully", loss)
}

// Update edits a recorded loss
func (h *LossHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "loss ID")
	if !ok {
		return
	}

	var req request.UpdateLossRequest
	if !bindJSON(c, &req) {
		return
	}

	loss, err := h.lossService.UpdateLoss(c.Request.Context(), &service.UpdateLossInput{
		ID:          id,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Description: req.Description,
		LossValue:   req.LossValue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loss updated successfully", loss)
}

// Delete removes a recorded loss
func (h *LossHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "loss ID")
	if !ok {
		return
	}

	if err := h.lossService.DeleteLoss(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loss deleted successfully", nil)
}
