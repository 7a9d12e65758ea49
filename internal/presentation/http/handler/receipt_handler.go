package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipts and the receipt printer
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// PrinterStatus returns the current printer connection status
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus())
}

// TestPrint sends a test page to the printer. The sample receipt is
// returned even when no printer is attached.
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint(c.Request.Context())
	if err != nil {
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}

// Get builds the receipt for a sale without printing it
func (h *ReceiptHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	saleID, ok := pathID(c, "id", "sale ID")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Build(c.Request.Context(), saleID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated successfully", gin.H{"receipt": receipt})
}

// Print prints a sale's receipt. When the printer fails the receipt is
// returned with a warning so the app can show or share it instead.
func (h *ReceiptHandler) Print(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.PrintReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.receiptService.Print(c.Request.Context(), req.SaleID, userID)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}
