package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the business reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportPeriod(c *gin.Context) (enum.ReportPeriod, bool) {
	period, err := enum.ParseReportPeriod(c.Query("period"))
	if err != nil {
		response.Error(c, apperror.NewFieldError("period", "Period must be today, week or month"))
		return "", false
	}
	return period, true
}

// Get returns the report for ?period=today|week|month
func (h *ReportHandler) Get(c *gin.Context) {
	period, ok := reportPeriod(c)
	if !ok {
		return
	}

	r, err := h.reportService.Build(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report generated successfully", r)
}

// Export downloads the report as an .xlsx workbook
func (h *ReportHandler) Export(c *gin.Context) {
	period, ok := reportPeriod(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportXLSX(c.Request.Context(), period, &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("report-%s.xlsx", period)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
