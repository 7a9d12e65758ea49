package service

import (
	"context"
	"io"
	"time"

	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/report"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/spreadsheet"
)

// ReportService assembles the business reports
type ReportService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	lossRepo     repository.LossRepository
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	lossRepo repository.LossRepository,
) *ReportService {
	return &ReportService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		lossRepo:     lossRepo,
		now:          time.Now,
	}
}

// Build loads current data and builds the report for period
func (s *ReportService) Build(ctx context.Context, period enum.ReportPeriod) (*report.Report, error) {
	now := s.now()
	from, to := report.Window(period, now)

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	losses, err := s.lossRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	r := report.Build(report.Input{
		Products:  products,
		Sales:     sales,
		Customers: customers,
		Losses:    losses,
	}, period, now)
	return &r, nil
}

// ExportXLSX writes the report for period as a workbook with one sheet per
// section
func (s *ReportService) ExportXLSX(ctx context.Context, period enum.ReportPeriod, w io.Writer) error {
	r, err := s.Build(ctx, period)
	if err != nil {
		return err
	}

	wb := spreadsheet.NewWorkbook()
	defer wb.Close()

	if err := writeReportSheets(wb, r); err != nil {
		return apperror.Internal("Failed to build report workbook", err)
	}
	if _, err := wb.WriteTo(w); err != nil {
		return apperror.Internal("Failed to write report workbook", err)
	}
	return nil
}

func writeReportSheets(wb *spreadsheet.Workbook, r *report.Report) error {
	const layout = "2006-01-02 15:04"

	summary := [][]interface{}{
		{"Period", r.Period.String()},
		{"From", r.From.Format(layout)},
		{"To", r.To.Format(layout)},
		{"Sales", r.Sales.Count},
		{"Items sold", r.Sales.ItemsSold},
		{"Revenue", r.Sales.Revenue.InexactFloat64()},
		{"Cost of goods", r.Sales.Cost.InexactFloat64()},
		{"Profit", r.Sales.Profit.InexactFloat64()},
		{"Margin %", r.Sales.Margin.InexactFloat64()},
		{"Loans from sales", r.Sales.Loans.InexactFloat64()},
		{"Products", r.Inventory.ProductCount},
		{"Items in stock", r.Inventory.TotalItems},
		{"Stock buying value", r.Inventory.BuyingValue.InexactFloat64()},
		{"Stock selling value", r.Inventory.SellingValue.InexactFloat64()},
		{"Customers", r.Customers.Count},
		{"Customers with loans", r.Customers.WithLoans},
		{"Outstanding loans", r.Customers.TotalOutstanding.InexactFloat64()},
		{"Average loan", r.Customers.AverageLoan.InexactFloat64()},
		{"Loyalty points", r.Customers.LoyaltyPoints},
		{"Losses", r.Losses.Count},
		{"Loss value", r.Losses.Total.InexactFloat64()},
	}
	if err := wb.AddSheet("Summary", []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	top := make([][]interface{}, 0, len(r.TopSellers))
	for i, t := range r.TopSellers {
		top = append(top, []interface{}{i + 1, t.Name, t.Quantity, t.Revenue.InexactFloat64()})
	}
	if err := wb.AddSheet("Top Sellers", []string{"Rank", "Product", "Quantity", "Revenue"}, top); err != nil {
		return err
	}

	low := make([][]interface{}, 0, len(r.LowStock))
	for _, p := range r.LowStock {
		low = append(low, []interface{}{p.Name, p.Brand, p.Category, p.Pieces, p.LowStockAlert})
	}
	if err := wb.AddSheet("Low Stock", []string{"Product", "Brand", "Category", "Pieces", "Alert"}, low); err != nil {
		return err
	}

	losses := make([][]interface{}, 0, len(r.Losses.ByReason))
	for _, l := range r.Losses.ByReason {
		losses = append(losses, []interface{}{l.Reason, l.Count, l.Quantity, l.Value.InexactFloat64()})
	}
	return wb.AddSheet("Losses", []string{"Reason", "Entries", "Quantity", "Value"}, losses)
}
