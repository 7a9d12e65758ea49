package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/currency"
	"github.com/sangkips/phoneshop-pos/pkg/printer"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

const receiptDateLayout = "2006-01-02 15:04"

// ReceiptOptions configures receipt rendering
type ReceiptOptions struct {
	PrinterType string
	Width       int
	ShopName    string
	Footer      string
	Location    *time.Location
}

// ReceiptService composes receipts from sales and sends them to the
// thermal printer.
type ReceiptService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	money       *currency.Formatter
	opts        ReceiptOptions
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	money *currency.Formatter,
	opts ReceiptOptions,
) *ReceiptService {
	if opts.Footer == "" {
		opts.Footer = "Thank you for your business!"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &ReceiptService{
		printer:     p,
		saleRepo:    saleRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		money:       money,
		opts:        opts,
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status
func (s *ReceiptService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.configured(),
		Connected:  s.printer.IsConnected(),
		Type:       s.opts.PrinterType,
		Width:      s.width(),
	}
}

func (s *ReceiptService) configured() bool {
	return s.opts.PrinterType != "none" && s.opts.PrinterType != ""
}

func (s *ReceiptService) width() int {
	if s.opts.Width > 0 {
		return s.opts.Width
	}
	return printer.Width58mm
}

// Build composes the receipt for a sale as seen by the calling user. The
// header carries the caller's shop profile.
func (s *ReceiptService) Build(ctx context.Context, saleID, callerID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: s.shopName(profile),
		},
		SaleID:       sale.ID.String(),
		Number:       utils.ReceiptNumber(sale.ID),
		Date:         sale.CreatedAt.In(s.opts.Location).Format(receiptDateLayout),
		Total:        sale.Total,
		CashReceived: sale.CashReceived,
		Change:       sale.Change,
		LoanAmount:   sale.LoanAmount,
		Items:        make([]entity.ReceiptItem, 0, len(sale.Items)),
	}
	if profile != nil {
		receipt.Header.ShopLogo = profile.ShopLogo
	}
	if sale.UserID != nil {
		if cashier, err := s.userRepo.GetByID(ctx, *sale.UserID); err == nil && cashier != nil {
			receipt.Header.Cashier = cashier.Name
		}
	}
	if sale.CustomerName != nil {
		receipt.Customer = *sale.CustomerName
	}
	if sale.Signature != nil {
		receipt.Signature = *sale.Signature
	}
	if sale.Description != nil {
		receipt.Description = *sale.Description
	}

	for _, item := range sale.Items {
		name := "Deleted product"
		if item.Product != nil && item.Product.Name != "" {
			name = item.Product.Name
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.Subtotal(),
		})
	}

	return receipt, nil
}

func (s *ReceiptService) shopName(profile *entity.UserProfile) string {
	if profile != nil && profile.ShopName != "" {
		return profile.ShopName
	}
	if s.opts.ShopName != "" {
		return s.opts.ShopName
	}
	return entity.DefaultShopName
}

// Print builds the sale's receipt and sends it to the printer. When the
// printer fails the receipt is still returned alongside the error.
func (s *ReceiptService) Print(ctx context.Context, saleID, callerID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.Build(ctx, saleID, callerID)
	if err != nil {
		return nil, err
	}
	if !s.configured() {
		return receipt, apperror.ErrPrinterUnavailable
	}

	if err := s.printer.Print(ctx, s.Format(receipt)); err != nil {
		log.Printf("Printer error (sale %s): %v", saleID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer
func (s *ReceiptService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	price := decimal.NewFromInt(20000)
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{ShopName: "PRINTER TEST", Cashier: "System"},
		Number: "TEST-001",
		Date:   time.Now().In(s.opts.Location).Format(receiptDateLayout),
		Items: []entity.ReceiptItem{
			{Name: "Screen protector", Quantity: 1, UnitPrice: price, Total: price},
			{Name: "USB-C cable", Quantity: 2, UnitPrice: price, Total: price.Mul(decimal.NewFromInt(2))},
		},
		Total:        price.Mul(decimal.NewFromInt(3)),
		CashReceived: price.Mul(decimal.NewFromInt(3)),
		Change:       decimal.Zero,
		LoanAmount:   decimal.Zero,
	}
	if !s.configured() {
		return receipt, apperror.ErrPrinterUnavailable
	}

	if err := s.printer.Print(ctx, s.Format(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// Format converts a receipt into ESC/POS bytes
func (s *ReceiptService) Format(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width())

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.Number).
		KeyValue("Date:", r.Date)
	if r.Header.Cashier != "" {
		doc.KeyValue("Cashier:", r.Header.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, s.money.Number(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", s.money.Number(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", s.money.Format(r.Total)).
		SetBold(false).
		KeyValue("Cash:", s.money.Format(r.CashReceived)).
		KeyValue("Change:", s.money.Format(r.Change))
	if r.LoanAmount.IsPositive() {
		doc.KeyValue("On loan:", s.money.Format(r.LoanAmount))
	}

	if r.Description != "" {
		doc.Separator('-').Text(r.Description)
	}
	if r.Signature != "" {
		doc.LineFeed().KeyValue("Signed:", r.Signature)
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text(s.opts.Footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
