package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/sangkips/phoneshop-pos/pkg/spreadsheet"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	events      ChangePublisher
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, events ChangePublisher) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		events:      publisherOrNoop(events),
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name          string
	Brand         string
	Category      string
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
	Pieces        int
	LowStockAlert int
}

func (in *CreateProductInput) validate() []apperror.FieldError {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if in.BuyingPrice.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "buying_price", Message: "Buying price cannot be negative"})
	}
	if in.SellingPrice.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "selling_price", Message: "Selling price cannot be negative"})
	}
	if in.Pieces < 0 {
		errs = append(errs, apperror.FieldError{Field: "pieces", Message: "Pieces cannot be negative"})
	}
	if in.LowStockAlert < 0 {
		errs = append(errs, apperror.FieldError{Field: "low_stock_alert", Message: "Low stock alert cannot be negative"})
	}
	return errs
}

func (in *CreateProductInput) product() *entity.Product {
	return &entity.Product{
		Name:          strings.TrimSpace(in.Name),
		Brand:         strings.TrimSpace(in.Brand),
		Category:      strings.TrimSpace(in.Category),
		BuyingPrice:   in.BuyingPrice.Round(2),
		SellingPrice:  in.SellingPrice.Round(2),
		Pieces:        in.Pieces,
		LowStockAlert: in.LowStockAlert,
	}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if errs := input.validate(); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	product := input.product()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.events.Inserted(TableProducts, *product)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(products, params.Pagination, total), nil
}

// UpdateProductInput represents the update product input. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	Brand         *string
	Category      *string
	BuyingPrice   *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Pieces        *int
	LowStockAlert *int
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.BuyingPrice != nil {
		product.BuyingPrice = input.BuyingPrice.Round(2)
	}
	if input.SellingPrice != nil {
		product.SellingPrice = input.SellingPrice.Round(2)
	}
	if input.Pieces != nil {
		product.Pieces = *input.Pieces
	}
	if input.LowStockAlert != nil {
		product.LowStockAlert = *input.LowStockAlert
	}

	check := CreateProductInput{
		Name:          product.Name,
		BuyingPrice:   product.BuyingPrice,
		SellingPrice:  product.SellingPrice,
		Pieces:        product.Pieces,
		LowStockAlert: product.LowStockAlert,
	}
	if errs := check.validate(); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.events.Updated(TableProducts, *product)
	return product, nil
}

// UpdateStock sets the number of pieces in stock
func (s *ProductService) UpdateStock(ctx context.Context, id uuid.UUID, pieces int) (*entity.Product, error) {
	if pieces < 0 {
		return nil, apperror.NewFieldError("pieces", "Pieces cannot be negative")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdatePieces(ctx, id, pieces); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Updated(TableProducts, *product)
	return product, nil
}

// DeleteProduct removes a product. Past sales keep their items.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Deleted(TableProducts, id)
	return nil
}

// GetLowStockProducts returns products at or below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// Categories returns the distinct product categories in use
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts bulk-creates products from an xlsx workbook. Rows that
// fail validation are reported and skipped; the rest are created together.
func (s *ProductService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	table, err := spreadsheet.ReadTable(r)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmpty) {
			return nil, apperror.NewBadRequestError("Import file has no rows")
		}
		return nil, apperror.NewBadRequestError("Import file is not a valid xlsx workbook")
	}
	if !table.Has("name") {
		return nil, apperror.NewBadRequestError("Import file must have a name column")
	}

	result := &ImportResult{TotalRows: len(table.Rows)}
	var valid []entity.Product

	for _, row := range table.Rows {
		input, rowErr := importRow(row)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		if errs := input.validate(); len(errs) > 0 {
			result.Errors = append(result.Errors, ImportRowError{Row: row.Line, Field: errs[0].Field, Message: errs[0].Message})
			continue
		}
		valid = append(valid, *input.product())
	}

	if len(valid) > 0 {
		if err := s.productRepo.CreateBatch(ctx, valid); err != nil {
			return nil, apperror.Internal("Failed to import products", err)
		}
		for i := range valid {
			s.events.Inserted(TableProducts, valid[i])
		}
	}

	result.Successful = len(valid)
	result.Failed = len(result.Errors)
	return result, nil
}

func importRow(row spreadsheet.Row) (*CreateProductInput, *ImportRowError) {
	input := &CreateProductInput{
		Name:     row.Get("name"),
		Brand:    row.Get("brand"),
		Category: row.Get("category"),
	}

	var err error
	if input.BuyingPrice, err = parseMoney(row.Get("buying_price")); err != nil {
		return nil, &ImportRowError{Row: row.Line, Field: "buying_price", Message: err.Error()}
	}
	if input.SellingPrice, err = parseMoney(row.Get("selling_price")); err != nil {
		return nil, &ImportRowError{Row: row.Line, Field: "selling_price", Message: err.Error()}
	}
	if input.Pieces, err = parseCount(row.Get("pieces")); err != nil {
		return nil, &ImportRowError{Row: row.Line, Field: "pieces", Message: err.Error()}
	}
	if input.LowStockAlert, err = parseCount(row.Get("low_stock_alert")); err != nil {
		return nil, &ImportRowError{Row: row.Line, Field: "low_stock_alert", Message: err.Error()}
	}
	return input, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// spreadsheets often store whole numbers as 5.0
		d, derr := decimal.NewFromString(s)
		if derr != nil || !d.IsInteger() {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		return int(d.IntPart()), nil
	}
	return n, nil
}
