package repository

import (
	"bytes"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"gorm.io/gorm"
)

// errStockShort rolls back a batch decrement without surfacing as a failure
var errStockShort = errors.New("insufficient stock")

var productSortColumns = map[string]string{
	"name":          "name",
	"brand":         "brand",
	"category":      "category",
	"pieces":        "pieces",
	"selling_price": "selling_price",
	"created_at":    "created_at",
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).CreateInBatches(products, 100).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Product{}).
		Scopes(SearchScope(params.Search, "name", "brand", "category"))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.LowStock {
		query = query.Where("pieces <= low_stock_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if col, ok := productSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := dbFrom(ctx, r.db).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := dbFrom(ctx, r.db).
		Where("pieces <= low_stock_alert").
		Order("pieces ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *productRepository) UpdatePieces(ctx context.Context, id uuid.UUID, pieces int) error {
	return dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("pieces", pieces).Error
}

// lockOrder returns the product ids in ascending byte order. Every batch
// updates rows in this order so two checkouts sharing products lock them
// in the same sequence.
func lockOrder(decrements map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// DecrementBatch runs UPDATE products SET pieces = pieces - n WHERE id = ?
// AND pieces >= n for every product inside one transaction, in lockOrder.
// If any row is short, the whole batch is rolled back and the short ids
// returned.
func (r *productRepository) DecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for _, id := range lockOrder(decrements) {
			amount := decrements[id]
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND pieces >= ?", id, amount).
				Update("pieces", gorm.Expr("pieces - ?", amount))

			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return errStockShort
		}
		return nil
	})

	if errors.Is(err, errStockShort) {
		return failedIDs, nil
	}
	return failedIDs, err
}
