package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/phoneshop-pos/internal/domain/repository"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, repo domainRepo.ProductRepository, name, category string, pieces, alert int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          name,
		Brand:         "Tecno",
		Category:      category,
		BuyingPrice:   decimal.NewFromInt(80000),
		SellingPrice:  decimal.NewFromInt(100000),
		Pieces:        pieces,
		LowStockAlert: alert,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func TestProductRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	seedProduct(t, repo, "Spark 10", "phones", 10, 2)
	seedProduct(t, repo, "Camon 20", "phones", 1, 2)
	seedProduct(t, repo, "USB-C Cable", "accessories", 50, 5)

	products, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "SPARK",
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || products[0].Name != "Spark 10" {
		t.Fatalf("search got %d %+v", total, products)
	}

	_, total, err = repo.List(ctx, &domainRepo.ProductFilterParams{Category: "phones"})
	if err != nil || total != 2 {
		t.Fatalf("category filter total=%d err=%v", total, err)
	}

	low, err := repo.GetLowStock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 || low[0].Name != "Camon 20" {
		t.Fatalf("low stock = %+v", low)
	}

	categories, err := repo.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0] != "accessories" {
		t.Fatalf("categories = %v", categories)
	}
}

func TestProductRepositoryDecrementBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	a := seedProduct(t, repo, "A", "phones", 5, 1)
	b := seedProduct(t, repo, "B", "phones", 1, 1)

	failed, err := repo.DecrementBatch(ctx, map[uuid.UUID]int{a.ID: 2, b.ID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0] != b.ID {
		t.Fatalf("failed = %v, want [B]", failed)
	}
	got, _ := repo.GetByID(ctx, a.ID)
	if got.Pieces != 5 {
		t.Fatalf("A pieces = %d after rollback, want 5", got.Pieces)
	}

	failed, err = repo.DecrementBatch(ctx, map[uuid.UUID]int{a.ID: 2, b.ID: 1})
	if err != nil || len(failed) != 0 {
		t.Fatalf("failed=%v err=%v", failed, err)
	}
	got, _ = repo.GetByID(ctx, a.ID)
	if got.Pieces != 3 {
		t.Fatalf("A pieces = %d, want 3", got.Pieces)
	}
	got, _ = repo.GetByID(ctx, b.ID)
	if got.Pieces != 0 {
		t.Fatalf("B pieces = %d, want 0", got.Pieces)
	}
}

func TestDecrementBatchUpdatesInLockOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestDB(t))

	decrements := map[uuid.UUID]int{}
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		p := seedProduct(t, repo, name, "phones", 1, 0)
		decrements[p.ID] = 2
	}

	want := lockOrder(decrements)
	for i := 1; i < len(want); i++ {
		if want[i-1].String() >= want[i].String() {
			t.Fatalf("lock order not ascending: %v", want)
		}
	}

	for run := 0; run < 3; run++ {
		failed, err := repo.DecrementBatch(ctx, decrements)
		if err != nil {
			t.Fatal(err)
		}
		if len(failed) != len(want) {
			t.Fatalf("failed = %d ids, want %d", len(failed), len(want))
		}
		for i := range want {
			if failed[i] != want[i] {
				t.Fatalf("run %d: rows updated as %v, want %v", run, failed, want)
			}
		}
	}
}

func TestProductRepositoryGetMissing(t *testing.T) {
	repo := NewProductRepository(newTestDB(t))
	p, err := repo.GetByID(context.Background(), uuid.New())
	if err != nil || p != nil {
		t.Fatalf("got %+v, %v; want nil, nil", p, err)
	}
}
