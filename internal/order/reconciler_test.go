package order

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/product"
)

func seedProducts() *product.InMemoryRepository {
	return product.NewInMemoryRepository([]product.Product{
		{ID: 1, FarmerID: 10, Name: "Wheat", Price: decimal.RequireFromString("7.25")},
		{ID: 2, FarmerID: 20, Name: "Honey", Price: decimal.RequireFromString("12.00")},
	})
}

func TestResolve_AssignsFarmerAndKeepsLinePrice(t *testing.T) {
	products := product.NewService(seedProducts())
	rec := NewReconciler(NewInMemoryRepository(), products)

	items := rec.Resolve([]Line{
		{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("6.50")},
	})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].FarmerID != 10 {
		t.Errorf("expected farmer 10, got %d", items[0].FarmerID)
	}
	// the line price wins even when it differs from the live catalog price
	if !items[0].Price.Equal(decimal.RequireFromString("6.50")) {
		t.Errorf("expected line price 6.50, got %s", items[0].Price)
	}
}

func TestResolve_SkipsMissingProductsAndBadQuantities(t *testing.T) {
	products := product.NewService(seedProducts())
	rec := NewReconciler(NewInMemoryRepository(), products)

	items := rec.Resolve([]Line{
		{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("7.25")},
		{ProductID: 999, Quantity: 1, Price: decimal.RequireFromString("3.00")},
		{ProductID: 2, Quantity: 0, Price: decimal.RequireFromString("12.00")},
	})
	if len(items) != 1 {
		t.Fatalf("expected only the valid line to survive, got %d items", len(items))
	}
	if items[0].ProductID != 1 {
		t.Errorf("expected product 1, got %d", items[0].ProductID)
	}
}

func TestReconcile_PersistsAgainstExistingOrder(t *testing.T) {
	repo := NewInMemoryRepository()
	products := product.NewService(seedProducts())
	rec := NewReconciler(repo, products)

	created, err := repo.Create(Order{ID: "ord-1", UserID: 1, Status: StatusPaid,
		TotalAmount: decimal.RequireFromString("19.25")}, nil)
	if err != nil {
		t.Fatal(err)
	}

	added := rec.Reconcile(created.ID, []Line{
		{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("7.25")},
		{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("12.00")},
		{ProductID: 999, Quantity: 1, Price: decimal.RequireFromString("1.00")},
	})
	if added != 2 {
		t.Fatalf("expected 2 items added, got %d", added)
	}

	stored, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Items) != 2 {
		t.Errorf("expected 2 persisted items, got %d", len(stored.Items))
	}
}

func TestPriceImmutability_CatalogChangeDoesNotRewriteItems(t *testing.T) {
	repo := NewInMemoryRepository()
	productRepo := seedProducts()
	products := product.NewService(productRepo)
	rec := NewReconciler(repo, products)

	created, _ := repo.Create(Order{ID: "ord-2", UserID: 1,
		TotalAmount: decimal.RequireFromString("7.25")}, nil)
	rec.Reconcile(created.ID, []Line{{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("7.25")}})

	// raise the catalog price after the order exists
	p, _ := productRepo.GetByID(1)
	p.Price = decimal.RequireFromString("99.99")
	if _, err := productRepo.Update(1, p); err != nil {
		t.Fatal(err)
	}

	stored, _ := repo.GetByID(created.ID)
	if !stored.Items[0].Price.Equal(decimal.RequireFromString("7.25")) {
		t.Errorf("order item price changed with catalog: got %s", stored.Items[0].Price)
	}
}
