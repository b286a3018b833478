package product

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestService() *Service {
	return NewService(NewInMemoryRepository([]Product{
		{ID: 1, FarmerID: 10, Name: "Wheat", Category: "Grains", Price: decimal.RequireFromString("7.25")},
	}))
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Create(Product{FarmerID: 10, Name: "Honey", Category: "Other", Price: decimal.RequireFromString("12.00")}); err != nil {
		t.Fatalf("expected valid product to be created, got %v", err)
	}

	cases := []struct {
		name string
		p    Product
	}{
		{"missing name", Product{FarmerID: 10, Category: "Other", Price: decimal.RequireFromString("1.00")}},
		{"zero price", Product{FarmerID: 10, Name: "Free", Category: "Other", Price: decimal.Zero}},
		{"unknown category", Product{FarmerID: 10, Name: "Thing", Category: "Gadgets", Price: decimal.RequireFromString("1.00")}},
		{"no farmer", Product{Name: "Orphan", Category: "Other", Price: decimal.RequireFromString("1.00")}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(tc.p); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	svc := newTestService()

	update := Product{Name: "Wheat", Category: "Grains", Price: decimal.RequireFromString("8.00")}
	if _, err := svc.Update(20, 1, update); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for another farmer, got %v", err)
	}

	updated, err := svc.Update(10, 1, update)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Price.Equal(decimal.RequireFromString("8.00")) {
		t.Errorf("expected updated price, got %s", updated.Price)
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	svc := newTestService()

	if err := svc.Delete(20, 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(10, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected product gone, got %v", err)
	}
}
