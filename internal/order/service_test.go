package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/cart"
	"github.com/farmlink/farm-market-backend/internal/events"
	"github.com/farmlink/farm-market-backend/internal/product"
)

type capturingPublisher struct {
	events []events.OrderEvent
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event any) error {
	p.events = append(p.events, event.(events.OrderEvent))
	return nil
}

func testShipping() ShippingAddress {
	return ShippingAddress{
		FullName: "Ann Grower", Address: "1 Farm Rd", City: "Springfield",
		State: "IL", ZipCode: "62701", Country: "US", Phone: "0123456789",
	}
}

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *cart.Service, *capturingPublisher) {
	t.Helper()

	products := product.NewService(seedProducts())
	cartService := cart.NewService(cart.NewInMemoryRepository(1), products)
	repo := NewInMemoryRepository()
	pub := &capturingPublisher{}
	svc := NewService(repo, NewReconciler(repo, products), cartService, pub, nil)
	return svc, repo, cartService, pub
}

func TestCheckout_CashOnDelivery(t *testing.T) {
	svc, _, carts, pub := newTestService(t)

	if _, err := carts.AddToCart(1, 1, 2); err != nil {
		t.Fatal(err)
	}

	created, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.Status != StatusPending {
		t.Errorf("expected pending, got %s", created.Status)
	}
	if !created.TotalAmount.Equal(decimal.RequireFromString("14.50")) {
		t.Errorf("expected total 14.50, got %s", created.TotalAmount)
	}
	if len(created.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(created.Items))
	}
	item := created.Items[0]
	if item.Quantity != 2 || !item.Price.Equal(decimal.RequireFromString("7.25")) {
		t.Errorf("expected qty 2 at 7.25, got qty %d at %s", item.Quantity, item.Price)
	}

	crt, err := carts.GetCart(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(crt.Items) != 0 {
		t.Errorf("expected cart cleared after checkout, got %d items", len(crt.Items))
	}

	if len(pub.events) != 1 || pub.events[0].OrderID != created.ID {
		t.Errorf("expected one order event for %s, got %+v", created.ID, pub.events)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_RejectsBadInput(t *testing.T) {
	svc, _, carts, _ := newTestService(t)
	carts.AddToCart(1, 1, 1)

	if _, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: "barter",
	}); err == nil {
		t.Error("expected error for unknown payment method")
	}

	bad := testShipping()
	bad.ZipCode = ""
	if _, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      bad,
		PaymentMethod: PaymentCashOnDelivery,
	}); err == nil {
		t.Error("expected error for incomplete shipping address")
	}
}

func TestApplyAction_RejectThenAcceptFails(t *testing.T) {
	svc, _, carts, _ := newTestService(t)
	carts.AddToCart(1, 1, 1)

	created, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, _, err := svc.ApplyAction(context.Background(), created.ID, 10, false, "reject")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", updated.Status)
	}

	_, _, err = svc.ApplyAction(context.Background(), created.ID, 10, false, "accept")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after cancel, got %v", err)
	}
}

func TestApplyAction_FullLifecycle(t *testing.T) {
	svc, _, carts, pub := newTestService(t)
	carts.AddToCart(1, 1, 1)

	created, _ := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})

	for _, step := range []struct {
		action string
		want   Status
	}{
		{"accept", StatusProcessing},
		{"ship", StatusShipped},
		{"deliver", StatusDelivered},
	} {
		updated, message, err := svc.ApplyAction(context.Background(), created.ID, 10, false, step.action)
		if err != nil {
			t.Fatalf("%s: %v", step.action, err)
		}
		if updated.Status != step.want {
			t.Errorf("%s: expected %s, got %s", step.action, step.want, updated.Status)
		}
		if message == "" {
			t.Errorf("%s: expected a status message", step.action)
		}
	}

	// checkout plus three transitions
	if len(pub.events) != 4 {
		t.Errorf("expected 4 published events, got %d", len(pub.events))
	}
}

func TestApplyAction_UnknownAction(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.ApplyAction(context.Background(), "whatever", 10, false, "explode")
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestApplyAction_FarmerOwnershipEnforced(t *testing.T) {
	svc, _, carts, _ := newTestService(t)
	carts.AddToCart(1, 1, 1) // Wheat belongs to farmer 10

	created, _ := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})

	_, _, err := svc.ApplyAction(context.Background(), created.ID, 20, false, "accept")
	if !errors.Is(err, ErrNotYourOrder) {
		t.Fatalf("expected ErrNotYourOrder for farmer without items, got %v", err)
	}

	// admin may act on any order
	if _, _, err := svc.ApplyAction(context.Background(), created.ID, 0, true, "accept"); err != nil {
		t.Fatalf("expected admin action to succeed, got %v", err)
	}
}

func TestListForFarmer_ScopesItems(t *testing.T) {
	svc, _, carts, _ := newTestService(t)
	carts.AddToCart(1, 1, 2) // farmer 10
	carts.AddToCart(1, 2, 1) // farmer 20

	created, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected a mixed-farmer order, got %d items", len(created.Items))
	}

	mine, err := svc.ListForFarmer(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 order for farmer 10, got %d", len(mine))
	}
	if len(mine[0].Items) != 1 || mine[0].Items[0].FarmerID != 10 {
		t.Errorf("expected only farmer 10 items, got %+v", mine[0].Items)
	}

	none, err := svc.ListForFarmer(30)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no orders for uninvolved farmer, got %d", len(none))
	}
}
