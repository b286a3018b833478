package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/cart"
	"github.com/farmlink/farm-market-backend/internal/product"
	"github.com/farmlink/farm-market-backend/internal/user"
)

// setupHandlerApp wires the handler behind a stand-in for the JWT middleware
// that injects the given claims into the request context.
func setupHandlerApp(t *testing.T, userID int, role string) (*fiber.App, *Service, *cart.Service) {
	t.Helper()

	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, FarmerID: 10, Name: "Wheat", Price: decimal.RequireFromString("7.25")},
		{ID: 2, FarmerID: 20, Name: "Honey", Price: decimal.RequireFromString("12.00")},
	}))
	carts := cart.NewService(cart.NewInMemoryRepository(1), products)
	repo := NewInMemoryRepository()
	svc := NewService(repo, NewReconciler(repo, products), carts, nil, nil)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": float64(userID),
			"role":    role,
		}})
		return c.Next()
	})
	NewHandler(svc).RegisterProtectedRoutes(app)
	return app, svc, carts
}

func checkoutBody(method string) []byte {
	b, _ := json.Marshal(CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: method,
	})
	return b
}

func TestCheckoutEndpoint_CashOnDelivery(t *testing.T) {
	app, _, carts := setupHandlerApp(t, 1, user.RoleBuyer)
	carts.AddToCart(1, 1, 2)

	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(checkoutBody(PaymentCashOnDelivery)))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	var created Order
	json.NewDecoder(res.Body).Decode(&created)
	if created.Status != StatusPending {
		t.Errorf("expected pending, got %s", created.Status)
	}
	if !created.TotalAmount.Equal(decimal.RequireFromString("14.50")) {
		t.Errorf("expected total 14.50, got %s", created.TotalAmount)
	}
}

func TestCheckoutEndpoint_RejectsCardMethod(t *testing.T) {
	app, _, carts := setupHandlerApp(t, 1, user.RoleBuyer)
	carts.AddToCart(1, 1, 1)

	req := httptest.NewRequest("POST", "/api/v1/checkout", bytes.NewReader(checkoutBody(PaymentCreditCard)))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for card method on checkout, got %d", res.StatusCode)
	}
}

func TestUpdateStatusEndpoint_BuyerForbidden(t *testing.T) {
	app, _, _ := setupHandlerApp(t, 1, user.RoleBuyer)

	body, _ := json.Marshal(statusRequest{Action: "accept"})
	req := httptest.NewRequest("PATCH", "/api/v1/orders/some-id/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for buyer, got %d", res.StatusCode)
	}
}

func TestUpdateStatusEndpoint_ConflictOnIllegalMove(t *testing.T) {
	app, svc, carts := setupHandlerApp(t, 10, user.RoleFarmer)
	carts.AddToCart(1, 1, 1)

	created, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ApplyAction(context.Background(), created.ID, 10, false, "reject"); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(statusRequest{Action: "accept"})
	req := httptest.NewRequest("PATCH", "/api/v1/orders/"+created.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for accept after reject, got %d", res.StatusCode)
	}
}

func TestGetOrderEndpoint_HiddenFromStrangers(t *testing.T) {
	app, svc, carts := setupHandlerApp(t, 99, user.RoleBuyer)
	carts.AddToCart(1, 1, 1)

	created, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/v1/orders/"+created.ID, nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for another buyer's order, got %d", res.StatusCode)
	}
}

func TestFarmerOrdersEndpoint_ScopedItems(t *testing.T) {
	app, svc, carts := setupHandlerApp(t, 10, user.RoleFarmer)
	carts.AddToCart(1, 1, 1)
	carts.AddToCart(1, 2, 1)

	if _, err := svc.Checkout(context.Background(), 1, CheckoutInput{
		Shipping:      testShipping(),
		PaymentMethod: PaymentCashOnDelivery,
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/v1/farmer/orders", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var orders []Order
	json.NewDecoder(res.Body).Decode(&orders)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	for _, item := range orders[0].Items {
		if item.FarmerID != 10 {
			t.Errorf("expected only own items, saw farmer %d", item.FarmerID)
		}
	}
}
