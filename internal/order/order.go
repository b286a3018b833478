package order

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle position of an order. Transitions only ever move
// forward; cancelled is reachable only before a farmer accepts.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions maps a target status to the statuses it may be reached from.
// paid orders await farmer acceptance the same way pending ones do.
var transitions = map[Status][]Status{
	StatusProcessing: {StatusPending, StatusPaid},
	StatusCancelled:  {StatusPending, StatusPaid},
	StatusShipped:    {StatusProcessing},
	StatusDelivered:  {StatusShipped},
}

// CanTransition reports whether from -> to is a legal move. Re-applying the
// current status is allowed so retried actions stay idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, prev := range transitions[to] {
		if prev == from {
			return true
		}
	}
	return false
}

// LegalSources returns the statuses a target may be reached from, including
// the target itself (idempotent re-application).
func LegalSources(to Status) []Status {
	sources := append([]Status{to}, transitions[to]...)
	return sources
}

// Actions a farmer may take, mapped to target statuses.
var actionTargets = map[string]Status{
	"accept":  StatusProcessing,
	"reject":  StatusCancelled,
	"ship":    StatusShipped,
	"deliver": StatusDelivered,
}

var statusMessages = map[Status]string{
	StatusProcessing: "Order has been accepted and is now being processed",
	StatusCancelled:  "Order has been rejected and cancelled",
	StatusShipped:    "Order has been shipped",
	StatusDelivered:  "Order has been delivered",
}

// ShippingAddress is immutable after order creation.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// Validate enforces the checkout form rules: all six fields plus phone are
// required, and the phone number needs at least ten characters.
func (a ShippingAddress) Validate() error {
	switch {
	case a.FullName == "":
		return errors.New("fullName is required")
	case a.Address == "":
		return errors.New("address is required")
	case a.City == "":
		return errors.New("city is required")
	case a.State == "":
		return errors.New("state is required")
	case a.ZipCode == "":
		return errors.New("zipCode is required")
	case a.Country == "":
		return errors.New("country is required")
	case len(a.Phone) < 10:
		return errors.New("phone must be at least 10 characters")
	}
	return nil
}

// Payment method tags accepted at checkout.
const (
	PaymentCashOnDelivery = "cash-on-delivery"
	PaymentCreditCard     = "credit-card"
	PaymentStripe         = "stripe"
)

func ValidPaymentMethod(method string) bool {
	return method == PaymentCashOnDelivery || method == PaymentCreditCard || method == PaymentStripe
}

type Order struct {
	ID               string          `json:"orderId"`
	UserID           int             `json:"userId"`
	BuyerName        string          `json:"buyerName,omitempty"`
	Status           Status          `json:"status"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Shipping         ShippingAddress `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentSessionID *string         `json:"paymentSessionId,omitempty"`
	Items            []Item          `json:"items"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

// Item is one product line of an order. FarmerID is denormalized from the
// product at creation time so farmer-scoped queries avoid a join, and Price
// is the unit price captured at order time, never re-read from the catalog.
type Item struct {
	ID          int             `json:"itemId"`
	OrderID     string          `json:"orderId"`
	ProductID   int             `json:"productId"`
	FarmerID    int             `json:"farmerId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Line is an unpersisted order line, either from the cart snapshot or from
// payment-session metadata.
type Line struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal returns the sum of price x quantity over the lines.
func LineTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
