package order

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition_ForwardOnly(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusPaid, StatusProcessing},
		{StatusPaid, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusProcessing, StatusCancelled},
		{StatusProcessing, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusCancelled, StatusProcessing},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusPending},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestCanTransition_SameStatusIsIdempotent(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !CanTransition(s, s) {
			t.Errorf("re-applying %s should be a no-op success", s)
		}
	}
}

func TestShippingAddressValidate(t *testing.T) {
	valid := ShippingAddress{
		FullName: "Ann Grower", Address: "1 Farm Rd", City: "Springfield",
		State: "IL", ZipCode: "62701", Country: "US", Phone: "0123456789",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}

	missingCity := valid
	missingCity.City = ""
	if err := missingCity.Validate(); err == nil {
		t.Error("expected error for missing city")
	}

	shortPhone := valid
	shortPhone.Phone = "12345"
	if err := shortPhone.Validate(); err == nil {
		t.Error("expected error for short phone")
	}
}

func TestLineTotal(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("7.25")},
		{ProductID: 2, Quantity: 3, Price: decimal.RequireFromString("1.10")},
	}
	total := LineTotal(lines)
	if !total.Equal(decimal.RequireFromString("17.80")) {
		t.Errorf("expected 17.80, got %s", total)
	}
}
