package product

import "github.com/shopspring/decimal"

// Product is a catalog entry owned by one farmer. Price is the live catalog
// price; orders capture their own copy at purchase time.
type Product struct {
	ID          int             `json:"productId"`
	FarmerID    int             `json:"farmerId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// AllowedCategories contains the supported produce categories used across the app.
var AllowedCategories = []string{
	"Vegetables",
	"Fruits",
	"Grains",
	"Dairy",
	"Meat",
	"Herbs",
	"Honey",
	"Other",
}

func ValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}
