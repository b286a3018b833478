package address

// Address is a saved shipping destination in a buyer's address book. The
// fields mirror the checkout shipping form.
type Address struct {
	AddressID int    `json:"addressId"`
	UserID    int    `json:"userId"`
	FullName  string `json:"fullName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
