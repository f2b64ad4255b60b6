package address

// Address is a saved shipping address. Checkout can copy one of these into
// the order's shipping fields so the customer does not retype them.
type Address struct {
	AddressID int    `json:"addressId"`
	UserID    int    `json:"userId"`
	Label     string `json:"label"` // "home", "office", ...
	FullName  string `json:"fullName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
