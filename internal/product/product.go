package product

// Product represents an item in the catalog and maps to the `public.product`
// table. Stock is what checkout validates against; the price a customer
// actually pays is the snapshot taken when the item entered the cart.
type Product struct {
	ID          int     `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   *string `json:"createdAt,omitempty"`
	UpdatedAt   *string `json:"updatedAt,omitempty"`
}

// StockStatus returns the label shown on product listings.
func (p Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "Out of Stock"
	case p.Stock < 10:
		return "Low Stock"
	}
	return "In Stock"
}

// AllowedCategories contains the supported product categories used across the app.
var AllowedCategories = []string{
	"Pens and Pencils",
	"Notebooks and Diaries",
	"Paper Products",
	"Art Supplies",
	"Office Supplies",
	"School Bags",
	"Calculators",
	"Gift Items",
}
