package cart

// Line is one cart entry. UnitPrice is the snapshot taken when the product
// was added; checkout charges this price even if the catalog price has
// changed since. Only stock is re-validated at checkout.
type Line struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}
