// Package checkout turns a cart into an order. Assembly prices the cart and
// decides the loyalty redemption; the commit step persists the order, stock
// decrement and ledger movements in one transaction, for both the
// cash-on-delivery path and the gateway path that resumes after an external
// redirect.
package checkout

// Delivery options and their flat charges, in rupees.
const (
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
	DeliveryPickup   = "pickup"
)

var deliveryCharges = map[string]float64{
	DeliveryStandard: 0,
	DeliveryExpress:  150,
	DeliveryPickup:   0,
}

const (
	// redeemFloor is the minimum balance before any redemption is offered;
	// redeemCap is the most points a single order may spend. Below the floor
	// nothing is redeemed, at or above it min(balance, cap) is.
	redeemFloor = 100
	redeemCap   = 100

	// pointsPerRupee: 10 points knock one rupee off the total.
	pointsPerRupee = 10
)

// ShippingInfo is what the courier needs.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

// DraftLine is a cart line joined with the catalog at assembly time. The
// unit price is still the cart's snapshot; only name and stock come from the
// live catalog.
type DraftLine struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// Draft is an assembled, priced order that has not been persisted yet.
// Assembly has no side effects; everything here is recomputed from scratch
// on each attempt.
type Draft struct {
	UserID         int          `json:"userId"`
	Shipping       ShippingInfo `json:"shipping"`
	DeliveryOption string       `json:"deliveryOption"`
	Lines          []DraftLine  `json:"lines"`
	Subtotal       float64      `json:"subtotal"`
	DeliveryCharge float64      `json:"deliveryCharge"`
	Discount       float64      `json:"discount"`
	Total          float64      `json:"total"`
	PointsToRedeem int          `json:"pointsToRedeem"`
}

// PendingCheckout is the snapshot kept while the customer is away at the
// payment gateway. It is the only state carried across the redirect, so it
// holds the full draft; one slot per user, a newer checkout overwrites it.
type PendingCheckout struct {
	Pidx      string `json:"pidx"`
	OrderRef  string `json:"orderRef"`
	Draft     Draft  `json:"draft"`
	CreatedAt string `json:"createdAt"`
}
