package order

// Order statuses move forward only: pending -> processing -> shipped ->
// delivered. Cancelled is an admin override reachable from any state that
// has not been delivered yet.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

const (
	PaymentMethodCOD     = "cod"
	PaymentMethodGateway = "gateway"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

var statusRank = map[string]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// CanTransition reports whether an order may move between the two statuses.
func CanTransition(from, to string) bool {
	if to == StatusCancelled {
		return from != StatusDelivered && from != StatusCancelled
	}
	fr, ok := statusRank[from]
	tr, ok2 := statusRank[to]
	return ok && ok2 && tr > fr
}

// Order represents a committed purchase. It is created exactly once per
// successful checkout; the price breakdown always satisfies
// total = subtotal + deliveryCharge - discount.
type Order struct {
	ID             int     `json:"orderId"`
	UserID         int     `json:"userId"`
	FullName       string  `json:"fullName"`
	Street         string  `json:"street"`
	City           string  `json:"city"`
	Phone          string  `json:"phone"`
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Discount       float64 `json:"discount"`
	Total          float64 `json:"total"`
	DeliveryOption string  `json:"deliveryOption"`
	PaymentMethod  string  `json:"paymentMethod"`
	PaymentStatus  string  `json:"paymentStatus"`
	Status         string  `json:"orderStatus"`
	PointsEarned   int     `json:"pointsEarned"`
	PointsRedeemed int     `json:"pointsRedeemed"`

	TrackingNumber    *string `json:"trackingNumber,omitempty"`
	Carrier           *string `json:"carrier,omitempty"`
	DeliveredAt       *string `json:"deliveredAt,omitempty"`
	DeliveryConfirmed bool    `json:"deliveryConfirmed"`
	DispatcherNotes   *string `json:"dispatcherNotes,omitempty"`

	CreatedAt string     `json:"createdAt"`
	Items     []LineItem `json:"items,omitempty"`
}

// LineItem is one row of an order. Name and price are snapshots taken at
// commit time; the rows are immutable and owned by their order.
type LineItem struct {
	ID        int     `json:"lineItemId"`
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// TrackingUpdate carries the dispatcher-editable delivery fields.
type TrackingUpdate struct {
	TrackingNumber    *string `json:"trackingNumber"`
	Carrier           *string `json:"carrier"`
	DeliveryConfirmed *bool   `json:"deliveryConfirmed"`
	DispatcherNotes   *string `json:"dispatcherNotes"`
}
