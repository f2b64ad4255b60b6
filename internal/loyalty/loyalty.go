package loyalty

// Tiers are a pure function of the points balance. Silver is the floor; the
// thresholds match the shop's printed loyalty card.
const (
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// TierFor maps a balance to its tier. Callers must re-apply it after every
// balance change; applying it twice with no change yields the same answer.
func TierFor(points int) string {
	switch {
	case points >= 1000:
		return TierPlatinum
	case points >= 500:
		return TierGold
	}
	return TierSilver
}

// Card is a user's loyalty account. One per user, created lazily on first
// access. Points never go below zero.
type Card struct {
	ID     int    `json:"cardId"`
	UserID int    `json:"userId"`
	Points int    `json:"points"`
	Tier   string `json:"tier"`
}

// Kind tags a ledger entry as a credit or a debit.
type Kind string

const (
	KindEarn   Kind = "earn"
	KindRedeem Kind = "redeem"
)

// Transaction is one append-only ledger row. Rows are never updated or
// deleted; the card balance is the running sum of its transactions.
type Transaction struct {
	ID          int    `json:"transactionId"`
	UserID      int    `json:"userId"`
	Points      int    `json:"points"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Sale is an admin-recorded over-the-counter sale. It bypasses the cart and
// credits points directly.
type Sale struct {
	ID     int     `json:"saleId"`
	UserID int     `json:"userId"`
	Amount float64 `json:"amount"`
	Items  string  `json:"items"`
	Date   string  `json:"date"`
}
