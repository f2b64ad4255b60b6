package checkout

import (
	"github.com/saraswati-stationery/stationery-backend/internal/cart"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/order"
	"github.com/saraswati-stationery/stationery-backend/internal/product"
)

// Store is the persistence surface the checkout flow needs. The read methods
// back assembly; Commit runs fn inside a single transaction so every write
// made through the Tx lands atomically or not at all.
type Store interface {
	CartLines(userID int) ([]cart.Line, error)
	GetProduct(id int) (product.Product, error)
	LoyaltyCard(userID int) (loyalty.Card, error)

	PutPending(userID int, p PendingCheckout) error
	// GetPending returns ErrNoPendingCheckout when the slot is empty.
	GetPending(userID int) (PendingCheckout, error)
	ClearPending(userID int) error

	Commit(fn func(Tx) error) error
}

// Tx is the set of writes available inside Store.Commit.
type Tx interface {
	// DecrementStock re-validates and decrements in one guarded write;
	// returns product.ErrOutOfStock or product.ErrNotFound when it fails.
	DecrementStock(productID int, qty int) error
	CreateOrder(ord order.Order, items []order.LineItem) (order.Order, error)
	RedeemPoints(userID int, points int, reason string) error
	EarnPoints(userID int, points int, reason string) error
	ClearCart(userID int) error
	ClearPending(userID int) error
}
