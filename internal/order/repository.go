package order

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("order status cannot move backwards")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so order creation can join
// the checkout commit transaction.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	// CreateWithItems inserts the order and all of its line items. Callers
	// pass the checkout *sql.Tx so either everything lands or nothing does.
	CreateWithItems(q DBTX, ord Order, items []LineItem) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
	UpdateStatus(id int, status string) error
	UpdateTracking(id int, upd TrackingUpdate, deliveredAt *string) error
	// Delete removes an order together with the line items it owns.
	Delete(id int) error
}
