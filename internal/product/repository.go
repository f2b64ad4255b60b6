package product

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrOutOfStock = errors.New("not enough stock")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so stock writes can join the
// checkout commit transaction.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Repository defines persistence operations for the catalog.
type Repository interface {
	List() []Product
	ListByCategory(category string) []Product
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error

	// DecrementStock subtracts qty from the product's stock. The update is
	// conditional on enough stock remaining, so two commits racing for the
	// last unit cannot both succeed. Pass a *sql.Tx to make the write part
	// of a larger transaction, or nil to run it standalone.
	DecrementStock(q DBTX, id int, qty int) error
}
