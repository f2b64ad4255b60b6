package cart

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("cart line not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx; clearing the cart is part
// of the checkout commit transaction.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Repository provides access to a user's cart. Quantities accumulate when the
// same product is added twice; the snapshot price is taken on the first add.
type Repository interface {
	List(userID int) ([]Line, error)
	Add(userID int, line Line) ([]Line, error)
	SetQuantity(userID int, productID int, qty int) ([]Line, error)
	Remove(userID int, productID int) ([]Line, error)
	Clear(q DBTX, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]Line
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int]map[int]Line)}
}

func (r *InMemoryRepository) List(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return linesOf(r.carts[userID]), nil
}

func (r *InMemoryRepository) Add(userID int, line Line) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.carts[userID]
	if m == nil {
		m = make(map[int]Line)
		r.carts[userID] = m
	}
	if existing, ok := m[line.ProductID]; ok {
		existing.Quantity += line.Quantity
		if existing.Quantity <= 0 {
			delete(m, line.ProductID)
		} else {
			m[line.ProductID] = existing
		}
	} else if line.Quantity > 0 {
		m[line.ProductID] = line
	}
	return linesOf(m), nil
}

func (r *InMemoryRepository) SetQuantity(userID int, productID int, qty int) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.carts[userID]
	existing, ok := m[productID]
	if !ok {
		return nil, ErrNotFound
	}
	if qty <= 0 {
		delete(m, productID)
	} else {
		existing.Quantity = qty
		m[productID] = existing
	}
	return linesOf(m), nil
}

func (r *InMemoryRepository) Remove(userID int, productID int) ([]Line, error) {
	return r.SetQuantity(userID, productID, 0)
}

func (r *InMemoryRepository) Clear(q DBTX, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

func linesOf(m map[int]Line) []Line {
	out := make([]Line, 0, len(m))
	for _, ln := range m {
		out = append(out, ln)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
