package loyalty

import (
	"database/sql"
	"errors"
	"sync"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// DBTX is satisfied by both *sql.DB and *sql.Tx so ledger writes can join the
// checkout commit transaction. Implementations treat nil as "use my own db".
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Repository interface {
	GetOrCreateCard(q DBTX, userID int) (Card, error)
	SaveCard(q DBTX, card Card) error
	AppendTransaction(q DBTX, t Transaction) (Transaction, error)
	ListTransactions(userID int) ([]Transaction, error)
	InsertSale(q DBTX, s Sale) (Sale, error)
	ListSales() ([]Sale, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu           sync.RWMutex
	cards        map[int]Card
	transactions []Transaction
	sales        []Sale
	nextCardID   int
	nextTxnID    int
	nextSaleID   int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		cards:      make(map[int]Card),
		nextCardID: 1,
		nextTxnID:  1,
		nextSaleID: 1,
	}
}

func (r *InMemoryRepository) GetOrCreateCard(q DBTX, userID int) (Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if card, ok := r.cards[userID]; ok {
		return card, nil
	}
	card := Card{ID: r.nextCardID, UserID: userID, Points: 0, Tier: TierSilver}
	r.nextCardID++
	r.cards[userID] = card
	return card, nil
}

func (r *InMemoryRepository) SaveCard(q DBTX, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.UserID] = card
	return nil
}

func (r *InMemoryRepository) AppendTransaction(q DBTX, t Transaction) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextTxnID
	r.nextTxnID++
	r.transactions = append(r.transactions, t)
	return t, nil
}

func (r *InMemoryRepository) ListTransactions(userID int) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transaction, 0)
	for _, t := range r.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) InsertSale(q DBTX, s Sale) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextSaleID
	r.nextSaleID++
	r.sales = append(r.sales, s)
	return s, nil
}

func (r *InMemoryRepository) ListSales() ([]Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sale, len(r.sales))
	copy(out, r.sales)
	return out, nil
}
