package checkout

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/saraswati-stationery/stationery-backend/internal/cart"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/order"
	"github.com/saraswati-stationery/stationery-backend/internal/product"
)

// PostgresStore glues the feature repositories together behind the Store
// interface. It owns the transaction; the repositories just accept it.
type PostgresStore struct {
	db       *sql.DB
	products product.Repository
	carts    cart.Repository
	ledger   *loyalty.Service
	orders   order.Repository
}

const (
	getPendingQuery    = `SELECT pidx, order_ref, draft, created_at FROM pending_checkout WHERE user_id = $1`
	upsertPendingQuery = `
		INSERT INTO pending_checkout (user_id, pidx, order_ref, draft, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO UPDATE
		SET pidx = EXCLUDED.pidx, order_ref = EXCLUDED.order_ref, draft = EXCLUDED.draft, created_at = EXCLUDED.created_at
	`
	clearPendingQuery = `DELETE FROM pending_checkout WHERE user_id = $1`
)

func NewPostgresStore(db *sql.DB, products product.Repository, carts cart.Repository, ledger *loyalty.Service, orders order.Repository) *PostgresStore {
	return &PostgresStore{db: db, products: products, carts: carts, ledger: ledger, orders: orders}
}

func (s *PostgresStore) CartLines(userID int) ([]cart.Line, error) {
	return s.carts.List(userID)
}

func (s *PostgresStore) GetProduct(id int) (product.Product, error) {
	return s.products.GetByID(id)
}

func (s *PostgresStore) LoyaltyCard(userID int) (loyalty.Card, error) {
	return s.ledger.Card(userID)
}

func (s *PostgresStore) PutPending(userID int, p PendingCheckout) error {
	draft, err := json.Marshal(p.Draft)
	if err != nil {
		return err
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = s.db.Exec(upsertPendingQuery, userID, p.Pidx, p.OrderRef, string(draft), p.CreatedAt)
	return err
}

func (s *PostgresStore) GetPending(userID int) (PendingCheckout, error) {
	var p PendingCheckout
	var rawDraft string
	err := s.db.QueryRow(getPendingQuery, userID).Scan(&p.Pidx, &p.OrderRef, &rawDraft, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return PendingCheckout{}, ErrNoPendingCheckout
	}
	if err != nil {
		return PendingCheckout{}, err
	}
	if err := json.Unmarshal([]byte(rawDraft), &p.Draft); err != nil {
		return PendingCheckout{}, err
	}
	return p, nil
}

func (s *PostgresStore) ClearPending(userID int) error {
	_, err := s.db.Exec(clearPendingQuery, userID)
	return err
}

func (s *PostgresStore) Commit(fn func(Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&postgresTx{tx: tx, store: s}); err != nil {
		return err
	}
	return tx.Commit()
}

type postgresTx struct {
	tx    *sql.Tx
	store *PostgresStore
}

func (p *postgresTx) DecrementStock(productID int, qty int) error {
	return p.store.products.DecrementStock(p.tx, productID, qty)
}

func (p *postgresTx) CreateOrder(ord order.Order, items []order.LineItem) (order.Order, error) {
	return p.store.orders.CreateWithItems(p.tx, ord, items)
}

func (p *postgresTx) RedeemPoints(userID int, points int, reason string) error {
	_, err := p.store.ledger.RedeemTx(p.tx, userID, points, reason)
	return err
}

func (p *postgresTx) EarnPoints(userID int, points int, reason string) error {
	_, err := p.store.ledger.EarnTx(p.tx, userID, points, reason)
	return err
}

func (p *postgresTx) ClearCart(userID int) error {
	return p.store.carts.Clear(p.tx, userID)
}

func (p *postgresTx) ClearPending(userID int) error {
	_, err := p.tx.Exec(clearPendingQuery, userID)
	return err
}
