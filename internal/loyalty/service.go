package loyalty

import (
	"database/sql"
	"errors"
	"time"
)

var ErrBadAmount = errors.New("amount must be positive")

// EarnRate is how much subtotal buys one point: 1 point per 10 rupees.
const EarnRate = 10

// PointsFor converts a sale or order subtotal into earned points.
func PointsFor(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount / EarnRate)
}

// Service mutates loyalty balances. Every balance change appends exactly one
// ledger transaction and recomputes the tier before anything is saved.
type Service struct {
	db   *sql.DB
	repo Repository
}

// NewService builds the ledger service. db may be nil when the repository is
// an in-memory one; it is only used to open transactions for manual sales.
func NewService(db *sql.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Card returns the user's card, creating it on first access.
func (s *Service) Card(userID int) (Card, error) {
	return s.repo.GetOrCreateCard(nil, userID)
}

func (s *Service) History(userID int) ([]Transaction, error) {
	return s.repo.ListTransactions(userID)
}

func (s *Service) Sales() ([]Sale, error) {
	return s.repo.ListSales()
}

// EarnTx credits points within the caller's transaction. Earning zero points
// is a no-op rather than an empty ledger row.
func (s *Service) EarnTx(q DBTX, userID int, points int, reason string) (Card, error) {
	card, err := s.repo.GetOrCreateCard(q, userID)
	if err != nil {
		return Card{}, err
	}
	if points <= 0 {
		return card, nil
	}

	card.Points += points
	card.Tier = TierFor(card.Points)
	if err := s.repo.SaveCard(q, card); err != nil {
		return Card{}, err
	}
	if _, err := s.repo.AppendTransaction(q, Transaction{
		UserID:      userID,
		Points:      points,
		Kind:        KindEarn,
		Description: reason,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return Card{}, err
	}
	return card, nil
}

// RedeemTx debits points within the caller's transaction. The balance guard
// makes an overdraw impossible even if the caller's cap logic was wrong.
func (s *Service) RedeemTx(q DBTX, userID int, points int, reason string) (Card, error) {
	card, err := s.repo.GetOrCreateCard(q, userID)
	if err != nil {
		return Card{}, err
	}
	if points <= 0 {
		return card, nil
	}
	if points > card.Points {
		return Card{}, ErrInsufficientPoints
	}

	card.Points -= points
	card.Tier = TierFor(card.Points)
	if err := s.repo.SaveCard(q, card); err != nil {
		return Card{}, err
	}
	if _, err := s.repo.AppendTransaction(q, Transaction{
		UserID:      userID,
		Points:      points,
		Kind:        KindRedeem,
		Description: reason,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return Card{}, err
	}
	return card, nil
}

// RecordManualSale records an over-the-counter sale and credits the earned
// points in a single transaction. Admin-only; the role check happens at the
// handler boundary.
func (s *Service) RecordManualSale(userID int, amount float64, items string) (Sale, Card, error) {
	if amount <= 0 {
		return Sale{}, Card{}, ErrBadAmount
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Sale{}, Card{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sale, err := s.repo.InsertSale(tx, Sale{
		UserID: userID,
		Amount: amount,
		Items:  items,
		Date:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Sale{}, Card{}, err
	}

	card, err := s.EarnTx(tx, userID, PointsFor(amount), "Manual sale: "+items)
	if err != nil {
		return Sale{}, Card{}, err
	}

	if err := tx.Commit(); err != nil {
		return Sale{}, Card{}, err
	}
	return sale, card, nil
}
