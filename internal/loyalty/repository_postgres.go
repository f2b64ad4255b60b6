package loyalty

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCardQuery = `
		SELECT card_id, user_id, points, tier
		FROM loyalty_card
		WHERE user_id = $1
	`
	insertCardQuery = `
		INSERT INTO loyalty_card (user_id, points, tier)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	saveCardQuery = `
		UPDATE loyalty_card
		SET points = $2, tier = $3
		WHERE user_id = $1
	`
	insertTransactionQuery = `
		INSERT INTO loyalty_transaction (user_id, points, kind, description, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING transaction_id
	`
	listTransactionsQuery = `
		SELECT transaction_id, user_id, points, kind, description, created_at
		FROM loyalty_transaction
		WHERE user_id = $1
		ORDER BY transaction_id DESC
	`
	insertSaleQuery = `
		INSERT INTO sale (user_id, amount, items, sale_date)
		VALUES ($1,$2,$3,$4)
		RETURNING sale_id
	`
	listSalesQuery = `
		SELECT sale_id, user_id, amount, items, sale_date
		FROM sale
		ORDER BY sale_id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) q(q DBTX) DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// GetOrCreateCard reads the user's card, inserting a fresh Silver card on
// first access. The insert is ON CONFLICT DO NOTHING so two concurrent first
// accesses cannot create two cards.
func (r *PostgresRepository) GetOrCreateCard(q DBTX, userID int) (Card, error) {
	db := r.q(q)

	card, err := scanCard(db.QueryRow(getCardQuery, userID))
	if err == nil {
		return card, nil
	}
	if err != sql.ErrNoRows {
		return Card{}, err
	}

	if _, err := db.Exec(insertCardQuery, userID, TierSilver); err != nil {
		return Card{}, err
	}
	return scanCard(db.QueryRow(getCardQuery, userID))
}

func (r *PostgresRepository) SaveCard(q DBTX, card Card) error {
	_, err := r.q(q).Exec(saveCardQuery, card.UserID, card.Points, card.Tier)
	return err
}

func (r *PostgresRepository) AppendTransaction(q DBTX, t Transaction) (Transaction, error) {
	err := r.q(q).QueryRow(insertTransactionQuery, t.UserID, t.Points, string(t.Kind), t.Description, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (r *PostgresRepository) ListTransactions(userID int) ([]Transaction, error) {
	rows, err := r.db.Query(listTransactionsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		var kind string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Points, &kind, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Kind = Kind(kind)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) InsertSale(q DBTX, s Sale) (Sale, error) {
	err := r.q(q).QueryRow(insertSaleQuery, s.UserID, s.Amount, s.Items, s.Date).Scan(&s.ID)
	if err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *PostgresRepository) ListSales() ([]Sale, error) {
	rows, err := r.db.Query(listSalesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Sale, 0)
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.Amount, &s.Items, &s.Date); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(scanner rowScanner) (Card, error) {
	var card Card
	if err := scanner.Scan(&card.ID, &card.UserID, &card.Points, &card.Tier); err != nil {
		return Card{}, err
	}
	return card, nil
}
