package cart

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// PostgresRepository keeps one row per user in the carts table with the lines
// stored as a jsonb map of productID -> line.
type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery    = `SELECT lines FROM carts WHERE user_id = $1`
	upsertCartQuery = `
		INSERT INTO carts (user_id, lines, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET lines = EXCLUDED.lines, updated_at = EXCLUDED.updated_at
	`
	clearCartQuery = `DELETE FROM carts WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(userID int) ([]Line, error) {
	m, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	return mapToLines(m), nil
}

func (r *PostgresRepository) Add(userID int, line Line) ([]Line, error) {
	m, err := r.load(userID)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(line.ProductID)
	if existing, ok := m[key]; ok {
		existing.Quantity += line.Quantity
		if existing.Quantity <= 0 {
			delete(m, key)
		} else {
			m[key] = existing
		}
	} else if line.Quantity > 0 {
		m[key] = line
	}

	if err := r.store(userID, m); err != nil {
		return nil, err
	}
	return mapToLines(m), nil
}

func (r *PostgresRepository) SetQuantity(userID int, productID int, qty int) ([]Line, error) {
	m, err := r.load(userID)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(productID)
	existing, ok := m[key]
	if !ok {
		return nil, ErrNotFound
	}
	if qty <= 0 {
		delete(m, key)
	} else {
		existing.Quantity = qty
		m[key] = existing
	}

	if err := r.store(userID, m); err != nil {
		return nil, err
	}
	return mapToLines(m), nil
}

func (r *PostgresRepository) Remove(userID int, productID int) ([]Line, error) {
	return r.SetQuantity(userID, productID, 0)
}

func (r *PostgresRepository) Clear(q DBTX, userID int) error {
	if q == nil {
		q = r.db
	}
	_, err := q.Exec(clearCartQuery, userID)
	return err
}

func (r *PostgresRepository) load(userID int) (map[string]Line, error) {
	var raw sql.NullString
	err := r.db.QueryRow(getCartQuery, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return map[string]Line{}, nil
	}
	if err != nil {
		return nil, err
	}

	m := make(map[string]Line)
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *PostgresRepository) store(userID int, m map[string]Line) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(upsertCartQuery, userID, string(raw), nowRFC3339())
	return err
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func mapToLines(m map[string]Line) []Line {
	out := make([]Line, 0, len(m))
	for key, ln := range m {
		if ln.ProductID == 0 {
			if pid, err := strconv.Atoi(key); err == nil {
				ln.ProductID = pid
			}
		}
		out = append(out, ln)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
