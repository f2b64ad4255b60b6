package address

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listAddressesQuery = `
		SELECT address_id, user_id, label, full_name, street, city, phone, created_at, updated_at
		FROM address
		WHERE user_id = $1
		ORDER BY address_id
	`
	insertAddressQuery = `
		INSERT INTO address (user_id, label, full_name, street, city, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING address_id
	`
	updateAddressQuery = `
		UPDATE address
		SET label = $3, full_name = $4, street = $5, city = $6, phone = $7, updated_at = $8
		WHERE user_id = $1 AND address_id = $2
	`
	deleteAddressQuery = `DELETE FROM address WHERE user_id = $1 AND address_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		var createdAt, updatedAt sql.NullString
		if err := rows.Scan(&a.AddressID, &a.UserID, &a.Label, &a.FullName, &a.Street, &a.City, &a.Phone, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			a.CreatedAt = createdAt.String
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddAddress(a Address) (Address, error) {
	err := r.db.QueryRow(insertAddressQuery,
		a.UserID, a.Label, a.FullName, a.Street, a.City, a.Phone, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.AddressID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) UpdateAddress(userID int, addressID int, a Address) (Address, error) {
	result, err := r.db.Exec(updateAddressQuery,
		userID, addressID, a.Label, a.FullName, a.Street, a.City, a.Phone, a.UpdatedAt,
	)
	if err != nil {
		return Address{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Address{}, err
	}
	if affected == 0 {
		return Address{}, ErrNotFound
	}
	a.UserID = userID
	a.AddressID = addressID
	return a, nil
}

func (r *PostgresRepository) DeleteAddress(userID int, addressID int) error {
	result, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
