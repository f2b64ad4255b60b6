package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listUsersQuery = `
		SELECT user_id, username, email, password, role, created_at
		FROM users
		ORDER BY user_id
	`
	getUserByIDQuery       = `SELECT user_id, username, email, password, role, created_at FROM users WHERE user_id = $1`
	getUserByUsernameQuery = `SELECT user_id, username, email, password, role, created_at FROM users WHERE username = $1`
	getUserByEmailQuery    = `SELECT user_id, username, email, password, role, created_at FROM users WHERE email = $1`
	insertUserQuery        = `
		INSERT INTO users (username, email, password, role, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING user_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.getOne(getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByUsername(username string) (User, error) {
	return r.getOne(getUserByUsernameQuery, username)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.getOne(getUserByEmailQuery, email)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	var id int
	err := r.db.QueryRow(insertUserQuery, u.Username, u.Email, u.Password, string(u.Role), u.CreatedAt).Scan(&id)
	if err != nil {
		return User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *PostgresRepository) getOne(query string, arg any) (User, error) {
	row := r.db.QueryRow(query, arg)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(scanner rowScanner) (User, error) {
	u := User{}
	var role string
	var createdAt sql.NullString
	if err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &role, &createdAt); err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	if createdAt.Valid {
		u.CreatedAt = createdAt.String
	}
	return u, nil
}
