package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, product_name, product_price, stock, category, product_desc, created_at, updated_at
		FROM product
		ORDER BY product_id
	`
	listByCategoryQuery = `
		SELECT product_id, product_name, product_price, stock, category, product_desc, created_at, updated_at
		FROM product
		WHERE category = $1
		ORDER BY product_id
	`
	getProductByIDQuery = `
		SELECT product_id, product_name, product_price, stock, category, product_desc, created_at, updated_at
		FROM product
		WHERE product_id = $1
	`
	insertProductQuery = `
		INSERT INTO product (product_name, product_price, stock, category, product_desc, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE product
		SET product_name = $1,
			product_price = $2,
			stock = $3,
			category = $4,
			product_desc = $5,
			updated_at = $6
		WHERE product_id = $7
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`

	decrementStockQuery = `
		UPDATE product
		SET stock = stock - $2
		WHERE product_id = $1 AND stock >= $2
	`
	getStockQuery = `SELECT stock FROM product WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) ListByCategory(category string) []Product {
	rows, err := r.db.Query(listByCategoryQuery, category)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Price,
		p.Stock,
		p.Category,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name,
		p.Price,
		p.Stock,
		p.Category,
		p.Description,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
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

// DecrementStock performs the guarded decrement. A zero-row update means the
// guard rejected the write: either the row is gone or stock ran out, so we
// look the row up once more to tell the two apart.
func (r *PostgresRepository) DecrementStock(q DBTX, id int, qty int) error {
	if q == nil {
		q = r.db
	}
	result, err := q.Exec(decrementStockQuery, id, qty)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var stock int
		if err := q.QueryRow(getStockQuery, id).Scan(&stock); err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}
		return ErrOutOfStock
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var category sql.NullString
	var desc sql.NullString
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
		&category,
		&desc,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}

	if category.Valid {
		p.Category = &category.String
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.String
	}

	return p, nil
}
