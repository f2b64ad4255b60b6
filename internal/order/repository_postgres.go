package order

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `order_id, user_id, full_name, street, city, phone,
		subtotal, delivery_charge, discount, total, delivery_option,
		payment_method, payment_status, order_status, points_earned, points_redeemed,
		tracking_number, carrier, delivered_at, delivery_confirmed, dispatcher_notes, created_at`

	insertOrderQuery = `
		INSERT INTO orders (user_id, full_name, street, city, phone,
			subtotal, delivery_charge, discount, total, delivery_option,
			payment_method, payment_status, order_status, points_earned, points_redeemed, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING order_id
	`
	insertLineItemQuery = `
		INSERT INTO order_item (order_id, product_id, product_name, price, quantity, subtotal)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING line_item_id
	`
	getOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	listByUserQuery = `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY order_id DESC`

	listAllQuery = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_id DESC`

	listItemsQuery = `
		SELECT line_item_id, order_id, product_id, product_name, price, quantity, subtotal
		FROM order_item
		WHERE order_id = ANY($1::int[])
		ORDER BY line_item_id
	`
	updateStatusQuery   = `UPDATE orders SET order_status = $2 WHERE order_id = $1`
	updateTrackingQuery = `
		UPDATE orders
		SET tracking_number = $2,
			carrier = $3,
			delivered_at = $4,
			delivery_confirmed = $5,
			dispatcher_notes = $6
		WHERE order_id = $1
	`
	deleteItemsQuery = `DELETE FROM order_item WHERE order_id = $1`
	deleteOrderQuery = `DELETE FROM orders WHERE order_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateWithItems(q DBTX, ord Order, items []LineItem) (Order, error) {
	if q == nil {
		q = r.db
	}

	err := q.QueryRow(insertOrderQuery,
		ord.UserID, ord.FullName, ord.Street, ord.City, ord.Phone,
		ord.Subtotal, ord.DeliveryCharge, ord.Discount, ord.Total, ord.DeliveryOption,
		ord.PaymentMethod, ord.PaymentStatus, ord.Status, ord.PointsEarned, ord.PointsRedeemed, ord.CreatedAt,
	).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}

	ord.Items = make([]LineItem, 0, len(items))
	for _, item := range items {
		item.OrderID = ord.ID
		if err := q.QueryRow(insertLineItemQuery,
			item.OrderID, item.ProductID, item.Name, item.Price, item.Quantity, item.Subtotal,
		).Scan(&item.ID); err != nil {
			return Order{}, err
		}
		ord.Items = append(ord.Items, item)
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	if err := r.attachItems([]*Order{&ord}); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllQuery)
}

func (r *PostgresRepository) UpdateStatus(id int, status string) error {
	result, err := r.db.Exec(updateStatusQuery, id, status)
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

func (r *PostgresRepository) UpdateTracking(id int, upd TrackingUpdate, deliveredAt *string) error {
	ord, err := r.GetByID(id)
	if err != nil {
		return err
	}

	if upd.TrackingNumber != nil {
		ord.TrackingNumber = upd.TrackingNumber
	}
	if upd.Carrier != nil {
		ord.Carrier = upd.Carrier
	}
	if upd.DeliveryConfirmed != nil {
		ord.DeliveryConfirmed = *upd.DeliveryConfirmed
	}
	if upd.DispatcherNotes != nil {
		ord.DispatcherNotes = upd.DispatcherNotes
	}
	if deliveredAt != nil {
		ord.DeliveredAt = deliveredAt
	}

	_, err = r.db.Exec(updateTrackingQuery, id,
		ord.TrackingNumber, ord.Carrier, ord.DeliveredAt, ord.DeliveryConfirmed, ord.DispatcherNotes)
	return err
}

// Delete removes the order and the line items it owns in one transaction.
func (r *PostgresRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(deleteItemsQuery, id); err != nil {
		return err
	}
	result, err := tx.Exec(deleteOrderQuery, id)
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
	return tx.Commit()
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachItems(refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the line items for all given orders in one query.
func (r *PostgresRepository) attachItems(orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int, 0, len(orders))
	byID := make(map[int]*Order, len(orders))
	for _, ord := range orders {
		ids = append(ids, ord.ID)
		byID[ord.ID] = ord
	}

	rows, err := r.db.Query(listItemsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Subtotal); err != nil {
			return err
		}
		if ord, ok := byID[item.OrderID]; ok {
			ord.Items = append(ord.Items, item)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(scanner rowScanner) (Order, error) {
	var ord Order
	var tracking, carrier, deliveredAt, notes sql.NullString
	if err := scanner.Scan(
		&ord.ID, &ord.UserID, &ord.FullName, &ord.Street, &ord.City, &ord.Phone,
		&ord.Subtotal, &ord.DeliveryCharge, &ord.Discount, &ord.Total, &ord.DeliveryOption,
		&ord.PaymentMethod, &ord.PaymentStatus, &ord.Status, &ord.PointsEarned, &ord.PointsRedeemed,
		&tracking, &carrier, &deliveredAt, &ord.DeliveryConfirmed, &notes, &ord.CreatedAt,
	); err != nil {
		return Order{}, err
	}
	if tracking.Valid {
		ord.TrackingNumber = &tracking.String
	}
	if carrier.Valid {
		ord.Carrier = &carrier.String
	}
	if deliveredAt.Valid {
		ord.DeliveredAt = &deliveredAt.String
	}
	if notes.Valid {
		ord.DispatcherNotes = &notes.String
	}
	return ord, nil
}
