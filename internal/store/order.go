package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avasquez/platefront/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(scanner interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var stripeSessionID sql.NullString
	err := scanner.Scan(
		&o.ID, &o.Reference, &o.UserID, &o.RestaurantID, &o.Status,
		&o.TotalCents, &o.DeliveryName, &o.DeliveryEmail,
		&o.DeliveryAddress, &o.DeliveryCity, &stripeSessionID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if stripeSessionID.Valid {
		o.StripeSessionID = &stripeSessionID.String
	}
	return &o, nil
}

const orderCols = `id, reference, user_id, restaurant_id, status, total_cents, delivery_name, delivery_email, delivery_address, delivery_city, stripe_session_id, created_at, updated_at`

// Create inserts an order and its line items in one transaction.
func (s *OrderStore) Create(userID, restaurantID int64, totalCents int64, deliveryName, deliveryEmail, deliveryAddress, deliveryCity string, items []model.OrderItem) (*model.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	reference := uuid.NewString()
	result, err := tx.Exec(
		`INSERT INTO orders (reference, user_id, restaurant_id, status, total_cents, delivery_name, delivery_email, delivery_address, delivery_city) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reference, userID, restaurantID, model.OrderStatusPending, totalCents,
		deliveryName, deliveryEmail, deliveryAddress, deliveryCity,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(
			`INSERT INTO order_items (order_id, menu_item_id, name, image_url, price_cents, quantity) VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, item.MenuItemID, item.Name, item.ImageURL, item.PriceCents, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(orderID)
}

// GetByID returns the order with its line items, or nil if not found.
func (s *OrderStore) GetByID(id int64) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := s.loadItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) GetByStripeSessionID(sessionID string) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE stripe_session_id = ?`, sessionID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order by stripe session: %w", err)
	}
	if err := s.loadItems(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) ListByUser(userID int64) ([]model.Order, error) {
	return s.list(`SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *OrderStore) ListByRestaurant(restaurantID int64) ([]model.Order, error) {
	return s.list(`SELECT `+orderCols+` FROM orders WHERE restaurant_id = ? ORDER BY created_at DESC`, restaurantID)
}

func (s *OrderStore) list(query string, arg any) ([]model.Order, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadItems(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderStore) loadItems(o *model.Order) error {
	rows, err := s.db.Query(
		`SELECT id, order_id, menu_item_id, name, image_url, price_cents, quantity FROM order_items WHERE order_id = ? ORDER BY id`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.ImageURL, &item.PriceCents, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (s *OrderStore) SetStripeSessionID(id int64, sessionID string) error {
	_, err := s.db.Exec(
		`UPDATE orders SET stripe_session_id = ?, updated_at = datetime('now') WHERE id = ?`,
		sessionID, id,
	)
	if err != nil {
		return fmt.Errorf("set stripe session id: %w", err)
	}
	return nil
}

func (s *OrderStore) UpdateStatus(id int64, status string) (*model.Order, error) {
	_, err := s.db.Exec(
		`UPDATE orders SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return s.GetByID(id)
}
