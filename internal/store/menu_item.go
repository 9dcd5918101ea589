package store

import (
	"database/sql"
	"fmt"

	"github.com/avasquez/platefront/internal/model"
)

type MenuItemStore struct {
	db *sql.DB
}

func NewMenuItemStore(db *sql.DB) *MenuItemStore {
	return &MenuItemStore{db: db}
}

func scanMenuItem(scanner interface{ Scan(...any) error }) (*model.MenuItem, error) {
	var m model.MenuItem
	err := scanner.Scan(
		&m.ID, &m.RestaurantID, &m.Name, &m.Description,
		&m.PriceCents, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const menuItemCols = `id, restaurant_id, name, description, price_cents, image_url, created_at, updated_at`

func (s *MenuItemStore) Create(restaurantID int64, name, description string, priceCents int64, imageURL string) (*model.MenuItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO menu_items (restaurant_id, name, description, price_cents, image_url) VALUES (?, ?, ?, ?, ?)`,
		restaurantID, name, description, priceCents, imageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MenuItemStore) GetByID(id int64) (*model.MenuItem, error) {
	row := s.db.QueryRow(`SELECT `+menuItemCols+` FROM menu_items WHERE id = ?`, id)
	m, err := scanMenuItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

func (s *MenuItemStore) ListByRestaurant(restaurantID int64) ([]model.MenuItem, error) {
	rows, err := s.db.Query(
		`SELECT `+menuItemCols+` FROM menu_items WHERE restaurant_id = ? ORDER BY name`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (s *MenuItemStore) Update(id int64, name, description string, priceCents int64, imageURL string) (*model.MenuItem, error) {
	_, err := s.db.Exec(
		`UPDATE menu_items SET name = ?, description = ?, price_cents = ?, image_url = ?, updated_at = datetime('now') WHERE id = ?`,
		name, description, priceCents, imageURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return s.GetByID(id)
}

func (s *MenuItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
