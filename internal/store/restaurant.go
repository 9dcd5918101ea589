package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avasquez/platefront/internal/model"
)

type RestaurantStore struct {
	db *sql.DB
}

func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

func scanRestaurant(scanner interface{ Scan(...any) error }) (*model.Restaurant, error) {
	var r model.Restaurant
	var cuisines string
	err := scanner.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.City, &r.Country,
		&r.DeliveryTimeMinutes, &cuisines, &r.ImageURL,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cuisines), &r.Cuisines); err != nil {
		return nil, fmt.Errorf("decode cuisines: %w", err)
	}
	return &r, nil
}

const restaurantCols = `id, owner_id, name, city, country, delivery_time_minutes, cuisines, image_url, created_at, updated_at`

func encodeCuisines(cuisines []string) (string, error) {
	if cuisines == nil {
		cuisines = []string{}
	}
	b, err := json.Marshal(cuisines)
	if err != nil {
		return "", fmt.Errorf("encode cuisines: %w", err)
	}
	return string(b), nil
}

// Create inserts a restaurant for the owner. The unique index on owner_id
// rejects a second restaurant for the same account.
func (s *RestaurantStore) Create(ownerID int64, name, city, country string, deliveryTime int, cuisines []string, imageURL string) (*model.Restaurant, error) {
	encoded, err := encodeCuisines(cuisines)
	if err != nil {
		return nil, err
	}
	result, err := s.db.Exec(
		`INSERT INTO restaurants (owner_id, name, city, country, delivery_time_minutes, cuisines, image_url) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ownerID, name, city, country, deliveryTime, encoded, imageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) GetByID(id int64) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

func (s *RestaurantStore) GetByOwnerID(ownerID int64) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE owner_id = ?`, ownerID)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner: %w", err)
	}
	return r, nil
}

// SearchByCity returns restaurants whose city matches, case-insensitively.
func (s *RestaurantStore) SearchByCity(city string) ([]model.Restaurant, error) {
	rows, err := s.db.Query(
		`SELECT `+restaurantCols+` FROM restaurants WHERE city = ? COLLATE NOCASE ORDER BY name`,
		city,
	)
	if err != nil {
		return nil, fmt.Errorf("search restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, *r)
	}
	return restaurants, rows.Err()
}

func (s *RestaurantStore) Update(id int64, name, city, country string, deliveryTime int, cuisines []string, imageURL string) (*model.Restaurant, error) {
	encoded, err := encodeCuisines(cuisines)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(
		`UPDATE restaurants SET name = ?, city = ?, country = ?, delivery_time_minutes = ?, cuisines = ?, image_url = ?, updated_at = datetime('now') WHERE id = ?`,
		name, city, country, deliveryTime, encoded, imageURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return s.GetByID(id)
}
