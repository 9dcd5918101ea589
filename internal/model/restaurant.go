package model

import "time"

type Restaurant struct {
	ID                  int64     `json:"id"`
	OwnerID             int64     `json:"owner_id"`
	Name                string    `json:"name"`
	City                string    `json:"city"`
	Country             string    `json:"country"`
	DeliveryTimeMinutes int       `json:"delivery_time_minutes"`
	Cuisines            []string  `json:"cuisines"`
	ImageURL            string    `json:"image_url"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
