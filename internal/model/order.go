package model

import "time"

// Order statuses, in the sequence a restaurant moves them through.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "outfordelivery"
	OrderStatusDelivered      = "delivered"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID              int64       `json:"id"`
	Reference       string      `json:"reference"`
	UserID          int64       `json:"user_id"`
	RestaurantID    int64       `json:"restaurant_id"`
	Status          string      `json:"status"`
	TotalCents      int64       `json:"total_cents"`
	DeliveryName    string      `json:"delivery_name"`
	DeliveryEmail   string      `json:"delivery_email"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryCity    string      `json:"delivery_city"`
	StripeSessionID *string     `json:"-"`
	Items           []OrderItem `json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int64  `json:"quantity"`
}
