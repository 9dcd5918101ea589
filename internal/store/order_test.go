package store

import (
	"testing"

	"github.com/avasquez/platefront/internal/database"
	"github.com/avasquez/platefront/internal/model"
)

type orderTestEnv struct {
	orders       *OrderStore
	userID       int64
	restaurantID int64
	menuItemID   int64
}

func setupOrderTest(t *testing.T) orderTestEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ownerID := insertOwner(t, db, "owner@example.com")
	dinerID := insertOwner(t, db, "diner@example.com")
	r, err := NewRestaurantStore(db).Create(ownerID, "Casa Verde", "Lisbon", "Portugal", 35, nil, "")
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	item, err := NewMenuItemStore(db).Create(r.ID, "Bacalhau", "", 1450, "")
	if err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return orderTestEnv{
		orders:       NewOrderStore(db),
		userID:       dinerID,
		restaurantID: r.ID,
		menuItemID:   item.ID,
	}
}

func (env orderTestEnv) createOrder(t *testing.T) *model.Order {
	t.Helper()
	o, err := env.orders.Create(env.userID, env.restaurantID, 2900,
		"Dana", "diner@example.com", "1 Main St", "Lisbon",
		[]model.OrderItem{{MenuItemID: env.menuItemID, Name: "Bacalhau", PriceCents: 1450, Quantity: 2}},
	)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestOrderCreate(t *testing.T) {
	env := setupOrderTest(t)

	o := env.createOrder(t)
	if o.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if o.Reference == "" {
		t.Error("expected a reference")
	}
	if o.Status != model.OrderStatusPending {
		t.Errorf("status = %q, want %q", o.Status, model.OrderStatusPending)
	}
	if len(o.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(o.Items))
	}
	if o.Items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", o.Items[0].Quantity)
	}
}

func TestOrderStripeSessionLookup(t *testing.T) {
	env := setupOrderTest(t)

	o := env.createOrder(t)
	if err := env.orders.SetStripeSessionID(o.ID, "cs_test_123"); err != nil {
		t.Fatalf("set stripe session: %v", err)
	}

	found, err := env.orders.GetByStripeSessionID("cs_test_123")
	if err != nil {
		t.Fatalf("get by stripe session: %v", err)
	}
	if found == nil || found.ID != o.ID {
		t.Fatalf("got %+v, want order %d", found, o.ID)
	}

	missing, err := env.orders.GetByStripeSessionID("cs_test_999")
	if err != nil {
		t.Fatalf("get by stripe session: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	env := setupOrderTest(t)

	o := env.createOrder(t)
	updated, err := env.orders.UpdateStatus(o.ID, model.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.OrderStatusConfirmed {
		t.Errorf("status = %q, want %q", updated.Status, model.OrderStatusConfirmed)
	}
}

func TestOrderListByUserAndRestaurant(t *testing.T) {
	env := setupOrderTest(t)

	env.createOrder(t)
	env.createOrder(t)

	byUser, err := env.orders.ListByUser(env.userID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("by user: got %d orders, want 2", len(byUser))
	}
	if len(byUser) > 0 && len(byUser[0].Items) != 1 {
		t.Errorf("expected items loaded, got %d", len(byUser[0].Items))
	}

	byRestaurant, err := env.orders.ListByRestaurant(env.restaurantID)
	if err != nil {
		t.Fatalf("list by restaurant: %v", err)
	}
	if len(byRestaurant) != 2 {
		t.Errorf("by restaurant: got %d orders, want 2", len(byRestaurant))
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "preparing", "outfordelivery", "delivered"} {
		if !model.ValidOrderStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if model.ValidOrderStatus("shipped") {
		t.Error("shipped should be invalid")
	}
}
