package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/checkout"
	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/store"
	"github.com/avasquez/platefront/internal/websocket"
)

type OrderHandler struct {
	orderStore      *store.OrderStore
	restaurantStore *store.RestaurantStore
	menuItemStore   *store.MenuItemStore
	userStore       *store.UserStore
	stripeClient    *checkout.Client
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewOrderHandler(
	os *store.OrderStore,
	rs *store.RestaurantStore,
	ms *store.MenuItemStore,
	us *store.UserStore,
	sc *checkout.Client,
	hub *websocket.Hub,
	logger *slog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderStore:      os,
		restaurantStore: rs,
		menuItemStore:   ms,
		userStore:       us,
		stripeClient:    sc,
		hub:             hub,
		logger:          logger,
	}
}

type checkoutItem struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int64 `json:"quantity"`
}

type checkoutRequest struct {
	RestaurantID    int64          `json:"restaurant_id"`
	Items           []checkoutItem `json:"items"`
	DeliveryName    string         `json:"delivery_name"`
	DeliveryEmail   string         `json:"delivery_email"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryCity    string         `json:"delivery_city"`
}

// CreateCheckoutSession prices the cart server-side, records a pending
// order, and returns the Stripe checkout URL. The order is confirmed by
// the webhook once payment completes.
func (h *OrderHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if req.DeliveryName == "" || req.DeliveryEmail == "" || req.DeliveryAddress == "" || req.DeliveryCity == "" {
		writeError(w, http.StatusBadRequest, "delivery details are required")
		return
	}

	restaurant, err := h.restaurantStore.GetByID(req.RestaurantID)
	if err != nil {
		h.logger.Error("get restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	// Price each line from the menu; client-supplied prices are ignored.
	var items []model.OrderItem
	var totalCents int64
	for _, ci := range req.Items {
		if ci.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "quantity must be positive")
			return
		}
		menuItem, err := h.menuItemStore.GetByID(ci.MenuItemID)
		if err != nil {
			h.logger.Error("get menu item", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if menuItem == nil || menuItem.RestaurantID != restaurant.ID {
			writeError(w, http.StatusBadRequest, "menu item not found on this restaurant")
			return
		}
		items = append(items, model.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			ImageURL:   menuItem.ImageURL,
			PriceCents: menuItem.PriceCents,
			Quantity:   ci.Quantity,
		})
		totalCents += menuItem.PriceCents * ci.Quantity
	}

	order, err := h.orderStore.Create(userID, restaurant.ID, totalCents, req.DeliveryName, req.DeliveryEmail, req.DeliveryAddress, req.DeliveryCity, items)
	if err != nil {
		h.logger.Error("create order", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	sessionID, url, err := h.stripeClient.CreateOrderSession(order)
	if err != nil {
		h.logger.Error("create checkout session", "order_id", order.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}
	if err := h.orderStore.SetStripeSessionID(order.ID, sessionID); err != nil {
		h.logger.Error("set stripe session", "order_id", order.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// ListOwn returns the caller's orders, newest first.
func (h *OrderHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderStore.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// ListRestaurant returns the orders placed against the caller's restaurant.
func (h *OrderHandler) ListRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurantStore.GetByOwnerID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("restaurant lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	orders, err := h.orderStore.ListByRestaurant(restaurant.ID)
	if err != nil {
		h.logger.Error("list restaurant orders", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order through its delivery states. Only the owner
// of the restaurant the order was placed against may move it.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !model.ValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	order, err := h.orderStore.GetByID(id)
	if err != nil {
		h.logger.Error("get order", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	restaurant, err := h.restaurantStore.GetByOwnerID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("restaurant lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil || restaurant.ID != order.RestaurantID {
		writeError(w, http.StatusForbidden, "not your order")
		return
	}

	updated, err := h.orderStore.UpdateStatus(id, req.Status)
	if err != nil {
		h.logger.Error("update order status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	h.hub.BroadcastOrder(websocket.OrderEvent{
		Type:         "order_status",
		OrderID:      updated.ID,
		RestaurantID: updated.RestaurantID,
		Status:       updated.Status,
	})
	writeJSON(w, http.StatusOK, map[string]any{"order": updated})
}
