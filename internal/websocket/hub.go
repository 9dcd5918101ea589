// Package websocket pushes live order events to connected restaurant
// dashboards, so a kitchen sees new and updated orders without polling.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// OrderEvent is broadcast when an order is created or changes status.
type OrderEvent struct {
	Type         string `json:"type"`
	OrderID      int64  `json:"order_id"`
	RestaurantID int64  `json:"restaurant_id"`
	Status       string `json:"status"`
}

// Hub maintains the set of active clients, each scoped to one restaurant,
// and routes order events to the dashboards watching that restaurant.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// BroadcastOrder sends an event to every client watching the event's
// restaurant.
func (h *Hub) BroadcastOrder(ev OrderEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal order event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.restaurantID != ev.RestaurantID {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop rather than block the order path
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
