package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/store"
)

// HandleWebSocket upgrades a connection for the authenticated restaurant
// owner's dashboard. Users without a restaurant have nothing to watch.
func HandleWebSocket(hub *Hub, restaurants *store.RestaurantStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurant, err := restaurants.GetByOwnerID(auth.UserID(r.Context()))
		if err != nil {
			logger.Error("websocket restaurant lookup", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if restaurant == nil {
			http.Error(w, "no restaurant", http.StatusForbidden)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, restaurant.ID)
		client.Run(r.Context())
	}
}
