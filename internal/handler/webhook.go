package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/avasquez/platefront/internal/checkout"
	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/store"
	"github.com/avasquez/platefront/internal/websocket"
)

type WebhookHandler struct {
	stripeClient *checkout.Client
	orderStore   *store.OrderStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewWebhookHandler(sc *checkout.Client, os *store.OrderStore, hub *websocket.Hub, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		stripeClient: sc,
		orderStore:   os,
		hub:          hub,
		logger:       logger,
	}
}

// HandleStripeWebhook confirms pending orders when their checkout session
// completes.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	event, err := h.stripeClient.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	if event.Type == "checkout.session.completed" {
		h.handleCheckoutCompleted(event)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Error("webhook: unmarshal checkout session", "error", err)
		return
	}

	order, err := h.orderStore.GetByStripeSessionID(sess.ID)
	if err != nil {
		h.logger.Error("webhook: get order", "error", err)
		return
	}
	if order == nil {
		h.logger.Warn("webhook: no order for checkout session")
		return
	}
	if order.Status != model.OrderStatusPending {
		// Stripe retries webhooks; a confirmed order stays confirmed.
		return
	}

	updated, err := h.orderStore.UpdateStatus(order.ID, model.OrderStatusConfirmed)
	if err != nil {
		h.logger.Error("webhook: confirm order", "order_id", order.ID, "error", err)
		return
	}

	h.hub.BroadcastOrder(websocket.OrderEvent{
		Type:         "order_created",
		OrderID:      updated.ID,
		RestaurantID: updated.RestaurantID,
		Status:       updated.Status,
	})
	h.logger.Info("order confirmed", "order_id", updated.ID)
}
