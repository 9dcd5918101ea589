// Package checkout wraps the Stripe API surface the order flow needs:
// creating a payment checkout session from an order's line items and
// verifying webhook signatures.
package checkout

import (
	"fmt"
	"strconv"

	stripe "github.com/stripe/stripe-go/v82"
	checksession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/avasquez/platefront/internal/model"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Client{cfg: cfg}
}

// Configured returns true if the secret key is set.
func (c *Client) Configured() bool {
	return c.cfg.SecretKey != ""
}

// CreateOrderSession creates a one-time payment checkout session for the
// order and returns its ID and URL. The order ID travels in the session
// metadata so the webhook can find it again.
func (c *Client) CreateOrderSession(order *model.Order) (string, string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		li := &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(c.cfg.Currency),
				UnitAmount: stripe.Int64(item.PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		}
		if item.ImageURL != "" {
			li.PriceData.ProductData.Images = []*string{stripe.String(item.ImageURL)}
		}
		lineItems = append(lineItems, li)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(order.DeliveryEmail),
		SuccessURL:    stripe.String(c.cfg.SuccessURL),
		CancelURL:     stripe.String(c.cfg.CancelURL),
		Metadata: map[string]string{
			"order_id": strconv.FormatInt(order.ID, 10),
		},
	}

	sess, err := checksession.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// ConstructWebhookEvent verifies the signature and returns the parsed event.
func (c *Client) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.cfg.WebhookSecret)
}
