package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/avasquez/platefront/internal/account"
	"github.com/avasquez/platefront/internal/checkout"
	"github.com/avasquez/platefront/internal/email"
	"github.com/avasquez/platefront/internal/handler"
	"github.com/avasquez/platefront/internal/imagestore"
	"github.com/avasquez/platefront/internal/middleware"
	"github.com/avasquez/platefront/internal/session"
	"github.com/avasquez/platefront/internal/store"
	ws "github.com/avasquez/platefront/internal/websocket"
)

// Config carries everything the server wiring needs beyond the database.
type Config struct {
	BaseURL       string
	SessionSecret []byte
	SecureCookies bool
	Email         *email.Client
	Checkout      checkout.Config
	Images        imagestore.Config
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	profileH    *handler.ProfileHandler
	restaurantH *handler.RestaurantHandler
	menuH       *handler.MenuHandler
	orderH      *handler.OrderHandler
	webhookH    *handler.WebhookHandler
	adminH      *handler.AdminHandler
	issuer      *session.Issuer
	userStore   *store.UserStore
	restStore   *store.RestaurantStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	restaurantStore := store.NewRestaurantStore(db)
	menuItemStore := store.NewMenuItemStore(db)
	orderStore := store.NewOrderStore(db)

	issuer := session.NewIssuer(cfg.SessionSecret, session.DefaultTTL)
	accounts := account.NewManager(userStore, cfg.Email, issuer, cfg.BaseURL, logger.With("component", "account"))
	stripeClient := checkout.NewClient(cfg.Checkout)
	images := imagestore.New(cfg.Images)

	cookieMaxAge := int(session.DefaultTTL / time.Second)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(accounts, cookieMaxAge, cfg.SecureCookies, logger.With("component", "auth")),
		profileH:    handler.NewProfileHandler(userStore, images, logger.With("component", "profile")),
		restaurantH: handler.NewRestaurantHandler(restaurantStore, menuItemStore, images, logger.With("component", "restaurant")),
		menuH:       handler.NewMenuHandler(restaurantStore, menuItemStore, images, logger.With("component", "menu")),
		orderH:      handler.NewOrderHandler(orderStore, restaurantStore, menuItemStore, userStore, stripeClient, hub, logger.With("component", "order")),
		webhookH:    handler.NewWebhookHandler(stripeClient, orderStore, hub, logger.With("component", "webhook")),
		adminH:      handler.NewAdminHandler(userStore, logger.With("component", "admin")),
		issuer:      issuer,
		userStore:   userStore,
		restStore:   restaurantStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. The credential endpoints sit behind the per-IP
	// rate limiter; the lifecycle core does no throttling of its own.
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/verify-email", s.rateLimitedHandler(s.authH.VerifyEmail))
	outerMux.HandleFunc("POST /api/auth/resend-verification", s.rateLimitedHandler(s.authH.ResendVerification))
	outerMux.HandleFunc("POST /api/auth/forgot-password", s.rateLimitedHandler(s.authH.ForgotPassword))
	outerMux.HandleFunc("POST /api/auth/reset-password/{token}", s.rateLimitedHandler(s.authH.ResetPassword))
	outerMux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	outerMux.HandleFunc("GET /api/auth/check", s.authH.Check)
	outerMux.HandleFunc("POST /api/webhook/stripe", s.webhookH.HandleStripeWebhook)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.issuer, s.userStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Profile
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)

	// Restaurant (owner side)
	mux.HandleFunc("POST /api/restaurant", s.restaurantH.Create)
	mux.HandleFunc("GET /api/restaurant", s.restaurantH.GetOwn)
	mux.HandleFunc("PUT /api/restaurant", s.restaurantH.Update)
	mux.HandleFunc("GET /api/restaurant/orders", s.orderH.ListRestaurant)

	// Restaurant (diner side)
	mux.HandleFunc("GET /api/restaurants/search/{city}", s.restaurantH.Search)
	mux.HandleFunc("GET /api/restaurants/{id}", s.restaurantH.Get)

	// Menu
	mux.HandleFunc("POST /api/menu", s.menuH.Create)
	mux.HandleFunc("PUT /api/menu/{id}", s.menuH.Update)
	mux.HandleFunc("DELETE /api/menu/{id}", s.menuH.Delete)

	// Orders
	mux.HandleFunc("GET /api/orders", s.orderH.ListOwn)
	mux.HandleFunc("POST /api/checkout/session", s.orderH.CreateCheckoutSession)
	mux.HandleFunc("PUT /api/orders/{id}/status", s.orderH.UpdateStatus)

	// Operator surface, gated on the account's admin flag
	mux.Handle("GET /api/admin/users", middleware.RequireAdmin(http.HandlerFunc(s.adminH.ListUsers)))

	// Live order events for restaurant dashboards
	mux.HandleFunc("GET /api/ws/orders", ws.HandleWebSocket(s.hub, s.restStore, s.logger.With("component", "websocket")))
}
