package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avasquez/platefront/internal/checkout"
	"github.com/avasquez/platefront/internal/database"
	"github.com/avasquez/platefront/internal/email"
	"github.com/avasquez/platefront/internal/imagestore"
	"github.com/avasquez/platefront/internal/logging"
	"github.com/avasquez/platefront/internal/server"
)

func main() {
	// Load .env if present (ok if missing in prod).
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("PLATEFRONT_LOG_LEVEL"), os.Getenv("PLATEFRONT_LOG_FORMAT"))

	port := os.Getenv("PLATEFRONT_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("PLATEFRONT_DB_PATH")
	if dbPath == "" {
		dbPath = "platefront.db"
	}

	baseURL := os.Getenv("PLATEFRONT_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", port)
	}

	sessionSecret := os.Getenv("PLATEFRONT_SESSION_SECRET")
	if sessionSecret == "" {
		slog.Error("PLATEFRONT_SESSION_SECRET is required")
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Email config
	postmarkToken := os.Getenv("PLATEFRONT_POSTMARK_TOKEN")
	fromEmail := os.Getenv("PLATEFRONT_FROM_EMAIL")
	emailClient := email.NewClient(postmarkToken, fromEmail)

	cfg := server.Config{
		BaseURL:       baseURL,
		SessionSecret: []byte(sessionSecret),
		SecureCookies: os.Getenv("PLATEFRONT_SECURE_COOKIES") == "true",
		Email:         emailClient,
		Checkout: checkout.Config{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			SuccessURL:    baseURL + "/orders?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:     baseURL + "/cart",
			Currency:      os.Getenv("PLATEFRONT_CURRENCY"),
		},
		Images: imagestore.Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("platefront starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
