package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/database"
	"github.com/avasquez/platefront/internal/middleware"
	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/store"
)

func newAdminTestHandler(t *testing.T) (*AdminHandler, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := store.NewUserStore(db)
	return NewAdminHandler(us, slog.New(slog.DiscardHandler)), us
}

func TestAdminListUsers(t *testing.T) {
	h, us := newAdminTestHandler(t)

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		if _, err := us.Create(email, "Someone", "hash", "", "123456", time.Now().UTC().Add(time.Hour)); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	gated := middleware.RequireAdmin(http.HandlerFunc(h.ListUsers))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{UserID: 1, Admin: true}))
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Users []model.UserSummary `json:"users"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("got %d users, want 2", len(resp.Users))
	}
	for _, u := range resp.Users {
		if u.Email == "" {
			t.Errorf("user summary missing email: %+v", u)
		}
	}
}

func TestAdminListUsersForbiddenForNonAdmin(t *testing.T) {
	h, _ := newAdminTestHandler(t)

	gated := middleware.RequireAdmin(http.HandlerFunc(h.ListUsers))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{UserID: 1, Admin: false}))
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
