package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avasquez/platefront/internal/account"
	"github.com/avasquez/platefront/internal/database"
	"github.com/avasquez/platefront/internal/middleware"
	"github.com/avasquez/platefront/internal/session"
	"github.com/avasquez/platefront/internal/store"
)

type noopMailer struct {
	lastCode string
}

func (m *noopMailer) SendVerification(toEmail, code string) error { m.lastCode = code; return nil }
func (m *noopMailer) SendWelcome(toEmail, name string) error      { return nil }
func (m *noopMailer) SendPasswordReset(toEmail, resetURL string) error {
	return nil
}
func (m *noopMailer) SendResetConfirmation(toEmail string) error { return nil }

func newAuthTestHandler(t *testing.T) (*AuthHandler, *noopMailer) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mailer := &noopMailer{}
	logger := slog.New(slog.DiscardHandler)
	issuer := session.NewIssuer([]byte("test-secret"), time.Hour)
	accounts := account.NewManager(store.NewUserStore(db), mailer, issuer, "https://platefront.test", logger)
	return NewAuthHandler(accounts, 3600, false, logger), mailer
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignupSetsSessionCookie(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	body := `{"email":"alice@example.com","password":"s3cretpass","name":"Alice"}`
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("cookie must be SameSite=Strict")
	}
}

func TestSignupValidation(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing email", `{"password":"s3cretpass","name":"Alice"}`},
		{"invalid email", `{"email":"not-an-email","password":"s3cretpass","name":"Alice"}`},
		{"short password", `{"email":"alice@example.com","password":"short","name":"Alice"}`},
		{"missing name", `{"email":"alice@example.com","password":"s3cretpass"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Signup(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	body := `{"email":"alice@example.com","password":"s3cretpass","name":"Alice"}`
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	h.Signup(httptest.NewRecorder(), req)

	req = httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Signup(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestLoginAndCheck(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	signup := `{"email":"alice@example.com","password":"s3cretpass","name":"Alice"}`
	h.Signup(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(signup)))

	login := `{"email":"alice@example.com","password":"s3cretpass"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(login)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}

	checkReq := httptest.NewRequest("GET", "/api/auth/check", nil)
	checkReq.AddCookie(cookie)
	checkRec := httptest.NewRecorder()
	h.Check(checkRec, checkReq)
	if checkRec.Code != http.StatusOK {
		t.Errorf("check status = %d, want 200: %s", checkRec.Code, checkRec.Body.String())
	}
	if !strings.Contains(checkRec.Body.String(), "alice@example.com") {
		t.Error("check response should carry the account summary")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	signup := `{"email":"alice@example.com","password":"s3cretpass","name":"Alice"}`
	h.Signup(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(signup)))

	login := `{"email":"alice@example.com","password":"wrongpass"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(login)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if sessionCookie(t, rec) != nil {
		t.Error("failed login must not set a cookie")
	}
}

func TestVerifyEmailEndpoint(t *testing.T) {
	h, mailer := newAuthTestHandler(t)

	signup := `{"email":"alice@example.com","password":"s3cretpass","name":"Alice"}`
	h.Signup(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(signup)))

	rec := httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest("POST", "/api/auth/verify-email", strings.NewReader(`{"code":"`+mailer.lastCode+`"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"verified":true`) {
		t.Error("response should show the account verified")
	}

	rec = httptest.NewRecorder()
	h.VerifyEmail(rec, httptest.NewRequest("POST", "/api/auth/verify-email", strings.NewReader(`{"code":"000000"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad code status = %d, want 400", rec.Code)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, httptest.NewRequest("POST", "/api/auth/forgot-password", strings.NewReader(`{"email":"nobody@example.com"}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("expected an expiring session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge != -1 {
		t.Error("logout should clear the cookie")
	}
}

func TestCheckWithoutCookie(t *testing.T) {
	h, _ := newAuthTestHandler(t)

	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest("GET", "/api/auth/check", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
