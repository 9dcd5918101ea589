package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/avasquez/platefront/internal/account"
	"github.com/avasquez/platefront/internal/middleware"
)

const minPasswordLength = 8

// AuthHandler is the HTTP face of the account lifecycle manager. It
// validates input shape, moves the session credential in and out of the
// cookie, and maps the manager's error kinds to status codes.
type AuthHandler struct {
	accounts     *account.Manager
	cookieMaxAge int
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(accounts *account.Manager, cookieMaxAge int, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, credential string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    credential,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.secureCookie,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func validEmail(addr string) bool {
	_, err := mail.ParseAddress(addr)
	return err == nil
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	summary, credential, err := h.accounts.Register(req.Email, req.Password, req.Name, req.Contact)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailTaken):
			writeError(w, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, account.ErrDelivery):
			writeError(w, http.StatusInternalServerError, "could not send verification email")
		default:
			h.logger.Error("signup", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.setSessionCookie(w, credential)
	writeJSON(w, http.StatusCreated, map[string]any{"user": summary})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	summary, credential, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.setSessionCookie(w, credential)
	writeJSON(w, http.StatusOK, map[string]any{"user": summary})
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	summary, err := h.accounts.VerifyEmail(req.Code)
	if err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "invalid or expired verification code")
			return
		}
		h.logger.Error("verify email", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": summary})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.accounts.ResendVerification(req.Email); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("resend verification", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.accounts.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("forgot password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset link sent"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if err := h.accounts.ResetPassword(token, req.NewPassword); err != nil {
		if errors.Is(err, account.ErrInvalidToken) {
			writeError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		h.logger.Error("reset password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

// Logout clears the cookie. The credential itself stays valid until its
// natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Check resolves the caller's session cookie to an account summary.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.accounts.ResolveSession(cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, account.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		default:
			h.logger.Error("session check", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": summary})
}
