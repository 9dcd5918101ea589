// Package account implements the account lifecycle: signup with email
// verification, login, password reset, and stateless session resolution.
// It owns every transition between unregistered, unverified, verified,
// and reset-in-progress; the HTTP layer only moves cookies around it.
package account

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/session"
	"github.com/avasquez/platefront/internal/store"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
)

// Mailer delivers lifecycle notifications out-of-band.
type Mailer interface {
	SendVerification(toEmail, code string) error
	SendWelcome(toEmail, name string) error
	SendPasswordReset(toEmail, resetURL string) error
	SendResetConfirmation(toEmail string) error
}

type Manager struct {
	users    *store.UserStore
	mailer   Mailer
	sessions *session.Issuer
	baseURL  string
	logger   *slog.Logger
}

func NewManager(users *store.UserStore, mailer Mailer, sessions *session.Issuer, baseURL string, logger *slog.Logger) *Manager {
	return &Manager{
		users:    users,
		mailer:   mailer,
		sessions: sessions,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account, issues a session credential, and
// sends the verification code. A send failure here fails the whole
// operation; the account row has already been written, so a retried signup
// with the same email reports ErrEmailTaken.
func (m *Manager) Register(email, password, name, contact string) (model.UserSummary, string, error) {
	email = normalizeEmail(email)

	existing, err := m.users.GetByEmail(email)
	if err != nil {
		return model.UserSummary{}, "", fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return model.UserSummary{}, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.UserSummary{}, "", fmt.Errorf("hash password: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return model.UserSummary{}, "", err
	}

	user, err := m.users.Create(email, name, string(hash), contact, code, time.Now().UTC().Add(verificationTTL))
	if err != nil {
		return model.UserSummary{}, "", fmt.Errorf("create account: %w", err)
	}

	credential, err := m.sessions.Issue(user.ID)
	if err != nil {
		return model.UserSummary{}, "", err
	}

	if err := m.mailer.SendVerification(email, code); err != nil {
		m.logger.Error("send verification", "user_id", user.ID, "error", err)
		return model.UserSummary{}, "", fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	m.logger.Info("account registered", "user_id", user.ID)
	return user.Summary(), credential, nil
}

// Authenticate checks the password against the stored hash and issues a
// fresh credential. Unknown email and wrong password are indistinguishable.
// Verification is not required to log in; gating unverified accounts is the
// caller's concern.
func (m *Manager) Authenticate(email, password string) (model.UserSummary, string, error) {
	email = normalizeEmail(email)

	user, err := m.users.GetByEmail(email)
	if err != nil {
		return model.UserSummary{}, "", fmt.Errorf("lookup email: %w", err)
	}
	if user == nil {
		return model.UserSummary{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.UserSummary{}, "", ErrInvalidCredentials
	}

	if err := m.users.UpdateLastLogin(user.ID); err != nil {
		return model.UserSummary{}, "", fmt.Errorf("update last login: %w", err)
	}

	credential, err := m.sessions.Issue(user.ID)
	if err != nil {
		return model.UserSummary{}, "", err
	}

	user, err = m.users.GetByID(user.ID)
	if err != nil {
		return model.UserSummary{}, "", fmt.Errorf("reload account: %w", err)
	}
	if user == nil {
		return model.UserSummary{}, "", ErrNotFound
	}

	m.logger.Info("login", "user_id", user.ID)
	return user.Summary(), credential, nil
}

// VerifyEmail consumes a verification token: the verified flag and the
// token clear in one durable update before success is reported. The
// welcome email is best-effort.
func (m *Manager) VerifyEmail(token string) (model.UserSummary, error) {
	user, err := m.users.GetByVerificationToken(token)
	if err != nil {
		return model.UserSummary{}, fmt.Errorf("lookup verification token: %w", err)
	}
	if user == nil {
		return model.UserSummary{}, ErrInvalidToken
	}

	if err := m.users.MarkVerified(user.ID); err != nil {
		return model.UserSummary{}, fmt.Errorf("mark verified: %w", err)
	}

	if err := m.mailer.SendWelcome(user.Email, user.Name); err != nil {
		m.logger.Warn("send welcome", "user_id", user.ID, "error", err)
	}

	user, err = m.users.GetByID(user.ID)
	if err != nil {
		return model.UserSummary{}, fmt.Errorf("reload account: %w", err)
	}
	if user == nil {
		return model.UserSummary{}, ErrNotFound
	}

	m.logger.Info("email verified", "user_id", user.ID)
	return user.Summary(), nil
}

// ResendVerification regenerates the verification code for an unverified
// account, superseding any pending one.
func (m *Manager) ResendVerification(email string) error {
	email = normalizeEmail(email)

	user, err := m.users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	if user.Verified {
		return nil
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}
	if err := m.users.SetVerificationToken(user.ID, code, time.Now().UTC().Add(verificationTTL)); err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}

	if err := m.mailer.SendVerification(user.Email, code); err != nil {
		m.logger.Error("resend verification", "user_id", user.ID, "error", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh reset token, overwriting any pending
// one, and mails a reset link. The token write is durable before the send;
// a send failure does not fail the request.
func (m *Manager) RequestPasswordReset(email string) error {
	email = normalizeEmail(email)

	user, err := m.users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	if err := m.users.SetResetToken(user.ID, token, time.Now().UTC().Add(resetTTL)); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", m.baseURL, token)
	if err := m.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		m.logger.Error("send password reset", "user_id", user.ID, "error", err)
	}

	m.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token. The hash replacement and the token
// clear happen in the same statement; the confirmation email is
// best-effort.
func (m *Manager) ResetPassword(token, newPassword string) error {
	user, err := m.users.GetByResetToken(token)
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if user == nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := m.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := m.mailer.SendResetConfirmation(user.Email); err != nil {
		m.logger.Warn("send reset confirmation", "user_id", user.ID, "error", err)
	}

	m.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// ResolveSession maps a credential back to the account it was issued for.
func (m *Manager) ResolveSession(credential string) (model.UserSummary, error) {
	userID, err := m.sessions.Verify(credential)
	if err != nil {
		return model.UserSummary{}, ErrUnauthorized
	}

	user, err := m.users.GetByID(userID)
	if err != nil {
		return model.UserSummary{}, fmt.Errorf("lookup account: %w", err)
	}
	if user == nil {
		return model.UserSummary{}, ErrNotFound
	}
	return user.Summary(), nil
}
