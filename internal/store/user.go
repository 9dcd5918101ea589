package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avasquez/platefront/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var verificationToken, resetToken sql.NullString
	var verificationExpires, resetExpires, lastLogin sql.NullTime

	err := scanner.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Contact,
		&u.Address, &u.City, &u.Country, &u.ProfileImageURL,
		&u.Admin, &u.Verified,
		&verificationToken, &verificationExpires,
		&resetToken, &resetExpires,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if verificationToken.Valid {
		u.VerificationToken = &verificationToken.String
	}
	if verificationExpires.Valid {
		u.VerificationExpires = &verificationExpires.Time
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		u.ResetExpires = &resetExpires.Time
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

const userCols = `id, email, name, password_hash, contact, address, city, country, profile_image_url, admin, verified, verification_token, verification_expires_at, reset_token, reset_expires_at, last_login_at, created_at, updated_at`

// Create inserts a new user in the unverified state with a pending
// verification token.
func (s *UserStore) Create(email, name, passwordHash, contact, verificationToken string, verificationExpires time.Time) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, name, password_hash, contact, verification_token, verification_expires_at) VALUES (?, ?, ?, ?, ?, ?)`,
		email, name, passwordHash, contact, verificationToken, verificationExpires.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByVerificationToken returns the user holding a live verification token,
// or nil when no user holds it or it has expired. Callers cannot tell the
// two cases apart.
func (s *UserStore) GetByVerificationToken(token string) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE verification_token = ? AND verification_expires_at > datetime('now')`,
		token,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by verification token: %w", err)
	}
	return u, nil
}

// GetByResetToken returns the user holding a live password reset token, or
// nil when no user holds it or it has expired.
func (s *UserStore) GetByResetToken(token string) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE reset_token = ? AND reset_expires_at > datetime('now')`,
		token,
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

// MarkVerified sets the verified flag and clears the verification token in a
// single update.
func (s *UserStore) MarkVerified(id int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET verified = 1, verification_token = NULL, verification_expires_at = NULL, updated_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// SetVerificationToken replaces any pending verification token. The expiry
// is stored in UTC so it compares correctly against datetime('now').
func (s *UserStore) SetVerificationToken(id int64, token string, expires time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET verification_token = ?, verification_expires_at = ?, updated_at = datetime('now') WHERE id = ?`,
		token, expires.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}
	return nil
}

// SetResetToken replaces any pending reset token. Last write wins.
func (s *UserStore) SetResetToken(id int64, token string, expires time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET reset_token = ?, reset_expires_at = ?, updated_at = datetime('now') WHERE id = ?`,
		token, expires.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the reset token in
// the same statement, so a consumed token can never authorize a second
// reset.
func (s *UserStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, reset_token = NULL, reset_expires_at = NULL, updated_at = datetime('now') WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// List returns all users, newest first.
func (s *UserStore) List() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT ` + userCols + ` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) UpdateLastLogin(id int64) error {
	_, err := s.db.Exec(
		`UPDATE users SET last_login_at = datetime('now'), updated_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (s *UserStore) UpdateProfile(id int64, name, contact, address, city, country, profileImageURL string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET name = ?, contact = ?, address = ?, city = ?, country = ?, profile_image_url = ?, updated_at = datetime('now') WHERE id = ?`,
		name, contact, address, city, country, profileImageURL, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}
