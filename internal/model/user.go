package model

import "time"

// User is a registered account. PasswordHash and the token fields never
// leave the server; Summary strips them before a user crosses the API
// boundary.
type User struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	PasswordHash        string     `json:"-"`
	Contact             string     `json:"contact"`
	Address             string     `json:"address"`
	City                string     `json:"city"`
	Country             string     `json:"country"`
	ProfileImageURL     string     `json:"profile_image_url"`
	Admin               bool       `json:"admin"`
	Verified            bool       `json:"verified"`
	VerificationToken   *string    `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	ResetToken          *string    `json:"-"`
	ResetExpires        *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// UserSummary is the caller-facing view of a User.
type UserSummary struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Contact         string     `json:"contact"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	ProfileImageURL string     `json:"profile_image_url"`
	Admin           bool       `json:"admin"`
	Verified        bool       `json:"verified"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Contact:         u.Contact,
		Address:         u.Address,
		City:            u.City,
		Country:         u.Country,
		ProfileImageURL: u.ProfileImageURL,
		Admin:           u.Admin,
		Verified:        u.Verified,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}
