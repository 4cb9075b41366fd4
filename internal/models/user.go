package models

import "time"

// Roles reported on the session surface. The role is not stored on the
// user record; it is resolved against the admin registry at login.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered resident.
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	City         string    `db:"city" json:"city"`
	Latitude     float64   `db:"latitude" json:"latitude"`
	Longitude    float64   `db:"longitude" json:"longitude"`
	PostalCode   string    `db:"postal_code" json:"postal_code"`
	Country      string    `db:"country" json:"country"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session is an issued bearer token. Admin capability is resolved once at
// login and cached here rather than recomputed per request.
type Session struct {
	Token     string    `db:"token" json:"token"`
	UserID    int       `db:"user_id" json:"user_id"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
