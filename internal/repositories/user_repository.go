package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"foodshare-service/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already taken")
	ErrSessionNotFound = errors.New("session not found")
)

// uniqueViolation is the postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

const userColumns = `id, email, username, password_hash, city, latitude, longitude, postal_code, country, created_at`

// UserRepository abstracts user and session persistence.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	Exists(ctx context.Context, userID int) (bool, error)
	UpdateLocation(ctx context.Context, userID int, city string, latitude, longitude float64, postalCode string) error
	UpdatePasswordHash(ctx context.Context, userID int, hash string) error
	Delete(ctx context.Context, userID int) error
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user. A duplicate email maps to ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (email, username, password_hash, city, latitude, longitude, postal_code, country)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+userColumns,
		user.Email, user.Username, user.PasswordHash, user.City, user.Latitude, user.Longitude, user.PostalCode, user.Country).
		StructScan(&created)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.User{}, ErrEmailTaken
	}
	return created, err
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// Exists reports whether a user id refers to a stored record.
func (r *UserRepo) Exists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	return exists, err
}

// UpdateLocation replaces the user's home location.
func (r *UserRepo) UpdateLocation(ctx context.Context, userID int, city string, latitude, longitude float64, postalCode string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET city = $2, latitude = $3, longitude = $4, postal_code = $5
        WHERE id = $1`, userID, city, latitude, longitude, postalCode)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdatePasswordHash replaces the stored credential hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, hash)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// Delete removes the user account. Sessions, posts and notifications go
// with it through the schema's cascades.
func (r *UserRepo) Delete(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// CreateSession stores an issued bearer token.
func (r *UserRepo) CreateSession(ctx context.Context, session models.Session) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (token, user_id, is_admin, expires_at)
        VALUES ($1, $2, $3, $4)`, session.Token, session.UserID, session.IsAdmin, session.ExpiresAt)
	return err
}

// GetSession fetches an unexpired session by token.
func (r *UserRepo) GetSession(ctx context.Context, token string) (models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, `SELECT token, user_id, is_admin, expires_at, created_at
        FROM sessions WHERE token = $1 AND expires_at > NOW()`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	return session, err
}

// DeleteSession revokes a token.
func (r *UserRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func requireRow(res sql.Result, missing error) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return missing
	}
	return nil
}
