package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"foodshare-service/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListForUser(ctx context.Context, userID int) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores a notification record.
func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	var created models.Notification
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (user_id, title, body, type, post_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, title, body, type, post_id, is_read, created_at`,
		n.UserID, n.Title, n.Body, n.Type, n.PostID).StructScan(&created)
	return created, err
}

// ListForUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.SelectContext(ctx, &list, `SELECT id, user_id, title, body, type, post_id, is_read, created_at
        FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return list, err
}

// MarkRead flips the read flag. The user_id guard keeps users from marking
// someone else's notifications.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE
        WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications
        WHERE user_id = $1 AND is_read = FALSE`, userID)
	return count, err
}
