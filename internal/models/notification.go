package models

import "time"

// Notification types emitted by lifecycle and conversation transitions.
const (
	NotificationPostApproved = "post_approved"
	NotificationPostRejected = "post_rejected"
	NotificationPostClaimed  = "post_claimed"
	NotificationNewMessage   = "new_message"
	NotificationChatClosed   = "chat_closed"
	NotificationPostRemoved  = "removed_by_admin"
)

// Notification is an addressed record produced as a side effect of a
// lifecycle transition. Delivery is fire-and-forget.
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Type      string    `db:"type" json:"type"`
	PostID    *int      `db:"post_id" json:"post_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
