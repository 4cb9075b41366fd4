package models

import "time"

// Conversation links a post owner with the user who claimed the post.
// At most one conversation exists per (post, claimer) pair.
type Conversation struct {
	ID             int        `db:"id" json:"id"`
	PostID         int        `db:"post_id" json:"post_id"`
	CreatorID      int        `db:"creator_id" json:"creator_id"`
	ClaimerID      int        `db:"claimer_id" json:"claimer_id"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastActivityAt time.Time  `db:"last_activity_at" json:"last_activity_at"`
	ClosedAt       *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatorUnread  int        `db:"creator_unread" json:"creator_unread"`
	ClaimerUnread  int        `db:"claimer_unread" json:"claimer_unread"`
	LastMessage    string     `db:"last_message" json:"last_message,omitempty"`
}

// HasParticipant reports whether the user takes part in the conversation.
func (c Conversation) HasParticipant(userID int) bool {
	return c.CreatorID == userID || c.ClaimerID == userID
}

// UnreadFor returns the unread counter belonging to the given participant.
func (c Conversation) UnreadFor(userID int) int {
	if c.CreatorID == userID {
		return c.CreatorUnread
	}
	if c.ClaimerID == userID {
		return c.ClaimerUnread
	}
	return 0
}
