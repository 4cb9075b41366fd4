package models

import "time"

// Message content types. Image messages carry an opaque content reference
// instead of text.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// ChatMessage is a single message inside a conversation.
type ChatMessage struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	SenderName     string    `db:"sender_name" json:"sender_name"`
	Content        string    `db:"content" json:"content"`
	ContentType    string    `db:"content_type" json:"content_type"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ChatEvent is broadcasted through websockets.
type ChatEvent struct {
	Type           string       `json:"type"`
	Message        *ChatMessage `json:"message,omitempty"`
	ConversationID int          `json:"conversation_id,omitempty"`
}
