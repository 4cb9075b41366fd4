package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"foodshare-service/internal/models"
)

// previewLen bounds the denormalized last-message preview on conversations.
const previewLen = 120

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	Send(ctx context.Context, conversationID, senderID int, senderName, content, contentType string) (models.ChatMessage, error)
	Messages(ctx context.Context, conversationID, limit, offset int) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, conversationID, readerID int) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Send appends a message and bumps the other participant's unread counter.
// The conversation row is locked so the counter update and the message
// insert commit as one unit even under concurrent senders.
func (r *MessageRepo) Send(ctx context.Context, conversationID, senderID int, senderName, content, contentType string) (models.ChatMessage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ChatMessage{}, err
	}
	defer tx.Rollback()

	var conv models.Conversation
	err = tx.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations
        WHERE id = $1 FOR UPDATE`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatMessage{}, ErrConversationNotFound
	}
	if err != nil {
		return models.ChatMessage{}, err
	}
	if !conv.Active {
		return models.ChatMessage{}, ErrConversationClosed
	}
	if !conv.HasParticipant(senderID) {
		return models.ChatMessage{}, ErrNotParticipant
	}

	var msg models.ChatMessage
	err = tx.QueryRowxContext(ctx, `INSERT INTO chat_messages (conversation_id, sender_id, sender_name, content, content_type)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, conversation_id, sender_id, sender_name, content, content_type, is_read, created_at`,
		conversationID, senderID, senderName, content, contentType).StructScan(&msg)
	if err != nil {
		return models.ChatMessage{}, err
	}

	// The sender is identified by id comparison, never by a caller-supplied
	// role: the increment lands on the opposite side.
	unreadColumn := "creator_unread"
	if senderID == conv.CreatorID {
		unreadColumn = "claimer_unread"
	}
	if _, err := tx.ExecContext(ctx, `UPDATE conversations
        SET `+unreadColumn+` = `+unreadColumn+` + 1, last_activity_at = $2, last_message = $3
        WHERE id = $1`, conversationID, msg.CreatedAt, preview(content)); err != nil {
		return models.ChatMessage{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Messages returns the ordered message history of a conversation. Re-reading
// replays the full history from the start of the requested page.
func (r *MessageRepo) Messages(ctx context.Context, conversationID, limit, offset int) ([]models.ChatMessage, error) {
	query := `SELECT id, conversation_id, sender_id, sender_name, content, content_type, is_read, created_at
        FROM chat_messages WHERE conversation_id = $1 ORDER BY created_at ASC, id ASC`
	args := []interface{}{conversationID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	var msgs []models.ChatMessage
	err := r.db.SelectContext(ctx, &msgs, query, args...)
	return msgs, err
}

// MarkRead marks every message not sent by the reader as read and resets
// only the reader's own unread counter.
func (r *MessageRepo) MarkRead(ctx context.Context, conversationID, readerID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var conv models.Conversation
	err = tx.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations
        WHERE id = $1 FOR UPDATE`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConversationNotFound
	}
	if err != nil {
		return err
	}
	if !conv.HasParticipant(readerID) {
		return ErrNotParticipant
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat_messages SET is_read = TRUE
        WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`, conversationID, readerID); err != nil {
		return err
	}

	unreadColumn := "creator_unread"
	if readerID == conv.ClaimerID {
		unreadColumn = "claimer_unread"
	}
	if _, err := tx.ExecContext(ctx, `UPDATE conversations SET `+unreadColumn+` = 0 WHERE id = $1`, conversationID); err != nil {
		return err
	}
	return tx.Commit()
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen])
}
