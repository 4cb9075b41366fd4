package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"foodshare-service/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")
	ErrAlreadyClosed        = errors.New("conversation already closed")
	ErrNotParticipant       = errors.New("user is not a conversation participant")
)

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, postID, creatorID, claimerID int) (models.Conversation, error)
	Get(ctx context.Context, conversationID int) (models.Conversation, error)
	ListForUser(ctx context.Context, userID int) ([]models.Conversation, error)
	Close(ctx context.Context, conversationID int) error
	TotalUnread(ctx context.Context, userID int) (int, error)
}

const conversationColumns = `id, post_id, creator_id, claimer_id, active, created_at,
    last_activity_at, closed_at, creator_unread, claimer_unread, last_message`

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetOrCreate returns the conversation for (postID, claimerID), creating it
// if absent. The unique constraint on (post_id, claimer_id) makes the
// insert race-safe: concurrent callers converge on one row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, postID, creatorID, claimerID int) (models.Conversation, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO conversations (post_id, creator_id, claimer_id)
        VALUES ($1, $2, $3) ON CONFLICT (post_id, claimer_id) DO NOTHING`, postID, creatorID, claimerID); err != nil {
		return models.Conversation{}, err
	}

	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations
        WHERE post_id = $1 AND claimer_id = $2`, postID, claimerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// Get fetches a conversation by id.
func (r *ConversationRepo) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns the conversations the user takes part in, most
// recently active first.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `SELECT `+conversationColumns+` FROM conversations
        WHERE creator_id = $1 OR claimer_id = $1 ORDER BY last_activity_at DESC`, userID)
	return convs, err
}

// Close deactivates a conversation. Closing is terminal.
func (r *ConversationRepo) Close(ctx context.Context, conversationID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET active = FALSE, closed_at = NOW()
        WHERE id = $1 AND active = TRUE`, conversationID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		var active bool
		err := r.db.GetContext(ctx, &active, `SELECT active FROM conversations WHERE id = $1`, conversationID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrConversationNotFound
		}
		if err != nil {
			return err
		}
		return ErrAlreadyClosed
	}
	return nil
}

// TotalUnread sums the caller's unread counters over their active
// conversations.
func (r *ConversationRepo) TotalUnread(ctx context.Context, userID int) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(
            CASE WHEN creator_id = $1 THEN creator_unread ELSE claimer_unread END), 0)
        FROM conversations WHERE active = TRUE AND (creator_id = $1 OR claimer_id = $1)`, userID)
	return total, err
}
