package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodshare-service/internal/models"
	"foodshare-service/internal/notify"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/ws"
)

// ChatHandler manages conversation endpoints.
type ChatHandler struct {
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	userRepo         repositories.UserRepository
	dispatcher       notify.Dispatcher
	hub              *ws.Hub
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(conversationRepo repositories.ConversationRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, dispatcher notify.Dispatcher, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
		hub:              hub,
	}
}

// ListConversations returns the conversations the caller takes part in.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.GetInt("userID")
	convs, err := h.conversationRepo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	type conversationResponse struct {
		models.Conversation
		Unread int `json:"unread"`
	}
	responses := make([]conversationResponse, 0, len(convs))
	for _, conv := range convs {
		responses = append(responses, conversationResponse{Conversation: conv, Unread: conv.UnreadFor(userID)})
	}
	c.JSON(http.StatusOK, gin.H{"conversations": responses})
}

// TotalUnread returns the caller's unread total over active conversations.
func (h *ChatHandler) TotalUnread(c *gin.Context) {
	userID := c.GetInt("userID")
	total, err := h.conversationRepo.TotalUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count unread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": total})
}

// GetMessages returns the ordered message history of a conversation.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	conversationID, _, ok := h.authorizedConversation(c)
	if !ok {
		return
	}

	limit := intQuery(c, "limit", 0)
	offset := intQuery(c, "offset", 0)
	msgs, err := h.messageRepo.Messages(c.Request.Context(), conversationID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage stores a message, bumps the other side's unread counter and
// broadcasts it on the conversation's websocket room.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	var req struct {
		Content     string `json:"content" binding:"required"`
		ContentType string `json:"content_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = models.MessageTypeText
	}
	if contentType != models.MessageTypeText && contentType != models.MessageTypeImage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content type"})
		return
	}

	userID := c.GetInt("userID")
	sender, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	msg, err := h.messageRepo.Send(c.Request.Context(), conversationID, userID, sender.Username, req.Content, contentType)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, repositories.ErrConversationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "conversation is closed"})
		case errors.Is(err, repositories.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		}
		return
	}

	h.hub.BroadcastMessage(conversationID, msg)

	// A failed notification never undoes the send.
	if conv, gerr := h.conversationRepo.Get(c.Request.Context(), conversationID); gerr == nil {
		recipient := conv.CreatorID
		if userID == conv.CreatorID {
			recipient = conv.ClaimerID
		}
		if _, nerr := h.dispatcher.Notify(c.Request.Context(), recipient,
			"New message", fmt.Sprintf("%s sent you a message.", sender.Username),
			models.NotificationNewMessage, &conv.PostID); nerr != nil {
			log.Printf("message notification failed for conversation %d: %v", conversationID, nerr)
		}
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead marks the conversation read for the caller. Only the caller's
// own unread counter is reset.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.messageRepo.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, repositories.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark read"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// CloseConversation deactivates a conversation. Closing is terminal.
func (h *ChatHandler) CloseConversation(c *gin.Context) {
	conversationID, userID, ok := h.authorizedConversation(c)
	if !ok {
		return
	}

	if err := h.conversationRepo.Close(c.Request.Context(), conversationID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, repositories.ErrAlreadyClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "conversation already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close conversation"})
		}
		return
	}

	h.hub.BroadcastClosed(conversationID)

	if conv, gerr := h.conversationRepo.Get(c.Request.Context(), conversationID); gerr == nil {
		other := conv.CreatorID
		if userID == conv.CreatorID {
			other = conv.ClaimerID
		}
		if _, nerr := h.dispatcher.Notify(c.Request.Context(), other,
			"Conversation closed", "The conversation has been closed.",
			models.NotificationChatClosed, &conv.PostID); nerr != nil {
			log.Printf("close notification failed for conversation %d: %v", conversationID, nerr)
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) authorizedConversation(c *gin.Context) (int, int, bool) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return 0, 0, false
	}

	userID := c.GetInt("userID")
	conv, err := h.conversationRepo.Get(c.Request.Context(), conversationID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrConversationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "conversation not found"})
		return 0, 0, false
	}
	if !conv.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		return 0, 0, false
	}
	return conversationID, userID, true
}
