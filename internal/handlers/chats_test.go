package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodshare-service/internal/mocks"
	"foodshare-service/internal/models"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/ws"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/conversations", handler.ListConversations)
	r.GET("/conversations/unread", handler.TotalUnread)
	r.GET("/conversations/:conversation_id/messages", handler.GetMessages)
	r.POST("/conversations/:conversation_id/messages", handler.SendMessage)
	r.POST("/conversations/:conversation_id/read", handler.MarkRead)
	r.POST("/conversations/:conversation_id/close", handler.CloseConversation)
	return r
}

func TestListConversationsReportsCallerUnread(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(convRepo, nil, nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	convRepo.On("ListForUser", mock.Anything, 1).Return([]models.Conversation{
		{ID: 7, CreatorID: 1, ClaimerID: 2, CreatorUnread: 3, ClaimerUnread: 9},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Conversations []struct {
			ID     int `json:"id"`
			Unread int `json:"unread"`
		} `json:"conversations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, 3, resp.Conversations[0].Unread)

	convRepo.AssertExpectations(t)
}

func TestTotalUnread(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(convRepo, nil, nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	convRepo.On("TotalUnread", mock.Anything, 1).Return(4, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/unread", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp["unread"])
	convRepo.AssertExpectations(t)
}

func TestGetMessagesForbiddenForOutsider(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(convRepo, new(mocks.MessageRepositoryMock), nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	convRepo.On("Get", mock.Anything, 7).Return(models.Conversation{ID: 7, CreatorID: 5, ClaimerID: 6}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/7/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestGetMessagesSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(convRepo, messageRepo, nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	convRepo.On("Get", mock.Anything, 7).Return(models.Conversation{ID: 7, CreatorID: 1, ClaimerID: 2}, nil).Once()
	messageRepo.On("Messages", mock.Anything, 7, 0, 0).
		Return([]models.ChatMessage{{ID: 1, ConversationID: 7, Content: "hola"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/7/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	convRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageSuccessNotifiesOtherParticipant(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	dispatcher := new(mocks.DispatcherMock)
	handler := NewChatHandler(convRepo, messageRepo, userRepo, dispatcher, ws.NewHub())
	router := setupChatRouter(handler)

	userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "ana"}, nil).Once()
	messageRepo.On("Send", mock.Anything, 7, 1, "ana", "hola", models.MessageTypeText).
		Return(models.ChatMessage{ID: 3, ConversationID: 7, SenderID: 1, Content: "hola"}, nil).Once()
	convRepo.On("Get", mock.Anything, 7).Return(models.Conversation{ID: 7, PostID: 5, CreatorID: 1, ClaimerID: 2}, nil).Once()
	dispatcher.On("Notify", mock.Anything, 2, "New message", mock.Anything, models.NotificationNewMessage, mock.Anything).
		Return(models.Notification{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/messages", bytes.NewBufferString(`{"content":"hola"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	convRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestSendMessageClosedConversation(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(convRepo, messageRepo, userRepo, new(mocks.DispatcherMock), ws.NewHub())
	router := setupChatRouter(handler)

	userRepo.On("GetByID", mock.Anything, 1).Return(models.User{ID: 1, Username: "ana"}, nil).Once()
	messageRepo.On("Send", mock.Anything, 7, 1, "ana", "hola", models.MessageTypeText).
		Return(models.ChatMessage{}, repositories.ErrConversationClosed).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/messages", bytes.NewBufferString(`{"content":"hola"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestSendMessageInvalidContentType(t *testing.T) {
	handler := NewChatHandler(new(mocks.ConversationRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.DispatcherMock), ws.NewHub())
	router := setupChatRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/messages", bytes.NewBufferString(`{"content":"x","content_type":"video"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkReadSuccess(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(new(mocks.ConversationRepositoryMock), messageRepo, nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	messageRepo.On("MarkRead", mock.Anything, 7, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestMarkReadNotParticipant(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(new(mocks.ConversationRepositoryMock), messageRepo, nil, nil, ws.NewHub())
	router := setupChatRouter(handler)

	messageRepo.On("MarkRead", mock.Anything, 7, 1).Return(repositories.ErrNotParticipant).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertExpectations(t)
}

func TestCloseConversationSuccess(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	dispatcher := new(mocks.DispatcherMock)
	handler := NewChatHandler(convRepo, new(mocks.MessageRepositoryMock), nil, dispatcher, ws.NewHub())
	router := setupChatRouter(handler)

	conv := models.Conversation{ID: 7, PostID: 5, CreatorID: 1, ClaimerID: 2, Active: true}
	convRepo.On("Get", mock.Anything, 7).Return(conv, nil).Twice()
	convRepo.On("Close", mock.Anything, 7).Return(nil).Once()
	dispatcher.On("Notify", mock.Anything, 2, "Conversation closed", mock.Anything, models.NotificationChatClosed, mock.Anything).
		Return(models.Notification{}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	convRepo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestCloseConversationAlreadyClosed(t *testing.T) {
	convRepo := new(mocks.ConversationRepositoryMock)
	handler := NewChatHandler(convRepo, new(mocks.MessageRepositoryMock), nil, new(mocks.DispatcherMock), ws.NewHub())
	router := setupChatRouter(handler)

	convRepo.On("Get", mock.Anything, 7).Return(models.Conversation{ID: 7, CreatorID: 1, ClaimerID: 2}, nil).Once()
	convRepo.On("Close", mock.Anything, 7).Return(repositories.ErrAlreadyClosed).Once()

	req := httptest.NewRequest(http.MethodPost, "/conversations/7/close", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	convRepo.AssertExpectations(t)
}
