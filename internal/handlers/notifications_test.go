package handlers

import (
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
)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/notifications", handler.List)
	r.POST("/notifications/:notification_id/read", handler.MarkRead)
	return r
}

func TestListNotificationsWithUnreadCount(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo)
	router := setupNotificationRouter(handler)

	repo.On("ListForUser", mock.Anything, 1).
		Return([]models.Notification{{ID: 4, UserID: 1, Type: models.NotificationPostApproved}}, nil).Once()
	repo.On("UnreadCount", mock.Anything, 1).Return(1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.EqualValues(t, 1, resp["unread"])
	repo.AssertExpectations(t)
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo)
	router := setupNotificationRouter(handler)

	repo.On("MarkRead", mock.Anything, 7, 1).Return(repositories.ErrNotificationNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertExpectations(t)
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	repo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(repo)
	router := setupNotificationRouter(handler)

	repo.On("MarkRead", mock.Anything, 7, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/notifications/7/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}
