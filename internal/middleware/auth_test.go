package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodshare-service/internal/mocks"
	"foodshare-service/internal/models"
	"foodshare-service/internal/repositories"
)

func setupAuthTestRouter(users repositories.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("userID"), "is_admin": c.GetBool("isAdmin")})
	})
	r.GET("/admin", AuthMiddleware(users), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthTestRouter(users)

	users.On("GetSession", mock.Anything, "tok-1").Return(models.Session{Token: "tok-1", UserID: 5}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthTestRouter(new(mocks.UserRepositoryMock))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredSession(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthTestRouter(users)

	users.On("GetSession", mock.Anything, "stale").Return(models.Session{}, repositories.ErrSessionNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertExpectations(t)
}

func TestAdminOnlyRejectsRegularSession(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthTestRouter(users)

	users.On("GetSession", mock.Anything, "tok-2").Return(models.Session{Token: "tok-2", UserID: 5}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer tok-2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	users.AssertExpectations(t)
}

func TestAdminOnlyAllowsAdminSession(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthTestRouter(users)

	users.On("GetSession", mock.Anything, "tok-3").Return(models.Session{Token: "tok-3", UserID: 9, IsAdmin: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer tok-3")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}
