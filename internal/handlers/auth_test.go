package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"foodshare-service/internal/adminreg"
	"foodshare-service/internal/mocks"
	"foodshare-service/internal/models"
	"foodshare-service/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	return r
}

func registryWithAdmin(t *testing.T, email string) *adminreg.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admins.json")
	content := `[{"id":1,"email":"` + email + `"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return adminreg.Load(path)
}

func TestRegisterSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, adminreg.Load(""), nil)
	router := setupAuthRouter(handler)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "ana@example.com" && u.Username == "ana" && u.PasswordHash != "secret123" && u.Country == models.DefaultCountry
	})).Return(models.User{ID: 1, Email: "ana@example.com", Username: "ana"}, nil).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","username":"ana","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.RoleUser, resp["role"])
	users.AssertExpectations(t)
}

func TestRegisterShortPassword(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), adminreg.Load(""), nil)
	router := setupAuthRouter(handler)

	body := bytes.NewBufferString(`{"email":"ana@example.com","username":"ana","password":"abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEmailTaken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, adminreg.Load(""), nil)
	router := setupAuthRouter(handler)

	users.On("Create", mock.Anything, mock.Anything).Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","username":"ana","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	users.AssertExpectations(t)
}

func TestLoginIssuesAdminSessionForRegistryMatch(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, registryWithAdmin(t, "admin@example.com"), nil)
	router := setupAuthRouter(handler)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(models.User{ID: 1, Email: "admin@example.com", PasswordHash: string(hash)}, nil).Once()
	users.On("CreateSession", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.UserID == 1 && s.IsAdmin && s.Token != ""
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"email":"admin@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.RoleAdmin, resp["role"])
	assert.NotEmpty(t, resp["token"])
	users.AssertExpectations(t)
}

func TestLoginRegistryMatchIsCaseSensitive(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, registryWithAdmin(t, "admin@example.com"), nil)
	router := setupAuthRouter(handler)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "Admin@example.com").
		Return(models.User{ID: 1, Email: "Admin@example.com", PasswordHash: string(hash)}, nil).Once()
	users.On("CreateSession", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return !s.IsAdmin
	})).Return(nil).Once()

	body := bytes.NewBufferString(`{"email":"Admin@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.RoleUser, resp["role"])
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, adminreg.Load(""), nil)
	router := setupAuthRouter(handler)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(models.User{ID: 1, Email: "ana@example.com", PasswordHash: string(hash)}, nil).Once()

	body := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(users, adminreg.Load(""), nil)
	router := setupAuthRouter(handler)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"secret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertExpectations(t)
}
