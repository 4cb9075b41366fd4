package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"foodshare-service/internal/adminreg"
	"foodshare-service/internal/models"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/telemetry"
)

const (
	minPasswordLen  = 6
	sessionLifetime = 24 * time.Hour
)

// AuthHandler manages registration, login and profile endpoints.
type AuthHandler struct {
	users    repositories.UserRepository
	registry *adminreg.Registry
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, registry *adminreg.Registry, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{users: users, registry: registry, audit: audit}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email      string  `json:"email" binding:"required"`
		Username   string  `json:"username" binding:"required"`
		Password   string  `json:"password" binding:"required"`
		City       string  `json:"city"`
		Latitude   float64 `json:"latitude"`
		Longitude  float64 `json:"longitude"`
		PostalCode string  `json:"postal_code"`
		Country    string  `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	country := req.Country
	if country == "" {
		country = models.DefaultCountry
	}

	user, err := h.users.Create(c.Request.Context(), models.User{
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		City:         req.City,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PostalCode:   req.PostalCode,
		Country:      country,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	h.emitAudit(c, "INFO", "User registered")
	c.JSON(http.StatusCreated, gin.H{"user": user, "role": h.roleFor(user.Email)})
}

// Login handles POST /auth/login. The admin capability is resolved here,
// once, against the registry and cached on the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		IsAdmin:   h.registry.IsAdmin(user.Email),
		ExpiresAt: time.Now().Add(sessionLifetime),
	}
	if err := h.users.CreateSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	h.emitAudit(c, "INFO", "User logged in")
	c.JSON(http.StatusOK, gin.H{
		"token": session.Token,
		"user":  user,
		"role":  h.roleFor(user.Email),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := h.users.DeleteSession(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke session"})
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// UpdateLocation handles PUT /profile/location.
func (h *AuthHandler) UpdateLocation(c *gin.Context) {
	var req struct {
		City       string  `json:"city" binding:"required"`
		Latitude   float64 `json:"latitude"`
		Longitude  float64 `json:"longitude"`
		PostalCode string  `json:"postal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	err := h.users.UpdateLocation(c.Request.Context(), userID, req.City, req.Latitude, req.Longitude, req.PostalCode)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update location"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePassword handles PUT /profile/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		return
	}

	userID := c.GetInt("userID")
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "current password does not match"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	if err := h.users.UpdatePasswordHash(c.Request.Context(), userID, string(hash)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}

	h.emitAudit(c, "INFO", "Password changed")
	c.Status(http.StatusNoContent)
}

// DeleteAccount handles DELETE /profile.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt("userID")
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}

	h.emitAudit(c, "INFO", "Account deleted")
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) roleFor(email string) string {
	if h.registry.IsAdmin(email) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
