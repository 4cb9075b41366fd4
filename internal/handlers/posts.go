package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"foodshare-service/internal/geo"
	"foodshare-service/internal/models"
	"foodshare-service/internal/notify"
	"foodshare-service/internal/observability"
	"foodshare-service/internal/rabbitmq"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/telemetry"
)

const expiryDateLayout = "2006-01-02"

// PostHandler manages meal post endpoints.
type PostHandler struct {
	postRepo         repositories.PostRepository
	conversationRepo repositories.ConversationRepository
	userRepo         repositories.UserRepository
	dispatcher       notify.Dispatcher
	publisher        rabbitmq.Publisher
	audit            *telemetry.AuditEmitter
}

// NewPostHandler constructs a PostHandler.
func NewPostHandler(postRepo repositories.PostRepository, conversationRepo repositories.ConversationRepository, userRepo repositories.UserRepository, dispatcher notify.Dispatcher, publisher rabbitmq.Publisher, audit *telemetry.AuditEmitter) *PostHandler {
	return &PostHandler{
		postRepo:         postRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
		publisher:        publisher,
		audit:            audit,
	}
}

// CreatePost handles POST /posts. New posts start PENDING and become
// discoverable only after a moderator approves them.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		Photos      []string `json:"photos" binding:"required"`
		ExpiresOn   string   `json:"expires_on" binding:"required"`
		City        string   `json:"city"`
		Latitude    float64  `json:"latitude"`
		Longitude   float64  `json:"longitude"`
		PostalCode  string   `json:"postal_code"`
		Country     string   `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Photos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one photo is required"})
		return
	}

	expiry, err := time.Parse(expiryDateLayout, req.ExpiresOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry date, expected YYYY-MM-DD"})
		return
	}
	if expiry.Before(today()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiry date is in the past"})
		return
	}

	userID := c.GetInt("userID")
	owner, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}

	country := req.Country
	if country == "" {
		country = models.DefaultCountry
	}
	city := req.City
	if city == "" {
		city = owner.City
	}

	post, err := h.postRepo.Create(c.Request.Context(), models.MealPost{
		OwnerID:     owner.ID,
		OwnerName:   owner.Username,
		Title:       req.Title,
		Description: req.Description,
		Photos:      req.Photos,
		ExpiresOn:   expiry,
		City:        city,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PostalCode:  req.PostalCode,
		Country:     country,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}

	h.emitAudit(c, "INFO", "Post created")
	c.JSON(http.StatusCreated, post)
}

// Discover handles GET /posts/discover. The center defaults to the
// caller's home location, the radius to 5 km.
func (h *PostHandler) Discover(c *gin.Context) {
	userID := c.GetInt("userID")

	center, ok, err := h.discoverCenter(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve location"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}

	radiusKm := geo.DefaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	posts, err := h.postRepo.Discover(c.Request.Context(), center, radiusKm, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ClaimPost handles POST /posts/:post_id/claim. The claim is committed
// before its side effects run: a failed conversation or notification never
// rolls it back, since retrying the claim would break at-most-one-claimant.
func (h *PostHandler) ClaimPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	userID := c.GetInt("userID")
	post, err := h.postRepo.Claim(c.Request.Context(), postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPostNotFound):
			observability.IncClaim("not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, repositories.ErrSelfClaim):
			observability.IncClaim("self_claim")
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot claim your own post"})
		case errors.Is(err, repositories.ErrAlreadyClaimed):
			// The recorded claimant may be retrying because the conversation
			// step failed after the claim committed. Hand them their
			// conversation instead of a conflict.
			if current, gerr := h.postRepo.GetPost(c.Request.Context(), postID); gerr == nil &&
				current.ClaimantID != nil && *current.ClaimantID == userID {
				observability.IncClaim("retry")
				h.respondWithClaim(c, current, userID)
				return
			}
			observability.IncClaim("conflict")
			c.JSON(http.StatusConflict, gin.H{"error": "post already claimed"})
		case errors.Is(err, repositories.ErrNotClaimable):
			observability.IncClaim("not_claimable")
			c.JSON(http.StatusConflict, gin.H{"error": "post is not claimable"})
		default:
			observability.IncClaim("error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not claim post"})
		}
		return
	}
	observability.IncClaim("success")

	if _, nerr := h.dispatcher.Notify(c.Request.Context(), post.OwnerID,
		"Your post was claimed", fmt.Sprintf("%q has been claimed.", post.Title),
		models.NotificationPostClaimed, &post.ID); nerr != nil {
		log.Printf("claim notification failed for post %d: %v", post.ID, nerr)
	}

	h.emitAudit(c, "INFO", "Post claimed")
	h.respondWithClaim(c, post, userID)
}

// respondWithClaim answers a claim with the post and its conversation.
// The claim stands either way; the conversation is independently
// retryable by claiming again.
func (h *PostHandler) respondWithClaim(c *gin.Context, post models.MealPost, claimantID int) {
	response := gin.H{"post": post}
	conv, err := h.conversationRepo.GetOrCreate(c.Request.Context(), post.ID, post.OwnerID, claimantID)
	if err != nil {
		log.Printf("conversation create failed after claim of post %d: %v", post.ID, err)
	} else {
		response["conversation_id"] = conv.ID
	}
	c.JSON(http.StatusOK, response)
}

// ReportPost handles POST /posts/:post_id/report.
func (h *PostHandler) ReportPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	if err := h.postRepo.Report(c.Request.Context(), postID, userID, req.Reason); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, repositories.ErrSelfReport):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot report your own post"})
		case errors.Is(err, repositories.ErrAlreadyReported):
			c.JSON(http.StatusConflict, gin.H{"error": "post already reported"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not report post"})
		}
		return
	}

	observability.IncReport()
	if h.publisher != nil {
		event := map[string]interface{}{"post_id": postID, "reporter_id": userID, "reason": req.Reason}
		if perr := h.publisher.Publish(c.Request.Context(), "moderation.reports", event); perr != nil {
			log.Printf("moderation event publish failed: %v", perr)
		}
	}

	h.emitAudit(c, "INFO", "Post reported")
	c.JSON(http.StatusOK, gin.H{"status": "reported"})
}

// ListMine handles GET /posts/mine.
func (h *PostHandler) ListMine(c *gin.Context) {
	userID := c.GetInt("userID")
	posts, err := h.postRepo.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListClaimed handles GET /posts/claimed.
func (h *PostHandler) ListClaimed(c *gin.Context) {
	userID := c.GetInt("userID")
	posts, err := h.postRepo.ListClaimedBy(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) discoverCenter(c *gin.Context, userID int) (geo.Coordinate, bool, error) {
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" && lngRaw == "" {
		user, err := h.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			return geo.Coordinate{}, false, err
		}
		return geo.Coordinate{Latitude: user.Latitude, Longitude: user.Longitude}, true, nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return geo.Coordinate{}, false, nil
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return geo.Coordinate{}, false, nil
	}
	return geo.Coordinate{Latitude: lat, Longitude: lng}, true, nil
}

func (h *PostHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
