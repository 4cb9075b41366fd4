package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodshare-service/internal/export"
	"foodshare-service/internal/models"
	"foodshare-service/internal/notify"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/telemetry"
)

// AdminHandler manages the moderation and reporting endpoints. All routes
// sit behind the admin middleware.
type AdminHandler struct {
	postRepo   repositories.PostRepository
	statsRepo  repositories.StatsRepository
	dispatcher notify.Dispatcher
	audit      *telemetry.AuditEmitter
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(postRepo repositories.PostRepository, statsRepo repositories.StatsRepository, dispatcher notify.Dispatcher, audit *telemetry.AuditEmitter) *AdminHandler {
	return &AdminHandler{postRepo: postRepo, statsRepo: statsRepo, dispatcher: dispatcher, audit: audit}
}

// ListPending returns posts awaiting moderation, regardless of location.
func (h *AdminHandler) ListPending(c *gin.Context) {
	posts, err := h.postRepo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListAll returns every post, removed ones included.
func (h *AdminHandler) ListAll(c *gin.Context) {
	posts, err := h.postRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ReportedQueue returns reported posts, most reported first, with the
// individual report rows for the moderation view.
func (h *AdminHandler) ReportedQueue(c *gin.Context) {
	posts, err := h.postRepo.ReportedQueue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reported posts"})
		return
	}

	type reportedPost struct {
		models.MealPost
		Reports []models.PostReport `json:"reports"`
	}
	queue := make([]reportedPost, 0, len(posts))
	for _, p := range posts {
		reports, rerr := h.postRepo.ReportsForPost(c.Request.Context(), p.ID)
		if rerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
			return
		}
		queue = append(queue, reportedPost{MealPost: p, Reports: reports})
	}
	c.JSON(http.StatusOK, gin.H{"posts": queue})
}

// Moderate settles a post's moderation status and notifies the owner.
func (h *AdminHandler) Moderate(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.StatusApproved
	notificationType := models.NotificationPostApproved
	title := "Your post was approved"
	if req.Decision == models.DecisionReject {
		status = models.StatusRejected
		notificationType = models.NotificationPostRejected
		title = "Your post was rejected"
	}

	post, err := h.postRepo.Moderate(c.Request.Context(), postID, status, req.Comment)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not moderate post"})
		return
	}

	if _, nerr := h.dispatcher.Notify(c.Request.Context(), post.OwnerID, title,
		fmt.Sprintf("%q: %s", post.Title, req.Comment), notificationType, &post.ID); nerr != nil {
		log.Printf("moderation notification failed for post %d: %v", post.ID, nerr)
	}

	h.emitAudit(c, "INFO", "Post moderated")
	c.JSON(http.StatusOK, post)
}

// Remove flags a post as removed. The post stays for audit and report
// data but leaves discovery and claiming.
func (h *AdminHandler) Remove(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	// The comment is optional; a missing body is fine.
	_ = c.ShouldBindJSON(&req)

	post, err := h.postRepo.Remove(c.Request.Context(), postID, req.Comment)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove post"})
		return
	}

	if _, nerr := h.dispatcher.Notify(c.Request.Context(), post.OwnerID,
		"Your post was removed", fmt.Sprintf("%q was removed by a moderator: %s", post.Title, req.Comment),
		models.NotificationPostRemoved, &post.ID); nerr != nil {
		log.Printf("removal notification failed for post %d: %v", post.ID, nerr)
	}

	h.emitAudit(c, "INFO", "Post removed")
	c.JSON(http.StatusOK, post)
}

// ApproveReported discards a post's reports as unfounded without touching
// its moderation status.
func (h *AdminHandler) ApproveReported(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := h.postRepo.ClearReports(c.Request.Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear reports"})
		return
	}

	h.emitAudit(c, "INFO", "Reports cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// Stats returns the on-demand reporting rollup.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsRepo.Collect(c.Request.Context(), intQuery(c, "top", 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCSV renders the post report as CSV.
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	posts, err := h.postRepo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="posts.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(export.PostsCSV(posts)))
}

// ExportSummary renders the plain-text statistics report.
func (h *AdminHandler) ExportSummary(c *gin.Context) {
	stats, err := h.statsRepo.Collect(c.Request.Context(), intQuery(c, "top", 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect statistics"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="summary.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Summary(stats)))
}

func (h *AdminHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
