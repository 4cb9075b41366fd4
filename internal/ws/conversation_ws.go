package ws

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"foodshare-service/internal/observability"
	"foodshare-service/internal/repositories"
)

// ConversationWebSocketHandler serves the live feed of a conversation.
type ConversationWebSocketHandler struct {
	hub           *Hub
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
}

// NewConversationWebSocketHandler constructs a ConversationWebSocketHandler.
func NewConversationWebSocketHandler(hub *Hub, conversations repositories.ConversationRepository, users repositories.UserRepository) *ConversationWebSocketHandler {
	return &ConversationWebSocketHandler{hub: hub, conversations: conversations, users: users}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client in the
// conversation room.
func (h *ConversationWebSocketHandler) Handle(c *gin.Context) {
	conversationID, err := strconv.Atoi(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	ctx, span := otel.Tracer("foodshare-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	session, err := h.users.GetSession(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
		return
	}

	conv, err := h.conversations.Get(ctx, conversationID)
	if err != nil || !conv.HasParticipant(session.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for conversation"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      session.UserID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conversationID, conn, info)

	observability.IncWSActive(roomKind)
	observability.IncWSEvent(roomKind, "ws_connect")
	h.publishLifecycleEvent(ctx, conversationID, info, "ws_connect", "")

	go func() {
		defer func() {
			h.hub.RemoveClient(conversationID, conn)
			observability.DecWSActive(roomKind)
			observability.IncWSEvent(roomKind, "ws_disconnect")
			h.publishLifecycleEvent(context.Background(), conversationID, info, "ws_disconnect", "")
			conn.Close()
		}()

		// The feed is write-only; the read loop only detects the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *ConversationWebSocketHandler) publishLifecycleEvent(ctx context.Context, conversationID int, info ConnInfo, event, reason string) {
	_ = observability.PublishEvent(ctx, "ws_events.conversations", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"kind":        roomKind,
				"resource_id": conversationID,
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
