package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"foodshare-service/internal/adminreg"
	"foodshare-service/internal/db"
	"foodshare-service/internal/handlers"
	"foodshare-service/internal/middleware"
	"foodshare-service/internal/notify"
	"foodshare-service/internal/observability"
	"foodshare-service/internal/rabbitmq"
	"foodshare-service/internal/repositories"
	"foodshare-service/internal/telemetry"
	"foodshare-service/internal/ws"
)

const serviceName = "foodshare-service"

func main() {
	ctx := context.Background()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing := telemetry.SetupTracing(ctx, serviceName, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(getEnv("AMQP_URL", ""), getEnv("AMQP_EXCHANGE", "foodshare.events"))
	defer publisher.Close()

	if url := getEnv("AMQP_URL", ""); url != "" {
		eventsPublisher, err := observability.NewAMQPPublisher(url, getEnv("AMQP_EVENTS_EXCHANGE", "foodshare.ws"))
		if err != nil {
			log.Printf("ws event publisher disabled: %v", err)
		} else {
			defer eventsPublisher.Close()
			observability.SetPublisher(eventsPublisher)
		}
	}

	registry := adminreg.Load(getEnv("ADMIN_REGISTRY_PATH", "admins.json"))

	audit := telemetry.NewAuditEmitter(publisher, getEnv("AUDIT_ROUTING_KEY", "audit.logs"), serviceName, getEnv("ENVIRONMENT", "dev"))

	userRepo := repositories.NewUserRepo(database)
	postRepo := repositories.NewPostRepo(database)
	conversationRepo := repositories.NewConversationRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)
	statsRepo := repositories.NewStatsRepo(database)

	dispatcher := notify.NewDispatcher(userRepo, notificationRepo, publisher)

	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(userRepo, registry, audit)
	postHandler := handlers.NewPostHandler(postRepo, conversationRepo, userRepo, dispatcher, publisher, audit)
	chatHandler := handlers.NewChatHandler(conversationRepo, messageRepo, userRepo, dispatcher, hub)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	adminHandler := handlers.NewAdminHandler(postRepo, statsRepo, dispatcher, audit)

	conversationWS := ws.NewConversationWebSocketHandler(hub, conversationRepo, userRepo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	authMiddleware := middleware.AuthMiddleware(userRepo)

	router.POST("/auth/logout", authMiddleware, authHandler.Logout)
	router.PUT("/profile/location", authMiddleware, authHandler.UpdateLocation)
	router.PUT("/profile/password", authMiddleware, authHandler.ChangePassword)
	router.DELETE("/profile", authMiddleware, authHandler.DeleteAccount)

	router.POST("/posts", authMiddleware, postHandler.CreatePost)
	router.GET("/posts/discover", authMiddleware, postHandler.Discover)
	router.GET("/posts/mine", authMiddleware, postHandler.ListMine)
	router.GET("/posts/claimed", authMiddleware, postHandler.ListClaimed)
	router.POST("/posts/:post_id/claim", authMiddleware, postHandler.ClaimPost)
	router.POST("/posts/:post_id/report", authMiddleware, postHandler.ReportPost)

	router.GET("/conversations", authMiddleware, chatHandler.ListConversations)
	router.GET("/conversations/unread", authMiddleware, chatHandler.TotalUnread)
	router.GET("/conversations/:conversation_id/messages", authMiddleware, chatHandler.GetMessages)
	router.POST("/conversations/:conversation_id/messages", authMiddleware, chatHandler.SendMessage)
	router.POST("/conversations/:conversation_id/read", authMiddleware, chatHandler.MarkRead)
	router.POST("/conversations/:conversation_id/close", authMiddleware, chatHandler.CloseConversation)

	router.GET("/notifications", authMiddleware, notificationHandler.List)
	router.POST("/notifications/:notification_id/read", authMiddleware, notificationHandler.MarkRead)

	adminOnly := middleware.AdminOnly()

	admin := router.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/posts/pending", adminHandler.ListPending)
	admin.GET("/posts", adminHandler.ListAll)
	admin.GET("/posts/reported", adminHandler.ReportedQueue)
	admin.POST("/posts/:post_id/moderate", adminHandler.Moderate)
	admin.DELETE("/posts/:post_id", adminHandler.Remove)
	admin.POST("/posts/:post_id/approve-reported", adminHandler.ApproveReported)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/export/posts.csv", adminHandler.ExportCSV)
	admin.GET("/export/summary.txt", adminHandler.ExportSummary)

	router.GET("/ws/conversations/:conversation_id", conversationWS.Handle)

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
