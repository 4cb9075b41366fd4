package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodshare-service/internal/geo"
	"foodshare-service/internal/models"
)

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) Create(ctx context.Context, post models.MealPost) (models.MealPost, error) {
	args := m.Called(ctx, post)
	var result models.MealPost
	if val := args.Get(0); val != nil {
		result = val.(models.MealPost)
	}
	return result, args.Error(1)
}

func (m *PostRepositoryMock) GetPost(ctx context.Context, postID int) (models.MealPost, error) {
	args := m.Called(ctx, postID)
	var result models.MealPost
	if val := args.Get(0); val != nil {
		result = val.(models.MealPost)
	}
	return result, args.Error(1)
}

func (m *PostRepositoryMock) Discover(ctx context.Context, center geo.Coordinate, radiusKm float64, limit, offset int) ([]models.MealPost, error) {
	args := m.Called(ctx, center, radiusKm, limit, offset)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) Claim(ctx context.Context, postID, claimantID int) (models.MealPost, error) {
	args := m.Called(ctx, postID, claimantID)
	var result models.MealPost
	if val := args.Get(0); val != nil {
		result = val.(models.MealPost)
	}
	return result, args.Error(1)
}

func (m *PostRepositoryMock) Report(ctx context.Context, postID, reporterID int, reason string) error {
	args := m.Called(ctx, postID, reporterID, reason)
	return args.Error(0)
}

func (m *PostRepositoryMock) Moderate(ctx context.Context, postID int, status, comment string) (models.MealPost, error) {
	args := m.Called(ctx, postID, status, comment)
	var result models.MealPost
	if val := args.Get(0); val != nil {
		result = val.(models.MealPost)
	}
	return result, args.Error(1)
}

func (m *PostRepositoryMock) Remove(ctx context.Context, postID int, comment string) (models.MealPost, error) {
	args := m.Called(ctx, postID, comment)
	var result models.MealPost
	if val := args.Get(0); val != nil {
		result = val.(models.MealPost)
	}
	return result, args.Error(1)
}

func (m *PostRepositoryMock) ClearReports(ctx context.Context, postID int) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *PostRepositoryMock) ReportedQueue(ctx context.Context) ([]models.MealPost, error) {
	args := m.Called(ctx)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) ReportsForPost(ctx context.Context, postID int) ([]models.PostReport, error) {
	args := m.Called(ctx, postID)
	var reports []models.PostReport
	if val := args.Get(0); val != nil {
		reports = val.([]models.PostReport)
	}
	return reports, args.Error(1)
}

func (m *PostRepositoryMock) ListPending(ctx context.Context) ([]models.MealPost, error) {
	args := m.Called(ctx)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) ListAll(ctx context.Context) ([]models.MealPost, error) {
	args := m.Called(ctx)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) ListMine(ctx context.Context, ownerID int) ([]models.MealPost, error) {
	args := m.Called(ctx, ownerID)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) ListClaimedBy(ctx context.Context, userID int) ([]models.MealPost, error) {
	args := m.Called(ctx, userID)
	var posts []models.MealPost
	if val := args.Get(0); val != nil {
		posts = val.([]models.MealPost)
	}
	return posts, args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreate(ctx context.Context, postID, creatorID, claimerID int) (models.Conversation, error) {
	args := m.Called(ctx, postID, creatorID, claimerID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var convs []models.Conversation
	if val := args.Get(0); val != nil {
		convs = val.([]models.Conversation)
	}
	return convs, args.Error(1)
}

func (m *ConversationRepositoryMock) Close(ctx context.Context, conversationID int) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) TotalUnread(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Send(ctx context.Context, conversationID, senderID int, senderName, content, contentType string) (models.ChatMessage, error) {
	args := m.Called(ctx, conversationID, senderID, senderName, content, contentType)
	var msg models.ChatMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.ChatMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Messages(ctx context.Context, conversationID, limit, offset int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	var msgs []models.ChatMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ChatMessage)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, conversationID, readerID int) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	args := m.Called(ctx, n)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID, userID int) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) Exists(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) UpdateLocation(ctx context.Context, userID int, city string, latitude, longitude float64, postalCode string) error {
	args := m.Called(ctx, userID, city, latitude, longitude, postalCode)
	return args.Error(0)
}

func (m *UserRepositoryMock) UpdatePasswordHash(ctx context.Context, userID int, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *UserRepositoryMock) Delete(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepositoryMock) CreateSession(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetSession(ctx context.Context, token string) (models.Session, error) {
	args := m.Called(ctx, token)
	var session models.Session
	if val := args.Get(0); val != nil {
		session = val.(models.Session)
	}
	return session, args.Error(1)
}

func (m *UserRepositoryMock) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type StatsRepositoryMock struct {
	mock.Mock
}

func (m *StatsRepositoryMock) Collect(ctx context.Context, topN int) (models.Statistics, error) {
	args := m.Called(ctx, topN)
	var stats models.Statistics
	if val := args.Get(0); val != nil {
		stats = val.(models.Statistics)
	}
	return stats, args.Error(1)
}

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Notify(ctx context.Context, userID int, title, body, notificationType string, postID *int) (models.Notification, error) {
	args := m.Called(ctx, userID, title, body, notificationType, postID)
	var created models.Notification
	if val := args.Get(0); val != nil {
		created = val.(models.Notification)
	}
	return created, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
