package notify

import (
	"context"
	"log"

	"foodshare-service/internal/models"
	"foodshare-service/internal/observability"
	"foodshare-service/internal/rabbitmq"
	"foodshare-service/internal/repositories"
)

// Dispatcher turns lifecycle and conversation events into addressed
// notification records. Delivery is fire-and-forget: callers in lifecycle
// paths log a failed dispatch and move on.
type Dispatcher interface {
	Notify(ctx context.Context, userID int, title, body, notificationType string, postID *int) (models.Notification, error)
}

// DBDispatcher writes notifications through the repository and mirrors
// them onto the event exchange.
type DBDispatcher struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	publisher     rabbitmq.Publisher
}

// NewDispatcher constructs a DBDispatcher.
func NewDispatcher(users repositories.UserRepository, notifications repositories.NotificationRepository, publisher rabbitmq.Publisher) *DBDispatcher {
	return &DBDispatcher{users: users, notifications: notifications, publisher: publisher}
}

// Notify stores a notification for an existing user. The AMQP mirror is
// best-effort; a broker failure never fails the dispatch.
func (d *DBDispatcher) Notify(ctx context.Context, userID int, title, body, notificationType string, postID *int) (models.Notification, error) {
	exists, err := d.users.Exists(ctx, userID)
	if err != nil {
		return models.Notification{}, err
	}
	if !exists {
		return models.Notification{}, repositories.ErrUserNotFound
	}

	created, err := d.notifications.Create(ctx, models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   notificationType,
		PostID: postID,
	})
	if err != nil {
		return models.Notification{}, err
	}

	observability.IncNotification(notificationType)
	if d.publisher != nil {
		if perr := d.publisher.Publish(ctx, "notifications."+notificationType, created); perr != nil {
			log.Printf("notification event publish failed: %v", perr)
		}
	}
	return created, nil
}
