package interfaces

import "github.com/codewithsuzan/Momento/internal/model"

// NotificationRepository defines the database operations around notifications.
type NotificationRepository interface {
	Create(notification *model.Notification) error
	ListByReceiver(receiverID, page, pageSize int) ([]*model.Notification, int, error)
	CountUnread(receiverID int) (int, error)
	MarkRead(id, receiverID int) error
	MarkAllRead(receiverID int) error
}
