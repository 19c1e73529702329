package service

import (
	"database/sql"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/repository/interfaces"
	"github.com/codewithsuzan/Momento/internal/storage"
)

// NotificationService reads and updates a user's notification inbox.
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	storage          storage.Storage
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository, store storage.Storage) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, storage: store}
}

func (s *NotificationService) GetNotifications(receiverID, page, pageSize int) ([]*model.Notification, int, error) {
	notifications, total, err := s.notificationRepo.ListByReceiver(receiverID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for _, n := range notifications {
		if n.Post != nil && n.Post.FileKey != "" {
			n.Post.ImageURL = s.storage.FileURL(n.Post.FileKey)
		}
		if n.Sender != nil && n.Sender.AvatarURL != "" {
			n.Sender.AvatarURL = s.storage.FileURL(n.Sender.AvatarURL)
		}
	}
	return notifications, total, nil
}

func (s *NotificationService) GetUnreadCount(receiverID int) (int, error) {
	return s.notificationRepo.CountUnread(receiverID)
}

// MarkRead marks one of receiverID's notifications as read.
func (s *NotificationService) MarkRead(id, receiverID int) error {
	err := s.notificationRepo.MarkRead(id, receiverID)
	if err == sql.ErrNoRows {
		return errors.New(errors.ErrResourceNotFound, "notification not found")
	}
	return err
}

func (s *NotificationService) MarkAllRead(receiverID int) error {
	return s.notificationRepo.MarkAllRead(receiverID)
}

// NotificationServiceInterface is what the notification handlers depend on.
type NotificationServiceInterface interface {
	GetNotifications(receiverID, page, pageSize int) ([]*model.Notification, int, error)
	GetUnreadCount(receiverID int) (int, error)
	MarkRead(id, receiverID int) error
	MarkAllRead(receiverID int) error
}

var _ NotificationServiceInterface = (*NotificationService)(nil)
