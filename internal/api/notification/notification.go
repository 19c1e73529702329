package notification

import (
	"strconv"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the authenticated user's notification inbox.
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetInt("user_id")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := h.notificationService.GetNotifications(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to load notifications", err))
		return
	}

	unread, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to count notifications", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"unread_count":  unread,
	}, "")
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetInt("user_id")

	count, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to count notifications", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"unread_count": count}, "")
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid id"))
		return
	}
	userID := c.GetInt("user_id")

	if err := h.notificationService.MarkRead(id, userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to mark notifications as read", err))
		return
	}

	errors.HandleSuccess(c, nil, "all notifications marked as read")
}
