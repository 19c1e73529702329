package mysql

import (
	"database/sql"

	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/util"

	"go.uber.org/zap"
)

// notificationRepository implements interfaces.NotificationRepository.
type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	query := `INSERT INTO notifications (receiver_id, sender_id, type, post_id, comment_id, is_read, created_at)
              VALUES (?, ?, ?, ?, ?, FALSE, NOW())`
	result, err := r.db.Exec(query,
		notification.ReceiverID,
		notification.SenderID,
		notification.Type,
		notification.PostID,
		notification.CommentID)
	if err != nil {
		util.Logger.Error("failed to create notification", zap.Error(err),
			zap.String("type", notification.Type),
			zap.Int("receiver_id", notification.ReceiverID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = int(id)
	return nil
}

// ListByReceiver returns the receiver's notifications newest first with the
// sender attached. The related post, when present, is resolved with a
// per-row lookup.
func (r *notificationRepository) ListByReceiver(receiverID, page, pageSize int) ([]*model.Notification, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE receiver_id = ?`, receiverID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT n.id, n.receiver_id, n.sender_id, n.type, n.post_id, n.comment_id,
               n.is_read, n.created_at,
               u.username, u.avatar_url
        FROM notifications n
        LEFT JOIN users u ON n.sender_id = u.id
        WHERE n.receiver_id = ?
        ORDER BY n.created_at DESC
        LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, receiverID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := []*model.Notification{}
	for rows.Next() {
		var n model.Notification
		var sender model.User
		err := rows.Scan(
			&n.ID, &n.ReceiverID, &n.SenderID, &n.Type, &n.PostID, &n.CommentID,
			&n.IsRead, &n.CreatedAt,
			&sender.Username, &sender.AvatarURL,
		)
		if err != nil {
			return nil, 0, err
		}
		sender.ID = n.SenderID
		n.Sender = &sender
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, n := range notifications {
		if n.PostID == nil {
			continue
		}
		var post model.Post
		err := r.db.QueryRow(`
            SELECT id, user_id, file_key, caption, likes_count, comments_count, created_at, updated_at
            FROM posts WHERE id = ?`, *n.PostID).Scan(
			&post.ID, &post.UserID, &post.FileKey, &post.Caption,
			&post.LikesCount, &post.CommentsCount, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, 0, err
		}
		n.Post = &post
	}

	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(receiverID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE receiver_id = ? AND is_read = FALSE`, receiverID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(id, receiverID int) error {
	result, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = ? AND receiver_id = ?`, id, receiverID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(receiverID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE receiver_id = ?`, receiverID)
	return err
}
