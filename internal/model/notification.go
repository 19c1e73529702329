package model

import "time"

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

// Notification tells ReceiverID that SenderID liked/commented on one of their
// posts, or followed them. PostID and CommentID are set depending on Type.
type Notification struct {
	ID         int       `json:"id"`
	ReceiverID int       `json:"receiver_id"`
	SenderID   int       `json:"sender_id"`
	Type       string    `json:"type"`
	PostID     *int      `json:"post_id,omitempty"`
	CommentID  *int      `json:"comment_id,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`

	Sender *User `json:"sender,omitempty"`
	Post   *Post `json:"post,omitempty"`
}
