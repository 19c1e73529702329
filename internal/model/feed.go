package model

import "time"

// Post is a single feed entry. LikesCount and CommentsCount are stored on the
// row and mutated in the same transaction as the Like/Comment records, so they
// always mirror the record counts.
type Post struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	FileKey       string    `json:"file_key"`
	ImageURL      string    `json:"image_url"`
	Caption       string    `json:"caption"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// viewer-dependent fields, filled during feed enrichment
	User         *User `json:"user,omitempty"`
	IsLiked      bool  `json:"is_liked"`
	IsBookmarked bool  `json:"is_bookmarked"`
}

type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is a saved-for-later marker a user attaches to a post.
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"user,omitempty"`
}
