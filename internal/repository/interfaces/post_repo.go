package interfaces

import "github.com/codewithsuzan/Momento/internal/model"

// PostRepository defines the database operations around posts and the
// interaction records attached to them. Multi-row invariants (post counters,
// the owner's post count, cascading deletes) are kept inside single
// transactions by the implementation.
type PostRepository interface {
	// CreatePost inserts the post and increments the owner's post count.
	CreatePost(post *model.Post) error
	GetPostByID(id int) (*model.Post, error)
	// DeletePost removes the post together with its likes, comments,
	// bookmarks and notifications, and decrements the owner's post count
	// (floored at zero).
	DeletePost(id int) error
	ListFeedPosts(page, pageSize int) ([]*model.Post, int, error)
	ListUserPosts(userID, page, pageSize int) ([]*model.Post, int, error)
	CountPosts() (int, error)

	HasLike(postID, userID int) (bool, error)
	CreateLike(like *model.Like) error
	DeleteLike(userID, postID int) error
	GetLikeCount(postID int) (int, error)
	CountLikes() (int, error)

	HasBookmark(postID, userID int) (bool, error)
	CreateBookmark(bookmark *model.Bookmark) error
	DeleteBookmark(userID, postID int) error
	ListBookmarkedPosts(userID, page, pageSize int) ([]*model.Post, int, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id int) (*model.Comment, error)
	ListComments(postID, page, pageSize int) ([]*model.Comment, error)
	DeleteComment(id int) error
	GetCommentCount(postID int) (int, error)
	CountComments() (int, error)

	GetUserByID(id int) (*model.User, error)
}
