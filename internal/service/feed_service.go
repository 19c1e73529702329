package service

import (
	"github.com/codewithsuzan/Momento/internal/common"
	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/repository/interfaces"
	"github.com/codewithsuzan/Momento/internal/storage"
	"github.com/codewithsuzan/Momento/internal/util"

	"go.uber.org/zap"
)

// FeedService implements the post feed: creating and deleting posts, toggling
// likes and bookmarks, comments, and feed retrieval with per-viewer
// enrichment.
type FeedService struct {
	postRepo         interfaces.PostRepository
	notificationRepo interfaces.NotificationRepository
	storage          storage.Storage
}

func NewFeedService(postRepo interfaces.PostRepository, notificationRepo interfaces.NotificationRepository, store storage.Storage) *FeedService {
	return &FeedService{
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
		storage:          store,
	}
}

func (s *FeedService) CreatePost(post *model.Post) error {
	if !util.IsValidObjectKey(post.FileKey) {
		return errors.New(errors.ErrValidation, "invalid file key")
	}
	if err := s.postRepo.CreatePost(post); err != nil {
		return err
	}
	post.ImageURL = s.storage.FileURL(post.FileKey)
	return nil
}

func (s *FeedService) GetPost(viewerID, id int) (*model.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found")
	}
	if err := s.enrich([]*model.Post{post}, viewerID); err != nil {
		return nil, err
	}
	return post, nil
}

// GetFeedPosts returns the reverse-chronological feed. Viewer-dependent
// flags are resolved with sequential per-post lookups.
func (s *FeedService) GetFeedPosts(viewerID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.ListFeedPosts(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.enrich(posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *FeedService) GetUserPosts(viewerID, userID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.ListUserPosts(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.enrich(posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// DeletePost removes userID's own post together with its likes, comments,
// bookmarks, notifications and the stored image.
func (s *FeedService) DeletePost(userID, postID int) error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "Post not found")
	}
	if post.UserID != userID {
		return errors.New(errors.ErrForbidden, "Not authorized to delete this post")
	}

	if err := s.postRepo.DeletePost(postID); err != nil {
		return err
	}

	// storage lives outside the transaction; retry temporary failures and
	// leave an orphaned object behind rather than failing the delete
	fileKey := post.FileKey
	if err := common.WithRetry(func() error {
		return s.storage.DeleteFile(fileKey)
	}, 3); err != nil {
		util.Logger.Error("failed to delete stored image", zap.Error(err),
			zap.Int("post_id", postID), zap.String("file_key", fileKey))
	}

	return nil
}

// ToggleLike flips userID's like on the post and returns the resulting
// state and count. Liking someone else's post notifies the owner.
func (s *FeedService) ToggleLike(userID, postID int) (bool, int, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return false, 0, err
	}
	if post == nil {
		return false, 0, errors.New(errors.ErrPostNotFound, "Post not found")
	}

	liked, err := s.postRepo.HasLike(postID, userID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		if err := s.postRepo.DeleteLike(userID, postID); err != nil {
			return false, 0, err
		}
	} else {
		if err := s.postRepo.CreateLike(&model.Like{UserID: userID, PostID: postID}); err != nil {
			return false, 0, err
		}
		if post.UserID != userID {
			s.notify(&model.Notification{
				ReceiverID: post.UserID,
				SenderID:   userID,
				Type:       model.NotificationTypeLike,
				PostID:     &postID,
			})
		}
	}

	count, err := s.postRepo.GetLikeCount(postID)
	if err != nil {
		return false, 0, err
	}
	return !liked, count, nil
}

// ToggleBookmark flips userID's bookmark on the post and returns the
// resulting state.
func (s *FeedService) ToggleBookmark(userID, postID int) (bool, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, errors.New(errors.ErrPostNotFound, "Post not found")
	}

	bookmarked, err := s.postRepo.HasBookmark(postID, userID)
	if err != nil {
		return false, err
	}

	if bookmarked {
		if err := s.postRepo.DeleteBookmark(userID, postID); err != nil {
			return false, err
		}
	} else {
		if err := s.postRepo.CreateBookmark(&model.Bookmark{UserID: userID, PostID: postID}); err != nil {
			return false, err
		}
	}
	return !bookmarked, nil
}

func (s *FeedService) GetBookmarkedPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	posts, total, err := s.postRepo.ListBookmarkedPosts(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if err := s.enrich(posts, userID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// AddComment stores the comment and notifies the post owner unless the
// commenter owns the post.
func (s *FeedService) AddComment(comment *model.Comment) error {
	post, err := s.postRepo.GetPostByID(comment.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "Post not found")
	}

	if err := s.postRepo.CreateComment(comment); err != nil {
		return err
	}

	if post.UserID != comment.UserID {
		s.notify(&model.Notification{
			ReceiverID: post.UserID,
			SenderID:   comment.UserID,
			Type:       model.NotificationTypeComment,
			PostID:     &comment.PostID,
			CommentID:  &comment.ID,
		})
	}
	return nil
}

func (s *FeedService) GetComments(postID, page, pageSize int) ([]*model.Comment, error) {
	comments, err := s.postRepo.ListComments(postID, page, pageSize)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		s.resolveAvatar(comment.User)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only the comment author or the post owner
// may delete it.
func (s *FeedService) DeleteComment(userID, commentID int) error {
	comment, err := s.postRepo.GetCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "Comment not found")
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetPostByID(comment.PostID)
		if err != nil {
			return err
		}
		if post == nil || post.UserID != userID {
			return errors.New(errors.ErrForbidden, "Not authorized to delete this comment")
		}
	}

	return s.postRepo.DeleteComment(commentID)
}

func (s *FeedService) GetUserByID(id int) (*model.User, error) {
	return s.postRepo.GetUserByID(id)
}

// enrich attaches image URLs and, for an authenticated viewer, the per-post
// like/bookmark flags. One lookup pair per post, as served to the client.
func (s *FeedService) enrich(posts []*model.Post, viewerID int) error {
	for _, post := range posts {
		post.ImageURL = s.storage.FileURL(post.FileKey)
		s.resolveAvatar(post.User)
	}
	if viewerID == 0 {
		return nil
	}
	for _, post := range posts {
		liked, err := s.postRepo.HasLike(post.ID, viewerID)
		if err != nil {
			return err
		}
		post.IsLiked = liked

		bookmarked, err := s.postRepo.HasBookmark(post.ID, viewerID)
		if err != nil {
			return err
		}
		post.IsBookmarked = bookmarked
	}
	return nil
}

// resolveAvatar turns a stored object key into a servable URL.
func (s *FeedService) resolveAvatar(u *model.User) {
	if u != nil && u.AvatarURL != "" {
		u.AvatarURL = s.storage.FileURL(u.AvatarURL)
	}
}

func (s *FeedService) notify(n *model.Notification) {
	if err := s.notificationRepo.Create(n); err != nil {
		util.Logger.Error("failed to create notification", zap.Error(err),
			zap.String("type", n.Type), zap.Int("receiver_id", n.ReceiverID))
	}
}

// FeedServiceInterface is what the feed handlers depend on.
type FeedServiceInterface interface {
	CreatePost(post *model.Post) error
	GetPost(viewerID, id int) (*model.Post, error)
	GetFeedPosts(viewerID, page, pageSize int) ([]*model.Post, int, error)
	GetUserPosts(viewerID, userID, page, pageSize int) ([]*model.Post, int, error)
	DeletePost(userID, postID int) error
	ToggleLike(userID, postID int) (bool, int, error)
	ToggleBookmark(userID, postID int) (bool, error)
	GetBookmarkedPosts(userID, page, pageSize int) ([]*model.Post, int, error)
	AddComment(comment *model.Comment) error
	GetComments(postID, page, pageSize int) ([]*model.Comment, error)
	DeleteComment(userID, commentID int) error
	GetUserByID(id int) (*model.User, error)
}

var _ FeedServiceInterface = (*FeedService)(nil)
