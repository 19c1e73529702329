package feed

import (
	"strconv"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedHandler serves the post feed: creation, retrieval, deletion, likes
// and bookmarks.
type FeedHandler struct {
	feedService service.FeedServiceInterface
}

func NewFeedHandler(feedService service.FeedServiceInterface) *FeedHandler {
	return &FeedHandler{feedService}
}

// CreatePost records a post referencing an already-uploaded image.
func (h *FeedHandler) CreatePost(c *gin.Context) {
	userID := c.GetInt("user_id")

	var postData struct {
		FileKey string `json:"file_key" binding:"required,objectkey"`
		Caption string `json:"caption" binding:"max=2200"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		util.Logger.Warn("post creation rejected, invalid request body", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	post := &model.Post{
		UserID:  userID,
		FileKey: postData.FileKey,
		Caption: postData.Caption,
	}
	if err := h.feedService.CreatePost(post); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "post created")
}

// GetFeed returns the reverse-chronological feed for all users.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	viewerID := c.GetInt("user_id")
	page, pageSize := pagination(c)

	posts, total, err := h.feedService.GetFeedPosts(viewerID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to load feed", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

func (h *FeedHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewerID := c.GetInt("user_id")

	post, err := h.feedService.GetPost(viewerID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "")
}

// GetUserPosts returns one user's posts, newest first.
func (h *FeedHandler) GetUserPosts(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewerID := c.GetInt("user_id")
	page, pageSize := pagination(c)

	posts, total, err := h.feedService.GetUserPosts(viewerID, targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts": posts,
		"total": total,
		"page":  page,
	}, "")
}

// DeletePost removes the caller's own post along with everything attached
// to it.
func (h *FeedHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("user_id")

	if err := h.feedService.DeletePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "post deleted")
}

// ToggleLike likes the post, or removes the like if one exists.
func (h *FeedHandler) ToggleLike(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("user_id")

	liked, count, err := h.feedService.ToggleLike(userID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"liked":       liked,
		"likes_count": count,
	}, "")
}

// ToggleBookmark bookmarks the post, or removes the bookmark if one exists.
func (h *FeedHandler) ToggleBookmark(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("user_id")

	bookmarked, err := h.feedService.ToggleBookmark(userID, postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"bookmarked": bookmarked}, "")
}

func (h *FeedHandler) GetBookmarkedPosts(c *gin.Context) {
	userID := c.GetInt("user_id")
	page, pageSize := pagination(c)

	posts, total, err := h.feedService.GetBookmarkedPosts(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to load bookmarks", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts": posts,
		"total": total,
		"page":  page,
	}, "")
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	return page, pageSize
}
