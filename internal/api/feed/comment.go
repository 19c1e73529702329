package feed

import (
	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"

	"github.com/gin-gonic/gin"
)

// CommentHandler serves comments on posts.
type CommentHandler struct {
	feedService service.FeedServiceInterface
}

func NewCommentHandler(feedService service.FeedServiceInterface) *CommentHandler {
	return &CommentHandler{feedService}
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("user_id")

	var commentData struct {
		Content string `json:"content" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: commentData.Content,
	}
	if err := h.feedService.AddComment(comment); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comment": comment}, "comment added")
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(c)

	comments, err := h.feedService.GetComments(postID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"comments": comments,
		"page":     page,
	}, "")
}

// DeleteComment removes a comment; allowed for the comment author and the
// post owner.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	userID := c.GetInt("user_id")

	if err := h.feedService.DeleteComment(userID, commentID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "comment deleted")
}
