package user

import (
	"strconv"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/storage"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler serves user profiles and the follow graph.
type ProfileHandler struct {
	userService service.UserServiceInterface
	storage     storage.Storage
}

func NewProfileHandler(userService service.UserServiceInterface, store storage.Storage) *ProfileHandler {
	return &ProfileHandler{userService, store}
}

// GetProfile returns the authenticated user's own profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	profile, err := h.userService.GetUserProfile(userID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	h.resolveAvatar(profile.User)

	errors.HandleSuccess(c, gin.H{"user": profile}, "")
}

// GetUserProfile returns any user's public profile. The viewer may be
// anonymous.
func (h *ProfileHandler) GetUserProfile(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid user id"))
		return
	}
	viewerID := c.GetInt("user_id")

	profile, err := h.userService.GetUserProfile(viewerID, targetID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	h.resolveAvatar(profile.User)

	errors.HandleSuccess(c, gin.H{"user": profile}, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	// pointer fields so an omitted key is distinguishable from an
	// explicit empty value
	var updateData struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("profile update rejected, invalid request body", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	current, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if updateData.Username != nil {
		current.Username = *updateData.Username
	}
	if updateData.Bio != nil {
		current.Bio = *updateData.Bio
	}

	if err := h.userService.UpdateUser(current); err != nil {
		errors.HandleError(c, err)
		return
	}
	h.resolveAvatar(current)

	errors.HandleSuccess(c, gin.H{"user": current}, "profile updated")
}

// UploadAvatar stores a new avatar image and records its key on the user.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "missing avatar file", err))
		return
	}

	key := util.GenerateObjectKey("avatars", file.Filename)
	if _, err := h.storage.UploadFile(file, key); err != nil {
		util.Logger.Error("failed to upload avatar", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to upload avatar", err))
		return
	}

	if err := h.userService.UpdateAvatar(userID, key); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"avatar_url": h.storage.FileURL(key),
	}, "avatar updated")
}

// ToggleFollow follows or unfollows the target user.
func (h *ProfileHandler) ToggleFollow(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid user id"))
		return
	}
	userID := c.GetInt("user_id")

	following, err := h.userService.ToggleFollow(userID, targetID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"following": following}, "")
}

func (h *ProfileHandler) GetFollowers(c *gin.Context) {
	h.listFollowUsers(c, h.userService.GetFollowers)
}

func (h *ProfileHandler) GetFollowing(c *gin.Context) {
	h.listFollowUsers(c, h.userService.GetFollowing)
}

func (h *ProfileHandler) listFollowUsers(c *gin.Context, list func(userID, page, pageSize int) ([]*model.User, error)) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid user id"))
		return
	}
	page, pageSize := pagination(c)

	users, err := list(targetID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	for _, u := range users {
		h.resolveAvatar(u)
	}

	errors.HandleSuccess(c, gin.H{"users": users, "page": page}, "")
}

// resolveAvatar turns a stored object key into a servable URL.
func (h *ProfileHandler) resolveAvatar(u *model.User) {
	if u != nil && u.AvatarURL != "" {
		u.AvatarURL = h.storage.FileURL(u.AvatarURL)
	}
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
