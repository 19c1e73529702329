package admin

import (
	"strconv"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/middleware"
	"github.com/codewithsuzan/Momento/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	userService  service.UserServiceInterface
	statsService *service.StatsService
	errorMonitor *middleware.ErrorMonitor
}

func NewAdminHandler(userService service.UserServiceInterface, statsService *service.StatsService, errorMonitor *middleware.ErrorMonitor) *AdminHandler {
	return &AdminHandler{userService, statsService, errorMonitor}
}

// GetSystemStats returns whole-system counters plus the error counts seen
// since startup.
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to load system stats", err))
		return
	}

	errorCounts := make(map[string]int)
	for code, count := range h.errorMonitor.GetErrorCounts() {
		errorCounts[strconv.Itoa(int(code))] = count
	}

	errors.HandleSuccess(c, gin.H{
		"stats":        stats,
		"error_counts": errorCounts,
	}, "")
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	users, err := h.userService.GetUsers(page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to list users", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"users": users,
		"page":  page,
	}, "")
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid user id"))
		return
	}

	var roleData struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&roleData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	if err := h.userService.UpdateUserRole(userID, roleData.Role); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "role updated")
}
