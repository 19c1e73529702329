package middleware

import (
	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware restricts a route group to users with the admin role.
// Must run after AuthMiddleware.
func AdminMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		isAdmin, err := userService.IsAdmin(userID.(int))
		if err != nil || !isAdmin {
			util.Logger.Warn("non-admin access attempt",
				zap.Int("user_id", userID.(int)),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
