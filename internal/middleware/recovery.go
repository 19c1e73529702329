package middleware

import (
	"runtime/debug"

	"github.com/codewithsuzan/Momento/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("panic recovered",
					zap.Any("error", r),
					zap.String("stack", string(debug.Stack())))

				errors.HandleError(c, errors.New(errors.ErrInternal, "internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
