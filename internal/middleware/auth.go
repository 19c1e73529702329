package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid Bearer token and sets "user_id" on the
// context. Blacklisted tokens are rejected even if otherwise valid.
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		token, ok := bearerToken(c)
		if !ok {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		if userService.IsTokenBlacklisted(token) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "token has been revoked"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set("user_id", userID)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "request timed out"))
			c.Abort()
		default:
			c.Next()
		}
	}
}

// OptionalAuthMiddleware sets "user_id" when a valid token is presented but
// lets anonymous requests through. Used on public reads that enrich their
// responses for authenticated viewers.
func OptionalAuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if userService.IsTokenBlacklisted(token) {
			c.Next()
			return
		}
		if userID, err := util.ValidateToken(token); err == nil {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
