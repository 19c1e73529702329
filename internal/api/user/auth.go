package user

import (
	"strings"
	"unicode"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration, login and session management.
type AuthHandler struct {
	userService service.UserServiceInterface
}

func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username string `json:"username" binding:"required,min=3,max=30"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("registration rejected, invalid request body", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	if !isPasswordStrong(registerData.Password) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "password must be at least 8 characters with upper, lower, number and special characters"))
		return
	}

	user := &model.User{
		Username:     registerData.Username,
		Email:        registerData.Email,
		PasswordHash: registerData.Password,
	}

	if err := h.userService.Register(user); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrUserExists {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("registration failed", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "registration failed", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user_id": user.ID,
	}, "registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	user, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "failed to generate token", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "logged in successfully")
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var requestData struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&requestData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid email format", err))
		return
	}

	// same response whether or not the account exists
	if err := h.userService.RequestPasswordReset(requestData.Email); err != nil {
		if appErr, ok := err.(*errors.AppError); !ok || appErr.Code != errors.ErrUserNotFound {
			util.Logger.Error("failed to request password reset", zap.Error(err))
		}
	}

	errors.HandleSuccess(c, nil, "if the email is registered, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var resetData struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&resetData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
		return
	}

	if !isPasswordStrong(resetData.NewPassword) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "new password is too weak"))
		return
	}

	if err := h.userService.ResetPassword(resetData.Token, resetData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "password reset successfully")
}

// Logout blacklists the token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
		return
	}

	if err := h.userService.Logout(token); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "logout failed", err))
		return
	}
	errors.HandleSuccess(c, nil, "logged out successfully")
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" || token == authHeader {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "missing token"))
		return
	}

	newToken, err := util.RefreshToken(token)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "failed to refresh token", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "token refreshed")
}

func isPasswordStrong(password string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	if len(password) < 8 {
		return false
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
