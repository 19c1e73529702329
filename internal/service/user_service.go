package service

import (
	"context"
	"sync"
	"time"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/repository/interfaces"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts, sessions and the follow graph.
type UserService struct {
	userRepo         interfaces.UserRepository
	notificationRepo interfaces.NotificationRepository
	emailService     *EmailService
	rdb              *redis.Client

	// in-memory blacklist used when redis is not configured
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

func NewUserService(userRepo interfaces.UserRepository, notificationRepo interfaces.NotificationRepository, rdb *redis.Client) *UserService {
	return &UserService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     NewEmailService(),
		rdb:              rdb,
		tokenBlacklist:   make(map[string]time.Time),
	}
}

// IsUsernameTaken reports whether a user already owns the username.
func (s *UserService) IsUsernameTaken(username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register creates the account and sends a welcome email in the background.
func (s *UserService) Register(user *model.User) error {
	taken, err := s.IsUsernameTaken(user.Username)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "username already exists")
	}

	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	if user.Role == "" {
		user.Role = "user"
	}

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	go func(email, username string) {
		if err := s.emailService.SendWelcomeEmail(email, username); err != nil {
			util.Logger.Error("failed to send welcome email", zap.Error(err), zap.String("email", email))
		}
	}(user.Email, user.Username)

	util.Logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// Login verifies the credentials and returns the user.
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("login failed", zap.String("email", email))
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	util.Logger.Info("user logged in", zap.Int("user_id", user.ID))
	return user, nil
}

func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateUser updates the profile fields a user may change themselves.
func (s *UserService) UpdateUser(user *model.User) error {
	existing, err := s.GetUserByID(user.ID)
	if err != nil {
		return err
	}

	if user.Username != "" && user.Username != existing.Username {
		taken, err := s.IsUsernameTaken(user.Username)
		if err != nil {
			return err
		}
		if taken {
			return errors.New(errors.ErrUserExists, "username already exists")
		}
		existing.Username = user.Username
	}
	existing.Bio = user.Bio

	return s.userRepo.Update(existing)
}

// UpdateAvatar records the stored object key for the user's avatar.
func (s *UserService) UpdateAvatar(userID int, avatarURL string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.AvatarURL = avatarURL
	return s.userRepo.Update(user)
}

func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	return s.emailService.SendPasswordResetEmail(email)
}

func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.emailService.VerifyPasswordResetToken(token)
	if err != nil {
		util.Logger.Error("invalid password reset token", zap.Error(err))
		return errors.New(errors.ErrInvalidToken, "invalid or expired reset token")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	util.Logger.Info("password reset", zap.Int("user_id", user.ID))
	return nil
}

// Logout blacklists the presented token until it would have expired anyway.
func (s *UserService) Logout(token string) error {
	ttl := 24 * time.Hour

	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
			return errors.Wrap(errors.ErrCache, "failed to blacklist token", err)
		}
		return nil
	}

	s.blacklistMutex.Lock()
	s.tokenBlacklist[token] = time.Now().Add(ttl)
	s.blacklistMutex.Unlock()
	return nil
}

func (s *UserService) IsTokenBlacklisted(token string) bool {
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		n, err := s.rdb.Exists(ctx, blacklistKey(token)).Result()
		if err != nil {
			util.Logger.Error("failed to check token blacklist", zap.Error(err))
			return false
		}
		return n > 0
	}

	s.blacklistMutex.RLock()
	expiry, exists := s.tokenBlacklist[token]
	s.blacklistMutex.RUnlock()
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		s.blacklistMutex.Lock()
		delete(s.tokenBlacklist, token)
		s.blacklistMutex.Unlock()
		return false
	}
	return true
}

func blacklistKey(token string) string {
	return "token:blacklist:" + token
}

// ToggleFollow flips followerID's follow of targetID and returns the
// resulting state. Following someone notifies them.
func (s *UserService) ToggleFollow(followerID, targetID int) (bool, error) {
	if followerID == targetID {
		return false, errors.New(errors.ErrBadRequest, "cannot follow yourself")
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, errors.New(errors.ErrUserNotFound, "user not found")
	}

	following, err := s.userRepo.IsFollowing(followerID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.userRepo.DeleteFollow(followerID, targetID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.userRepo.CreateFollow(&model.Follow{FollowerID: followerID, FollowedID: targetID}); err != nil {
		return false, err
	}
	if err := s.notificationRepo.Create(&model.Notification{
		ReceiverID: targetID,
		SenderID:   followerID,
		Type:       model.NotificationTypeFollow,
	}); err != nil {
		util.Logger.Error("failed to create follow notification", zap.Error(err),
			zap.Int("receiver_id", targetID))
	}
	return true, nil
}

// GetUserProfile returns the target's public profile with follow counts and,
// when the viewer is authenticated, whether the viewer follows them.
func (s *UserService) GetUserProfile(viewerID, targetID int) (*model.UserProfile, error) {
	user, err := s.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}

	followerCount, err := s.userRepo.GetFollowerCount(targetID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.userRepo.GetFollowingCount(targetID)
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		User:           user,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}
	if viewerID > 0 && viewerID != targetID {
		isFollowing, err := s.userRepo.IsFollowing(viewerID, targetID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = isFollowing
	}
	return profile, nil
}

func (s *UserService) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	return s.userRepo.GetFollowers(userID, page, pageSize)
}

func (s *UserService) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	return s.userRepo.GetFollowing(userID, page, pageSize)
}

func (s *UserService) GetUsers(page, pageSize int) ([]*model.User, error) {
	return s.userRepo.FindAll(page, pageSize)
}

func (s *UserService) UpdateUserRole(userID int, newRole string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = newRole
	return s.userRepo.Update(user)
}

func (s *UserService) IsAdmin(userID int) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.Role == "admin", nil
}

// UserServiceInterface is what the user handlers and middleware depend on.
type UserServiceInterface interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	UpdateAvatar(userID int, avatarURL string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
	ToggleFollow(followerID, targetID int) (bool, error)
	GetUserProfile(viewerID, targetID int) (*model.UserProfile, error)
	GetFollowers(userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(userID, page, pageSize int) ([]*model.User, error)
	GetUsers(page, pageSize int) ([]*model.User, error)
	UpdateUserRole(userID int, newRole string) error
	IsAdmin(userID int) (bool, error)
}

var _ UserServiceInterface = (*UserService)(nil)
