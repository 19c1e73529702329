package service

import (
	"testing"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) CreateFollow(follow *model.Follow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteFollow(followerID, followedID int) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockUserRepository) IsFollowing(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetFollowerCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetFollowingCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func newUserServiceForTest() (*UserService, *MockUserRepository, *MockNotificationRepository) {
	userRepo := new(MockUserRepository)
	notificationRepo := new(MockNotificationRepository)
	return NewUserService(userRepo, notificationRepo, nil), userRepo, notificationRepo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	userRepo.On("FindByUsername", "alice").Return(nil, nil)
	userRepo.On("FindByEmail", "alice@example.com").Return(nil, nil)
	userRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "StrongP@ss1",
	}
	err := svc.Register(user)

	assert.NoError(t, err)
	assert.NotEqual(t, "StrongP@ss1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("StrongP@ss1")))
	assert.Equal(t, "user", user.Role)
	userRepo.AssertExpectations(t)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	userRepo.On("FindByUsername", "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	err := svc.Register(&model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})

	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrUserExists, appErr.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userRepo.On("FindByEmail", "alice@example.com").Return(&model.User{ID: 1, PasswordHash: string(hashed)}, nil)

	_, err := svc.Login("alice@example.com", "wrong")

	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	userRepo.On("FindByEmail", "ghost@example.com").Return(nil, nil)

	_, err := svc.Login("ghost@example.com", "whatever")

	assert.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, errors.ErrInvalidCredentials, appErr.Code)
}

func TestToggleFollowNotifies(t *testing.T) {
	svc, userRepo, notificationRepo := newUserServiceForTest()

	userRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	userRepo.On("IsFollowing", 1, 2).Return(false, nil)
	userRepo.On("CreateFollow", mock.AnythingOfType("*model.Follow")).Return(nil)
	notificationRepo.On("Create", mock.MatchedBy(func(n *model.Notification) bool {
		return n.ReceiverID == 2 && n.SenderID == 1 && n.Type == model.NotificationTypeFollow
	})).Return(nil)

	following, err := svc.ToggleFollow(1, 2)

	assert.NoError(t, err)
	assert.True(t, following)
	notificationRepo.AssertExpectations(t)
}

func TestToggleFollowUnfollows(t *testing.T) {
	svc, userRepo, notificationRepo := newUserServiceForTest()

	userRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	userRepo.On("IsFollowing", 1, 2).Return(true, nil)
	userRepo.On("DeleteFollow", 1, 2).Return(nil)

	following, err := svc.ToggleFollow(1, 2)

	assert.NoError(t, err)
	assert.False(t, following)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestToggleFollowSelfRejected(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	_, err := svc.ToggleFollow(1, 1)

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "CreateFollow", mock.Anything)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, _, _ := newUserServiceForTest()

	assert.False(t, svc.IsTokenBlacklisted("some-token"))
	assert.NoError(t, svc.Logout("some-token"))
	assert.True(t, svc.IsTokenBlacklisted("some-token"))
	assert.False(t, svc.IsTokenBlacklisted("other-token"))
}

func TestGetUserProfile(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	userRepo.On("FindByID", 2).Return(&model.User{ID: 2, Username: "bob", PostCount: 3}, nil)
	userRepo.On("GetFollowerCount", 2).Return(10, nil)
	userRepo.On("GetFollowingCount", 2).Return(4, nil)
	userRepo.On("IsFollowing", 1, 2).Return(true, nil)

	profile, err := svc.GetUserProfile(1, 2)

	assert.NoError(t, err)
	assert.Equal(t, 10, profile.FollowerCount)
	assert.Equal(t, 4, profile.FollowingCount)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, 3, profile.User.PostCount)
}

func TestUpdateUserRejectsTakenUsername(t *testing.T) {
	svc, userRepo, _ := newUserServiceForTest()

	userRepo.On("FindByID", 1).Return(&model.User{ID: 1, Username: "alice"}, nil)
	userRepo.On("FindByUsername", "bob").Return(&model.User{ID: 2, Username: "bob"}, nil)

	err := svc.UpdateUser(&model.User{ID: 1, Username: "bob"})

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "Update", mock.Anything)
}
