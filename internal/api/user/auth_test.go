package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codewithsuzan/Momento/internal/errors"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserService) Login(email, password string) (*model.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserService) UpdateAvatar(userID int, avatarURL string) error {
	args := m.Called(userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserService) RequestPasswordReset(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(token, newPassword string) error {
	args := m.Called(token, newPassword)
	return args.Error(0)
}

func (m *MockUserService) Logout(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockUserService) IsTokenBlacklisted(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockUserService) ToggleFollow(followerID, targetID int) (bool, error) {
	args := m.Called(followerID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetUserProfile(viewerID, targetID int) (*model.UserProfile, error) {
	args := m.Called(viewerID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockUserService) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) GetUsers(page, pageSize int) ([]*model.User, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUserRole(userID int, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}

func (m *MockUserService) IsAdmin(userID int) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

var _ service.UserServiceInterface = (*MockUserService)(nil)

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	mockService.On("Register", mock.AnythingOfType("*model.User")).Return(nil).Once()

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "StrongP@ssw0rd"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)

	// duplicate username
	mockService.On("Register", mock.AnythingOfType("*model.User")).
		Return(errors.New(errors.ErrUserExists, "username already exists")).Once()

	req, _ = http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestRegisterWeakPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/register", handler.Register)

	body := []byte(`{"username": "testuser", "email": "test@example.com", "password": "weak"}`)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Register", mock.Anything)
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/login", handler.Login)

	mockUser := &model.User{ID: 1, Email: "test@example.com"}
	mockService.On("Login", "test@example.com", "password123").Return(mockUser, nil).Once()

	body := []byte(`{"email": "test@example.com", "password": "password123"}`)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)

	// wrong password
	mockService.On("Login", "test@example.com", "wrong").
		Return(nil, errors.New(errors.ErrInvalidCredentials, "invalid email or password")).Once()

	body = []byte(`{"email": "test@example.com", "password": "wrong"}`)
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertExpectations(t)
}

func TestLogoutRequiresBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/logout", handler.Logout)

	req, _ := http.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Logout", mock.Anything)
}

func TestLogoutBlacklistsPresentedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockUserService)
	handler := NewAuthHandler(mockService)

	router := gin.New()
	router.POST("/logout", handler.Logout)

	mockService.On("Logout", "sometoken").Return(nil)

	req, _ := http.NewRequest("POST", "/logout", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
