package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codewithsuzan/Momento/config"
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/service"
	"github.com/codewithsuzan/Momento/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubUserService satisfies UserServiceInterface with just enough behavior
// for middleware tests.
type stubUserService struct {
	blacklisted map[string]bool
	role        string
}

func (s *stubUserService) Register(user *model.User) error            { return nil }
func (s *stubUserService) Login(email, password string) (*model.User, error) {
	return nil, nil
}
func (s *stubUserService) GetUserByID(id int) (*model.User, error) {
	return &model.User{ID: id, Role: s.role}, nil
}
func (s *stubUserService) UpdateUser(user *model.User) error                { return nil }
func (s *stubUserService) UpdateAvatar(userID int, avatarURL string) error  { return nil }
func (s *stubUserService) RequestPasswordReset(email string) error          { return nil }
func (s *stubUserService) ResetPassword(token, newPassword string) error    { return nil }
func (s *stubUserService) Logout(token string) error                        { return nil }
func (s *stubUserService) IsTokenBlacklisted(token string) bool             { return s.blacklisted[token] }
func (s *stubUserService) ToggleFollow(followerID, targetID int) (bool, error) {
	return false, nil
}
func (s *stubUserService) GetUserProfile(viewerID, targetID int) (*model.UserProfile, error) {
	return nil, nil
}
func (s *stubUserService) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserService) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserService) GetUsers(page, pageSize int) ([]*model.User, error) {
	return nil, nil
}
func (s *stubUserService) UpdateUserRole(userID int, newRole string) error { return nil }
func (s *stubUserService) IsAdmin(userID int) (bool, error)                { return s.role == "admin", nil }

var _ service.UserServiceInterface = (*stubUserService)(nil)

func newAuthRouter(svc service.UserServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})
	return r
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newAuthRouter(&stubUserService{blacklisted: map[string]bool{}})

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	router := newAuthRouter(&stubUserService{blacklisted: map[string]bool{}})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := newAuthRouter(&stubUserService{blacklisted: map[string]bool{}})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	router := newAuthRouter(&stubUserService{blacklisted: map[string]bool{}})

	token, err := util.GenerateToken(42)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuthMiddlewareRejectsBlacklistedToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := util.GenerateToken(42)
	assert.NoError(t, err)

	router := newAuthRouter(&stubUserService{blacklisted: map[string]bool{token: true}})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/feed", OptionalAuthMiddleware(&stubUserService{blacklisted: map[string]bool{}}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})

	req, _ := http.NewRequest("GET", "/feed", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubUserService{blacklisted: map[string]bool{}, role: "user"}
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("user_id", 1); c.Next() }, AdminMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubUserService{blacklisted: map[string]bool{}, role: "admin"}
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("user_id", 1); c.Next() }, AdminMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
