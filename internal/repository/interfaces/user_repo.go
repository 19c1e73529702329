package interfaces

import "github.com/codewithsuzan/Momento/internal/model"

// UserRepository defines the database operations around users and follows.
// Find methods return (nil, nil) when no row matches.
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	Count() (int, error)
	FindAll(page, pageSize int) ([]*model.User, error)

	CreateFollow(follow *model.Follow) error
	DeleteFollow(followerID, followedID int) error
	IsFollowing(followerID, followedID int) (bool, error)
	GetFollowerCount(userID int) (int, error)
	GetFollowingCount(userID int) (int, error)
	GetFollowers(userID, page, pageSize int) ([]*model.User, error)
	GetFollowing(userID, page, pageSize int) ([]*model.User, error)
}
