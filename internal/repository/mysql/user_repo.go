package mysql

import (
	"database/sql"
	"time"

	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/util"

	"go.uber.org/zap"
)

// userRepository implements interfaces.UserRepository.
type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, email, password_hash, avatar_url, bio, role, post_count, created_at, updated_at`

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, avatar_url, bio, role)
              VALUES (?, ?, ?, ?, ?, 'user')`
	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.AvatarURL, user.Bio)
	if err != nil {
		util.Logger.Error("failed to create user", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	user.Role = "user"
	util.Logger.Info("user created", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRow(query, username))
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL,
		&user.Bio, &user.Role, &user.PostCount, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, email = ?, avatar_url = ?, bio = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.Email, user.AvatarURL, user.Bio, user.Role, time.Now(), user.ID)
	if err != nil {
		util.Logger.Error("failed to update user", zap.Error(err), zap.Int("user_id", user.ID))
	}
	return err
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *userRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL,
			&user.Bio, &user.Role, &user.PostCount, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *userRepository) CreateFollow(follow *model.Follow) error {
	query := `INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, follow.FollowerID, follow.FollowedID)
	if err != nil {
		util.Logger.Error("failed to create follow", zap.Error(err),
			zap.Int("follower_id", follow.FollowerID),
			zap.Int("followed_id", follow.FollowedID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	follow.ID = int(id)
	return nil
}

func (r *userRepository) DeleteFollow(followerID, followedID int) error {
	query := `DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`
	_, err := r.db.Exec(query, followerID, followedID)
	if err != nil {
		util.Logger.Error("failed to delete follow", zap.Error(err),
			zap.Int("follower_id", followerID),
			zap.Int("followed_id", followedID))
	}
	return err
}

func (r *userRepository) IsFollowing(followerID, followedID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM follows
            WHERE follower_id = ? AND followed_id = ?
        )
    `, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *userRepository) GetFollowerCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM follows WHERE followed_id = ?", userID).Scan(&count)
	return count, err
}

func (r *userRepository) GetFollowingCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM follows WHERE follower_id = ?", userID).Scan(&count)
	return count, err
}

func (r *userRepository) GetFollowers(userID, page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.username, u.avatar_url, u.bio
        FROM users u
        JOIN follows f ON u.id = f.follower_id
        WHERE f.followed_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`
	return r.queryUserSummaries(query, userID, pageSize, offset)
}

func (r *userRepository) GetFollowing(userID, page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	query := `
        SELECT u.id, u.username, u.avatar_url, u.bio
        FROM users u
        JOIN follows f ON u.id = f.followed_id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC
        LIMIT ? OFFSET ?`
	return r.queryUserSummaries(query, userID, pageSize, offset)
}

func (r *userRepository) queryUserSummaries(query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.AvatarURL, &user.Bio); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
