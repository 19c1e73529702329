package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/util"

	"go.uber.org/zap"
)

// postRepository implements interfaces.PostRepository. Counter columns on the
// posts row (likes_count, comments_count) and the owner's post_count are
// always mutated in the same transaction as the record they mirror.
type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO posts (user_id, file_key, caption, created_at, updated_at)
              VALUES (?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, post.UserID, post.FileKey, post.Caption)
	if err != nil {
		util.Logger.Error("failed to create post", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)

	_, err = tx.Exec(`UPDATE users SET post_count = post_count + 1 WHERE id = ?`, post.UserID)
	if err != nil {
		util.Logger.Error("failed to increment post count", zap.Error(err), zap.Int("user_id", post.UserID))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("post created", zap.Int("post_id", post.ID), zap.Int("user_id", post.UserID))
	return nil
}

func (r *postRepository) GetPostByID(id int) (*model.Post, error) {
	query := `
        SELECT p.id, p.user_id, p.file_key, p.caption, p.likes_count, p.comments_count,
               p.created_at, p.updated_at,
               u.username, u.avatar_url, u.bio
        FROM posts p
        LEFT JOIN users u ON p.user_id = u.id
        WHERE p.id = ?`

	var post model.Post
	var user model.User
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.UserID, &post.FileKey, &post.Caption,
		&post.LikesCount, &post.CommentsCount,
		&post.CreatedAt, &post.UpdatedAt,
		&user.Username, &user.AvatarURL, &user.Bio,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.ID = post.UserID
	post.User = &user
	return &post, nil
}

// DeletePost removes the post and everything hanging off it: likes, comments,
// bookmarks, notifications that reference the post, and finally the row
// itself. The owner's post count is decremented with a floor of zero.
func (r *postRepository) DeletePost(id int) error {
	util.Logger.Info("deleting post", zap.Int("post_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID int
	err = tx.QueryRow(`SELECT user_id FROM posts WHERE id = ?`, id).Scan(&ownerID)
	if err != nil {
		return err
	}

	for _, query := range []string{
		`DELETE FROM likes WHERE post_id = ?`,
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM bookmarks WHERE post_id = ?`,
		`DELETE FROM notifications WHERE post_id = ?`,
		`DELETE FROM posts WHERE id = ?`,
	} {
		if _, err := tx.Exec(query, id); err != nil {
			util.Logger.Error("cascade delete failed", zap.Error(err), zap.Int("post_id", id))
			return err
		}
	}

	_, err = tx.Exec(`UPDATE users SET post_count = GREATEST(post_count - 1, 0) WHERE id = ?`, ownerID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("post deleted", zap.Int("post_id", id), zap.Int("user_id", ownerID))
	return nil
}

func (r *postRepository) ListFeedPosts(page, pageSize int) ([]*model.Post, int, error) {
	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT p.id, p.user_id, p.file_key, p.caption, p.likes_count, p.comments_count,
               p.created_at, p.updated_at,
               u.username, u.avatar_url, u.bio
        FROM posts p
        LEFT JOIN users u ON p.user_id = u.id
        ORDER BY p.created_at DESC
        LIMIT ? OFFSET ?`

	posts, err := r.queryPosts(query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListUserPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM posts WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT p.id, p.user_id, p.file_key, p.caption, p.likes_count, p.comments_count,
               p.created_at, p.updated_at,
               u.username, u.avatar_url, u.bio
        FROM posts p
        LEFT JOIN users u ON p.user_id = u.id
        WHERE p.user_id = ?
        ORDER BY p.created_at DESC
        LIMIT ? OFFSET ?`

	posts, err := r.queryPosts(query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) queryPosts(query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var post model.Post
		var user model.User
		err := rows.Scan(
			&post.ID, &post.UserID, &post.FileKey, &post.Caption,
			&post.LikesCount, &post.CommentsCount,
			&post.CreatedAt, &post.UpdatedAt,
			&user.Username, &user.AvatarURL, &user.Bio,
		)
		if err != nil {
			return nil, err
		}
		user.ID = post.UserID
		post.User = &user
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postRepository) CountPosts() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func (r *postRepository) HasLike(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM likes
            WHERE post_id = ? AND user_id = ?
        )
    `, postID, userID).Scan(&exists)
	return exists, err
}

func (r *postRepository) CreateLike(like *model.Like) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)", like.PostID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("post not found")
	}

	query := `INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	if _, err = tx.Exec(query, like.UserID, like.PostID); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("already liked")
		}
		return err
	}

	_, err = tx.Exec(`UPDATE posts SET likes_count = likes_count + 1 WHERE id = ?`, like.PostID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postRepository) DeleteLike(userID, postID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("like not found")
	}

	_, err = tx.Exec(`UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = ?`, postID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postRepository) GetLikeCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT likes_count FROM posts WHERE id = ?`, postID).Scan(&count)
	return count, err
}

func (r *postRepository) CountLikes() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM likes").Scan(&count)
	return count, err
}

func (r *postRepository) HasBookmark(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM bookmarks
            WHERE post_id = ? AND user_id = ?
        )
    `, postID, userID).Scan(&exists)
	return exists, err
}

func (r *postRepository) CreateBookmark(bookmark *model.Bookmark) error {
	query := `INSERT INTO bookmarks (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	result, err := r.db.Exec(query, bookmark.UserID, bookmark.PostID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("already bookmarked")
		}
		util.Logger.Error("failed to create bookmark", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	bookmark.ID = int(id)
	return nil
}

func (r *postRepository) DeleteBookmark(userID, postID int) error {
	result, err := r.db.Exec(`DELETE FROM bookmarks WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("bookmark not found")
	}
	return nil
}

func (r *postRepository) ListBookmarkedPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `
        SELECT p.id, p.user_id, p.file_key, p.caption, p.likes_count, p.comments_count,
               p.created_at, p.updated_at,
               u.username, u.avatar_url, u.bio
        FROM posts p
        JOIN bookmarks b ON p.id = b.post_id
        LEFT JOIN users u ON p.user_id = u.id
        WHERE b.user_id = ?
        ORDER BY b.created_at DESC
        LIMIT ? OFFSET ?`

	posts, err := r.queryPosts(query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) CreateComment(comment *model.Comment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO comments (user_id, post_id, content, created_at, updated_at)
              VALUES (?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, comment.UserID, comment.PostID, comment.Content)
	if err != nil {
		util.Logger.Error("failed to create comment", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)

	_, err = tx.Exec(`UPDATE posts SET comments_count = comments_count + 1 WHERE id = ?`, comment.PostID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postRepository) GetCommentByID(id int) (*model.Comment, error) {
	query := `
        SELECT id, user_id, post_id, content, created_at, updated_at
        FROM comments
        WHERE id = ?`

	var comment model.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.UserID, &comment.PostID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) ListComments(postID, page, pageSize int) ([]*model.Comment, error) {
	offset := (page - 1) * pageSize
	query := `
        SELECT c.id, c.user_id, c.post_id, c.content, c.created_at, c.updated_at,
               u.username, u.avatar_url, u.bio
        FROM comments c
        LEFT JOIN users u ON c.user_id = u.id
        WHERE c.post_id = ?
        ORDER BY c.created_at DESC
        LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, postID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	for rows.Next() {
		var comment model.Comment
		var user model.User
		err := rows.Scan(
			&comment.ID, &comment.UserID, &comment.PostID, &comment.Content,
			&comment.CreatedAt, &comment.UpdatedAt,
			&user.Username, &user.AvatarURL, &user.Bio,
		)
		if err != nil {
			return nil, err
		}
		user.ID = comment.UserID
		comment.User = &user
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func (r *postRepository) DeleteComment(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var postID int
	err = tx.QueryRow(`SELECT post_id FROM comments WHERE id = ?`, id).Scan(&postID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE id = ?`, id); err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE posts SET comments_count = GREATEST(comments_count - 1, 0) WHERE id = ?`, postID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postRepository) GetCommentCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT comments_count FROM posts WHERE id = ?`, postID).Scan(&count)
	return count, err
}

func (r *postRepository) CountComments() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

func (r *postRepository) GetUserByID(id int) (*model.User, error) {
	query := `
        SELECT id, username, avatar_url, bio, post_count
        FROM users
        WHERE id = ?`

	var user model.User
	err := r.db.QueryRow(query, id).Scan(
		&user.ID, &user.Username, &user.AvatarURL, &user.Bio, &user.PostCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
