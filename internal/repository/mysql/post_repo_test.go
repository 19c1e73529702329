package mysql

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/codewithsuzan/Momento/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newMockRepo(t *testing.T) (*postRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostRepository(db), mock
}

func TestCreatePostIncrementsOwnerPostCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO posts").
		WithArgs(5, "posts/abc.jpg", "first light").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET post_count = post_count + 1 WHERE id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	post := &model.Post{UserID: 5, FileKey: "posts/abc.jpg", Caption: "first light"}
	err := repo.CreatePost(post)

	assert.NoError(t, err)
	assert.Equal(t, 42, post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePostRollsBackWhenCountUpdateFails(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO posts").
		WithArgs(5, "posts/abc.jpg", "").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET post_count = post_count + 1 WHERE id = ?")).
		WithArgs(5).
		WillReturnError(fmt.Errorf("connection lost"))
	mock.ExpectRollback()

	err := repo.CreatePost(&model.Post{UserID: 5, FileKey: "posts/abc.jpg"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostCascadesAndDecrementsOwnerPostCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM posts WHERE id = ?")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(5))
	for _, table := range []string{
		"DELETE FROM likes WHERE post_id",
		"DELETE FROM comments WHERE post_id",
		"DELETE FROM bookmarks WHERE post_id",
		"DELETE FROM notifications WHERE post_id",
		"DELETE FROM posts WHERE id",
	} {
		mock.ExpectExec(table).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET post_count = GREATEST(post_count - 1, 0) WHERE id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.DeletePost(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostRollsBackWhenCascadeFails(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM posts WHERE id = ?")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(5))
	mock.ExpectExec("DELETE FROM likes WHERE post_id").
		WithArgs(7).
		WillReturnError(fmt.Errorf("lock wait timeout"))
	mock.ExpectRollback()

	assert.Error(t, repo.DeletePost(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentIncrementsCommentCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comments").
		WithArgs(3, 7, "nice shot").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET comments_count = comments_count + 1 WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment := &model.Comment{UserID: 3, PostID: 7, Content: "nice shot"}
	err := repo.CreateComment(comment)

	assert.NoError(t, err)
	assert.Equal(t, 11, comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLikeFloorsCounterAtZero(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM likes WHERE user_id = ? AND post_id = ?")).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = ?")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.DeleteLike(3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFeedPostsEmptyPageReturnsEmptySlice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT p.id, p.user_id").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "file_key", "caption", "likes_count", "comments_count",
			"created_at", "updated_at", "username", "avatar_url", "bio",
		}))

	posts, total, err := repo.ListFeedPosts(1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, posts)
	assert.Len(t, posts, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFeedPostsScansJoinedAuthor(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT p.id, p.user_id").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "file_key", "caption", "likes_count", "comments_count",
			"created_at", "updated_at", "username", "avatar_url", "bio",
		}).AddRow(7, 5, "posts/abc.jpg", "first light", 3, 1, now, now, "suzan", "avatars/x.png", "hi"))

	posts, total, err := repo.ListFeedPosts(1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, posts, 1)
	assert.Equal(t, 7, posts[0].ID)
	if assert.NotNil(t, posts[0].User) {
		assert.Equal(t, 5, posts[0].User.ID)
		assert.Equal(t, "suzan", posts[0].User.Username)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
