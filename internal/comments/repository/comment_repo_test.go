package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/comments/domain"
)

var (
	commentCols = []string{"id", "project_id", "user_id", "content", "created_at", "updated_at", "username", "display_name", "avatar_url"}
	replyCols   = []string{"id", "comment_id", "user_id", "content", "created_at", "updated_at", "username", "display_name", "avatar_url"}
)

func setupRepo(t *testing.T) (*CommentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCommentRepository(db), mock
}

func TestListByProject_AttachesReplies(t *testing.T) {
	repo, mock := setupRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE project_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM comments c`).WithArgs(int64(1), 20, 0).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(100, 1, 20, "first", now, now, "ada", "Ada", nil).
			AddRow(101, 1, 21, "second", now, now, "grace", nil, nil))
	mock.ExpectQuery(`FROM comment_replies r`).WithArgs(pq.Array([]int64{100, 101})).
		WillReturnRows(sqlmock.NewRows(replyCols).
			AddRow(500, 100, 30, "reply a", now, now, "linus", nil, nil).
			AddRow(501, 100, 20, "reply b", now, now, "ada", "Ada", nil))

	comments, total, err := repo.ListByProject(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, comments, 2)

	require.Len(t, comments[0].Replies, 2)
	assert.Equal(t, "reply a", comments[0].Replies[0].Content)
	assert.Equal(t, int64(30), comments[0].Replies[0].Author.ID)
	assert.Equal(t, []domain.Reply{}, comments[1].Replies)
	require.NotNil(t, comments[0].Author.DisplayName)
	assert.Equal(t, "Ada", *comments[0].Author.DisplayName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByProject_EmptySkipsReplies(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`SELECT COUNT`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM comments c`).WillReturnRows(sqlmock.NewRows(commentCols))

	comments, total, err := repo.ListByProject(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, comments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ProjectGone(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery(`INSERT INTO comments`).WithArgs(int64(9), int64(20), "hi").
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.CreateComment(context.Background(), 9, 20, "hi")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyThread(t *testing.T) {
	repo, mock := setupRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM comment_replies r`).WithArgs(int64(500)).
		WillReturnRows(sqlmock.NewRows([]string{"r_id", "r_user", "c_id", "c_user", "p_id", "p_user"}).
			AddRow(500, 30, 100, 20, 1, 10))
	th, err := repo.ReplyThread(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.Thread{ProjectID: 1, ProjectOwnerID: 10, CommentID: 100, CommentAuthorID: 20, ReplyID: 500, ReplyAuthorID: 30}, *th)

	mock.ExpectQuery(`FROM comments c`).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)
	_, err = repo.CommentThread(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReply_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(`DELETE FROM comment_replies`).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteReply(context.Background(), 5), domain.ErrReplyNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
