package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/comments/domain"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (*domain.Comment, error) {
	var c domain.Comment
	var displayName, avatarURL sql.NullString
	err := row.Scan(&c.ID, &c.ProjectID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.Username, &displayName, &avatarURL)
	if err != nil {
		return nil, err
	}
	c.Author.ID = c.UserID
	c.Author.DisplayName = nullString(displayName)
	c.Author.AvatarURL = nullString(avatarURL)
	c.Replies = []domain.Reply{}
	return &c, nil
}

func scanReply(row scanner) (*domain.Reply, error) {
	var r domain.Reply
	var displayName, avatarURL sql.NullString
	err := row.Scan(&r.ID, &r.CommentID, &r.UserID, &r.Content, &r.CreatedAt, &r.UpdatedAt,
		&r.Author.Username, &displayName, &avatarURL)
	if err != nil {
		return nil, err
	}
	r.Author.ID = r.UserID
	r.Author.DisplayName = nullString(displayName)
	r.Author.AvatarURL = nullString(avatarURL)
	return &r, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ProjectOwner returns the owner of a project, or ErrProjectNotFound.
func (r *CommentRepository) ProjectOwner(ctx context.Context, projectID int64) (int64, error) {
	var owner int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM projects WHERE id = $1`, projectID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProjectNotFound
	}
	return owner, err
}

// ListByProject returns a page of top-level comments oldest first, each with
// all of its replies, and the total number of top-level comments.
func (r *CommentRepository) ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]domain.Comment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE project_id = $1`, projectID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.project_id, c.user_id, c.content, c.created_at, c.updated_at,
       u.username, u.display_name, u.avatar_url
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.project_id = $1
ORDER BY c.created_at ASC, c.id ASC
LIMIT $2 OFFSET $3`, projectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0, limit)
	index := make(map[int64]int)
	ids := make([]int64, 0, limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		index[c.ID] = len(comments)
		ids = append(ids, c.ID)
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return comments, total, nil
	}

	// one query for every reply on the page
	replies, err := r.repliesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, rp := range replies {
		if i, ok := index[rp.CommentID]; ok {
			comments[i].Replies = append(comments[i].Replies, rp)
		}
	}
	return comments, total, nil
}

func (r *CommentRepository) repliesFor(ctx context.Context, commentIDs []int64) ([]domain.Reply, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.comment_id, r.user_id, r.content, r.created_at, r.updated_at,
       u.username, u.display_name, u.avatar_url
FROM comment_replies r
JOIN users u ON u.id = r.user_id
WHERE r.comment_id = ANY($1)
ORDER BY r.comment_id, r.created_at ASC, r.id ASC`, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var out []domain.Reply
	for rows.Next() {
		rp, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rp)
	}
	return out, rows.Err()
}

// CreateComment inserts a comment and returns it with its author.
func (r *CommentRepository) CreateComment(ctx context.Context, projectID, userID int64, content string) (*domain.Comment, error) {
	const q = `
WITH ins AS (
    INSERT INTO comments (project_id, user_id, content)
    VALUES ($1, $2, $3)
    RETURNING id, project_id, user_id, content, created_at, updated_at
)
SELECT ins.id, ins.project_id, ins.user_id, ins.content, ins.created_at, ins.updated_at,
       u.username, u.display_name, u.avatar_url
FROM ins JOIN users u ON u.id = ins.user_id`

	c, err := scanComment(r.db.QueryRowContext(ctx, q, projectID, userID, content))
	if isForeignKeyViolation(err) {
		return nil, domain.ErrProjectNotFound
	}
	return c, err
}

func (r *CommentRepository) CreateReply(ctx context.Context, commentID, userID int64, content string) (*domain.Reply, error) {
	const q = `
WITH ins AS (
    INSERT INTO comment_replies (comment_id, user_id, content)
    VALUES ($1, $2, $3)
    RETURNING id, comment_id, user_id, content, created_at, updated_at
)
SELECT ins.id, ins.comment_id, ins.user_id, ins.content, ins.created_at, ins.updated_at,
       u.username, u.display_name, u.avatar_url
FROM ins JOIN users u ON u.id = ins.user_id`

	rp, err := scanReply(r.db.QueryRowContext(ctx, q, commentID, userID, content))
	if isForeignKeyViolation(err) {
		return nil, domain.ErrCommentNotFound
	}
	return rp, err
}

// CommentThread loads the people involved with a comment.
func (r *CommentRepository) CommentThread(ctx context.Context, commentID int64) (*domain.Thread, error) {
	var t domain.Thread
	err := r.db.QueryRowContext(ctx, `
SELECT c.id, c.user_id, p.id, p.user_id
FROM comments c
JOIN projects p ON p.id = c.project_id
WHERE c.id = $1`, commentID).Scan(&t.CommentID, &t.CommentAuthorID, &t.ProjectID, &t.ProjectOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ReplyThread loads the people involved with a reply.
func (r *CommentRepository) ReplyThread(ctx context.Context, replyID int64) (*domain.Thread, error) {
	var t domain.Thread
	err := r.db.QueryRowContext(ctx, `
SELECT r.id, r.user_id, c.id, c.user_id, p.id, p.user_id
FROM comment_replies r
JOIN comments c ON c.id = r.comment_id
JOIN projects p ON p.id = c.project_id
WHERE r.id = $1`, replyID).Scan(&t.ReplyID, &t.ReplyAuthorID, &t.CommentID, &t.CommentAuthorID, &t.ProjectID, &t.ProjectOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReplyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CommentRepository) UpdateComment(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	const q = `
WITH upd AS (
    UPDATE comments SET content = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING id, project_id, user_id, content, created_at, updated_at
)
SELECT upd.id, upd.project_id, upd.user_id, upd.content, upd.created_at, upd.updated_at,
       u.username, u.display_name, u.avatar_url
FROM upd JOIN users u ON u.id = upd.user_id`

	c, err := scanComment(r.db.QueryRowContext(ctx, q, id, content))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	return c, err
}

func (r *CommentRepository) UpdateReply(ctx context.Context, id int64, content string) (*domain.Reply, error) {
	const q = `
WITH upd AS (
    UPDATE comment_replies SET content = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING id, comment_id, user_id, content, created_at, updated_at
)
SELECT upd.id, upd.comment_id, upd.user_id, upd.content, upd.created_at, upd.updated_at,
       u.username, u.display_name, u.avatar_url
FROM upd JOIN users u ON u.id = upd.user_id`

	rp, err := scanReply(r.db.QueryRowContext(ctx, q, id, content))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReplyNotFound
	}
	return rp, err
}

// DeleteComment removes a comment; its replies cascade.
func (r *CommentRepository) DeleteComment(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, `DELETE FROM comments WHERE id = $1`, id, domain.ErrCommentNotFound)
}

func (r *CommentRepository) DeleteReply(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, `DELETE FROM comment_replies WHERE id = $1`, id, domain.ErrReplyNotFound)
}

func (r *CommentRepository) deleteOne(ctx context.Context, q string, id int64, notFound error) error {
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
