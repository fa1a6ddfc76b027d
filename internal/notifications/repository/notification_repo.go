package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
)

// enrichedSelect resolves actor, project and comment/reply text with left
// joins so rows survive the deletion of anything they point at.
const enrichedSelect = `
SELECT n.id, n.user_id, n.type, n.actor_id, n.project_id, n.comment_id, n.reply_id,
       n.message, n.is_read, n.created_at,
       a.username, a.display_name, a.avatar_url,
       p.title,
       COALESCE(r.content, c.content)
FROM notifications n
LEFT JOIN users a ON a.id = n.actor_id
LEFT JOIN projects p ON p.id = n.project_id
LEFT JOIN comments c ON c.id = n.comment_id
LEFT JOIN comment_replies r ON r.id = n.reply_id`

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (*domain.Notification, error) {
	var n domain.Notification
	var actorID, projectID, commentID, replyID sql.NullInt64
	var message, actorName, actorDisplay, actorAvatar, projectTitle, content sql.NullString

	err := row.Scan(&n.ID, &n.UserID, &n.Type, &actorID, &projectID, &commentID, &replyID,
		&message, &n.IsRead, &n.CreatedAt,
		&actorName, &actorDisplay, &actorAvatar,
		&projectTitle, &content)
	if err != nil {
		return nil, err
	}

	n.ActorID = nullInt(actorID)
	n.ProjectID = nullInt(projectID)
	n.CommentID = nullInt(commentID)
	n.ReplyID = nullInt(replyID)
	n.Message = nullString(message)
	n.ProjectTitle = nullString(projectTitle)
	if actorID.Valid && actorName.Valid {
		n.Actor = &authdomain.UserSummary{
			ID:          actorID.Int64,
			Username:    actorName.String,
			DisplayName: nullString(actorDisplay),
			AvatarURL:   nullString(actorAvatar),
		}
	}
	if content.Valid {
		e := Excerpt(content.String, domain.ExcerptLength)
		n.Excerpt = &e
	}
	return &n, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Excerpt shortens s to at most max runes, ending in "..." when cut.
func Excerpt(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// nullable turns a zero id into SQL NULL.
func nullable(id *int64) any {
	if id == nil || *id == 0 {
		return nil
	}
	return *id
}

// Create stores a notification and returns it enriched.
func (r *NotificationRepository) Create(ctx context.Context, in domain.CreateInput) (*domain.Notification, error) {
	var actor, message any
	if in.ActorID != 0 {
		actor = in.ActorID
	}
	if in.Message != "" {
		message = in.Message
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO notifications (user_id, actor_id, type, project_id, comment_id, reply_id, message)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		in.UserID, actor, string(in.Type), nullable(in.ProjectID), nullable(in.CommentID), nullable(in.ReplyID), message,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return r.Get(ctx, id, in.UserID)
}

// Get returns one notification if it belongs to userID.
func (r *NotificationRepository) Get(ctx context.Context, id, userID int64) (*domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, enrichedSelect+` WHERE n.id = $1 AND n.user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return n, err
}

// List returns the newest notifications for userID and the total matching.
func (r *NotificationRepository) List(ctx context.Context, userID int64, f domain.ListFilter) ([]domain.Notification, int, error) {
	where := ` WHERE n.user_id = $1`
	if f.UnreadOnly {
		where += ` AND n.is_read = FALSE`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications n`+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, enrichedSelect+where+` ORDER BY n.created_at DESC, n.id DESC LIMIT $2 OFFSET $3`,
		userID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, f.Limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *n)
	}
	return out, total, rows.Err()
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&n)
	return n, err
}

// MarkRead fails with ErrNotFound when the notification is not the caller's.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DeleteReadBefore removes read notifications created before cutoff.
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE is_read = TRUE AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
