package service

import (
	"context"
	"strings"
	"unicode/utf8"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/comments/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	notifdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/notifications/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

type Repository interface {
	ProjectOwner(ctx context.Context, projectID int64) (int64, error)
	ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]domain.Comment, int, error)
	CreateComment(ctx context.Context, projectID, userID int64, content string) (*domain.Comment, error)
	CreateReply(ctx context.Context, commentID, userID int64, content string) (*domain.Reply, error)
	CommentThread(ctx context.Context, commentID int64) (*domain.Thread, error)
	ReplyThread(ctx context.Context, replyID int64) (*domain.Thread, error)
	UpdateComment(ctx context.Context, id int64, content string) (*domain.Comment, error)
	UpdateReply(ctx context.Context, id int64, content string) (*domain.Reply, error)
	DeleteComment(ctx context.Context, id int64) error
	DeleteReply(ctx context.Context, id int64) error
}

type Notifier interface {
	Notify(ctx context.Context, in notifdomain.CreateInput) error
}

type CommentService struct {
	repo     Repository
	notifier Notifier
}

func NewCommentService(repo Repository, notifier Notifier) *CommentService {
	return &CommentService{repo: repo, notifier: notifier}
}

func (s *CommentService) List(ctx context.Context, projectID int64, page pagination.Params) ([]domain.Comment, pagination.Meta, error) {
	if _, err := s.repo.ProjectOwner(ctx, projectID); err != nil {
		return nil, pagination.Meta{}, err
	}
	items, total, err := s.repo.ListByProject(ctx, projectID, page.Limit, page.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.Meta(total), nil
}

// Create posts a comment and tells the project owner about it.
func (s *CommentService) Create(ctx context.Context, actorID, projectID int64, content string) (*domain.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	owner, err := s.repo.ProjectOwner(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.CreateComment(ctx, projectID, actorID, content)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifdomain.CreateInput{
		UserID: owner, ActorID: actorID, Type: notifdomain.TypeComment,
		ProjectID: &c.ProjectID, CommentID: &c.ID,
	})
	return c, nil
}

// Reply answers a comment. The comment author is notified, and so is the
// project owner when that is someone else.
func (s *CommentService) Reply(ctx context.Context, actorID, commentID int64, content string) (*domain.Reply, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.CommentThread(ctx, commentID)
	if err != nil {
		return nil, err
	}
	rp, err := s.repo.CreateReply(ctx, commentID, actorID, content)
	if err != nil {
		return nil, err
	}

	base := notifdomain.CreateInput{
		ActorID: actorID, Type: notifdomain.TypeReply,
		ProjectID: &t.ProjectID, CommentID: &t.CommentID, ReplyID: &rp.ID,
	}
	toAuthor := base
	toAuthor.UserID = t.CommentAuthorID
	s.notify(ctx, toAuthor)

	if t.ProjectOwnerID != t.CommentAuthorID {
		toOwner := base
		toOwner.UserID = t.ProjectOwnerID
		s.notify(ctx, toOwner)
	}
	return rp, nil
}

// UpdateComment is allowed for the author only.
func (s *CommentService) UpdateComment(ctx context.Context, actor *authdomain.User, id int64, content string) (*domain.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.CommentThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != t.CommentAuthorID {
		return nil, domain.ErrForbidden
	}
	return s.repo.UpdateComment(ctx, id, content)
}

func (s *CommentService) UpdateReply(ctx context.Context, actor *authdomain.User, id int64, content string) (*domain.Reply, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.ReplyThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != t.ReplyAuthorID {
		return nil, domain.ErrForbidden
	}
	return s.repo.UpdateReply(ctx, id, content)
}

// DeleteComment is allowed for the author, the project owner and admins.
func (s *CommentService) DeleteComment(ctx context.Context, actor *authdomain.User, id int64) error {
	t, err := s.repo.CommentThread(ctx, id)
	if err != nil {
		return err
	}
	if !canModerate(actor, t.CommentAuthorID, t.ProjectOwnerID) {
		return domain.ErrForbidden
	}
	return s.repo.DeleteComment(ctx, id)
}

func (s *CommentService) DeleteReply(ctx context.Context, actor *authdomain.User, id int64) error {
	t, err := s.repo.ReplyThread(ctx, id)
	if err != nil {
		return err
	}
	if !canModerate(actor, t.ReplyAuthorID, t.ProjectOwnerID) {
		return domain.ErrForbidden
	}
	return s.repo.DeleteReply(ctx, id)
}

func canModerate(actor *authdomain.User, authorID, projectOwnerID int64) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || actor.ID == projectOwnerID || actor.IsAdmin()
}

func cleanContent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(s) > domain.MaxContentLength {
		return "", domain.ErrContentTooLong
	}
	return s, nil
}

// notify never sends to the actor and never fails the request.
func (s *CommentService) notify(ctx context.Context, in notifdomain.CreateInput) {
	if s.notifier == nil || in.UserID == in.ActorID {
		return
	}
	if err := s.notifier.Notify(ctx, in); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("type", string(in.Type)).Int64("user_id", in.UserID).Msg("notify")
	}
}
