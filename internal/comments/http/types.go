package http

import (
	"context"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/comments/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

type Service interface {
	List(ctx context.Context, projectID int64, page pagination.Params) ([]domain.Comment, pagination.Meta, error)
	Create(ctx context.Context, actorID, projectID int64, content string) (*domain.Comment, error)
	Reply(ctx context.Context, actorID, commentID int64, content string) (*domain.Reply, error)
	UpdateComment(ctx context.Context, actor *authdomain.User, id int64, content string) (*domain.Comment, error)
	UpdateReply(ctx context.Context, actor *authdomain.User, id int64, content string) (*domain.Reply, error)
	DeleteComment(ctx context.Context, actor *authdomain.User, id int64) error
	DeleteReply(ctx context.Context, actor *authdomain.User, id int64) error
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

type contentReq struct {
	Content string `json:"content" binding:"required,max=2000"`
}
