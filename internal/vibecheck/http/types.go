package http

import (
	"context"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

// Service is implemented by *service.VibeCheckService.
type Service interface {
	Check(ctx context.Context, userID int64, in domain.Input) (*domain.VibeCheck, error)
	Get(ctx context.Context, id string) (*domain.VibeCheck, error)
	ListForUser(ctx context.Context, userID int64, page pagination.Params) ([]domain.VibeCheck, pagination.Meta, error)
}

// Renderer turns a check into a PDF document.
type Renderer func(vc *domain.VibeCheck) ([]byte, error)

type Handler struct {
	svc    Service
	render Renderer
}

func New(svc Service, render Renderer) *Handler {
	return &Handler{svc: svc, render: render}
}

type checkReq struct {
	WebsiteURL      string `json:"website_url" binding:"max=2048"`
	IdeaDescription string `json:"idea_description" binding:"max=5000"`
}
