package http

import (
	"context"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
)

// Service is the subset of the auth service the handlers use.
type Service interface {
	SyncUser(ctx context.Context, userID int64, req *domain.SyncUserRequest) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, req *domain.UpdateUserRequest) (*domain.User, error)
	PublicProfile(ctx context.Context, username string) (*domain.PublicProfile, error)
}

type Handler struct {
	authService Service
}

func New(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

type syncReq struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=60"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url,max=2048"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	WebsiteURL  *string `json:"website_url" binding:"omitempty,url,max=2048"`
}

type updateProfileReq struct {
	Username    *string `json:"username" binding:"omitempty,username"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=60"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=2048"`
	WebsiteURL  *string `json:"website_url" binding:"omitempty,max=2048"`
}
