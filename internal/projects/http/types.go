package http

import (
	"context"

	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
)

// Service is implemented by *service.ProjectService.
type Service interface {
	Feed(ctx context.Context, f domain.FeedFilter, page pagination.Params, viewerID int64) ([]domain.Project, pagination.Meta, error)
	Get(ctx context.Context, id, viewerID int64) (*domain.Project, error)
	Create(ctx context.Context, userID int64, in domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, actor *authdomain.User, id int64, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, actor *authdomain.User, id int64) error
	Like(ctx context.Context, userID, projectID int64) (bool, int, error)
	Unlike(ctx context.Context, userID, projectID int64) (bool, int, error)
	Bookmark(ctx context.Context, userID, projectID int64) (bool, int, error)
	Unbookmark(ctx context.Context, userID, projectID int64) (bool, int, error)
	RecordView(ctx context.Context, projectID int64, viewer string) (bool, int, error)
	Share(ctx context.Context, projectID int64, platform string) (*domain.ShareResult, error)
	SetFeatured(ctx context.Context, projectID int64, featured *bool) (bool, error)
	PopularTags(ctx context.Context, limit int) ([]domain.TagCount, error)
}

// UserLookup resolves /users/:username to an id.
type UserLookup interface {
	UserIDByUsername(ctx context.Context, username string) (int64, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc   Service
	users UserLookup
}

func New(svc Service, users UserLookup) *Handler {
	return &Handler{svc: svc, users: users}
}

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

type galleryReq struct {
	ImageURL string  `json:"image_url" binding:"required,url,max=2048"`
	Caption  *string `json:"caption" binding:"omitempty,max=200"`
}

type projectReq struct {
	Title          string       `json:"title" binding:"required,min=3,max=100"`
	Description    string       `json:"description" binding:"required,min=10,max=5000"`
	ProjectURL     string       `json:"project_url" binding:"required,url,max=2048"`
	RepoURL        *string      `json:"repo_url" binding:"omitempty,url,max=2048"`
	VibeCodingTool *string      `json:"vibe_coding_tool" binding:"omitempty,max=60"`
	ThumbnailURL   *string      `json:"thumbnail_url" binding:"omitempty,url,max=2048"`
	Tags           []string     `json:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
	Gallery        []galleryReq `json:"gallery" binding:"omitempty,max=10,dive"`
}

func (r projectReq) input() domain.ProjectInput {
	in := domain.ProjectInput{
		Title:          r.Title,
		Description:    r.Description,
		ProjectURL:     r.ProjectURL,
		RepoURL:        r.RepoURL,
		VibeCodingTool: r.VibeCodingTool,
		ThumbnailURL:   r.ThumbnailURL,
		Tags:           r.Tags,
	}
	for _, g := range r.Gallery {
		in.Gallery = append(in.Gallery, domain.GalleryImage{ImageURL: g.ImageURL, Caption: g.Caption})
	}
	return in
}

type shareReq struct {
	Platform string `json:"platform" binding:"required,oneof=twitter linkedin facebook reddit copy"`
}

type featuredReq struct {
	IsFeatured *bool `json:"is_featured"`
}
