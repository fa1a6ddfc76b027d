package http

import (
	"context"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

// Service is implemented by *service.BlogService.
type Service interface {
	PublishedPosts(ctx context.Context, f domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error)
	AllPosts(ctx context.Context, f domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error)
	PostBySlug(ctx context.Context, slug string, isAdmin bool) (*domain.Post, error)
	CreatePost(ctx context.Context, authorID int64, in domain.PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, id int64, in domain.PostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error

	Categories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, description *string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Tags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id int64, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type createPostReq struct {
	Title         string   `json:"title" binding:"required,min=3,max=200"`
	Content       string   `json:"content" binding:"required,min=1,max=100000"`
	Excerpt       *string  `json:"excerpt" binding:"omitempty,max=500"`
	CoverImageURL *string  `json:"cover_image_url" binding:"omitempty,url,max=2048"`
	CategoryID    *int64   `json:"category_id" binding:"omitempty,min=1"`
	Tags          []string `json:"tags" binding:"omitempty,max=10,dive,min=1,max=40"`
	Status        *string  `json:"status" binding:"omitempty,oneof=draft published"`
}

func (r createPostReq) input() domain.PostInput {
	in := domain.PostInput{
		Title:         &r.Title,
		Content:       &r.Content,
		Excerpt:       r.Excerpt,
		CoverImageURL: r.CoverImageURL,
		CategoryID:    r.CategoryID,
		Tags:          &r.Tags,
	}
	if r.Status != nil {
		st := domain.Status(*r.Status)
		in.Status = &st
	}
	return in
}

// updatePostReq leaves absent fields untouched. category_id 0 clears the category.
type updatePostReq struct {
	Title         *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Content       *string   `json:"content" binding:"omitempty,min=1,max=100000"`
	Excerpt       *string   `json:"excerpt" binding:"omitempty,max=500"`
	CoverImageURL *string   `json:"cover_image_url" binding:"omitempty,max=2048"`
	CategoryID    *int64    `json:"category_id" binding:"omitempty,min=0"`
	Tags          *[]string `json:"tags" binding:"omitempty,max=10,dive,min=1,max=40"`
	Status        *string   `json:"status" binding:"omitempty,oneof=draft published"`
}

func (r updatePostReq) input() domain.PostInput {
	in := domain.PostInput{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		CoverImageURL: r.CoverImageURL,
		CategoryID:    r.CategoryID,
		Tags:          r.Tags,
	}
	if r.Status != nil {
		st := domain.Status(*r.Status)
		in.Status = &st
	}
	return in
}

type categoryReq struct {
	Name        string  `json:"name" binding:"required,min=2,max=60"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type updateCategoryReq struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=60"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type tagReq struct {
	Name string `json:"name" binding:"required,min=1,max=40"`
}
