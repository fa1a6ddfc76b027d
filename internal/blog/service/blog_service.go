package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

type Repository interface {
	ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	GetPostByID(ctx context.Context, id int64) (*domain.Post, error)
	CreatePost(ctx context.Context, p *domain.Post) error
	UpdatePost(ctx context.Context, p *domain.Post) error
	DeletePost(ctx context.Context, id int64) error
	PostSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategorySlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error)

	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	EnsureTags(ctx context.Context, tags []domain.Tag) ([]domain.Tag, error)
	CreateTag(ctx context.Context, t *domain.Tag) error
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id int64) error
	TagSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error)
}

type BlogService struct {
	repo Repository
	md   goldmark.Markdown
	now  func() time.Time
}

func NewBlogService(repo Repository) *BlogService {
	return &BlogService{repo: repo, md: newMarkdown(), now: time.Now}
}

// PublishedPosts lists published posts, newest publication first.
func (s *BlogService) PublishedPosts(ctx context.Context, f domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error) {
	f.Status = domain.StatusPublished
	return s.listPosts(ctx, f, page)
}

// AllPosts lists posts in any status; f.Status narrows it when set.
func (s *BlogService) AllPosts(ctx context.Context, f domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, pagination.Meta{}, domain.ErrInvalidStatus
	}
	return s.listPosts(ctx, f, page)
}

func (s *BlogService) listPosts(ctx context.Context, f domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error) {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	f.Limit = page.Limit
	f.Offset = page.Offset()

	posts, total, err := s.repo.ListPosts(ctx, f)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, page.Meta(int(total)), nil
}

// PostBySlug hides drafts from everyone but admins.
func (s *BlogService) PostBySlug(ctx context.Context, slug string, isAdmin bool) (*domain.Post, error) {
	p, err := s.repo.GetPostBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}
	if !p.IsPublished() && !isAdmin {
		return nil, domain.ErrPostNotFound
	}
	return p, nil
}

func (s *BlogService) CreatePost(ctx context.Context, authorID int64, in domain.PostInput) (*domain.Post, error) {
	p := &domain.Post{Status: domain.StatusDraft}
	if authorID != 0 {
		p.AuthorID = &authorID
	}
	if err := s.applyPostInput(ctx, p, in); err != nil {
		return nil, err
	}

	sl, err := s.uniqueSlug(ctx, p.Title, 0, s.repo.PostSlugTaken)
	if err != nil {
		return nil, err
	}
	p.Slug = sl

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Int64("post_id", p.ID).Str("slug", p.Slug).Str("status", string(p.Status)).Msg("blog post created")
	return s.repo.GetPostByID(ctx, p.ID)
}

// UpdatePost keeps the slug stable so published links do not break.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, in domain.PostInput) (*domain.Post, error) {
	p, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPostInput(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetPostByID(ctx, id)
}

func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

func (s *BlogService) applyPostInput(ctx context.Context, p *domain.Post, in domain.PostInput) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.CoverImageURL != nil {
		p.CoverImageURL = emptyToNil(*in.CoverImageURL)
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			p.CategoryID = nil
		} else {
			if _, err := s.repo.GetCategory(ctx, *in.CategoryID); err != nil {
				return err
			}
			id := *in.CategoryID
			p.CategoryID = &id
		}
		p.Category = nil
	}
	if in.Tags != nil {
		tags, err := s.resolveTags(ctx, *in.Tags)
		if err != nil {
			return err
		}
		p.Tags = tags
	}

	if in.Content != nil {
		// an excerpt that was generated from the old body follows the new one
		if equalPtr(p.Excerpt, s.autoExcerpt(p.Content)) {
			p.Excerpt = nil
		}
		p.Content = *in.Content
		html, err := render(s.md, p.Content)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.ContentHTML = html
	}
	if in.Excerpt != nil {
		p.Excerpt = emptyToNil(*in.Excerpt)
	}
	if p.Excerpt == nil {
		p.Excerpt = s.autoExcerpt(p.Content)
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.ErrInvalidStatus
		}
		p.Status = *in.Status
	}
	// first publication stamps the date; unpublishing keeps it
	if p.Status == domain.StatusPublished && p.PublishedAt == nil {
		now := s.now().UTC()
		p.PublishedAt = &now
	}
	return nil
}

func (s *BlogService) autoExcerpt(content string) *string {
	ex := Excerpt(PlainText(s.md, content), domain.ExcerptLength)
	if ex == "" {
		return nil
	}
	return &ex
}

func (s *BlogService) resolveTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	seen := make(map[string]bool, len(names))
	var want []domain.Tag
	for _, n := range names {
		n = strings.TrimSpace(n)
		sl := slug.Make(n)
		if sl == "" || seen[sl] {
			continue
		}
		seen[sl] = true
		want = append(want, domain.Tag{Name: n, Slug: sl})
	}
	if len(want) == 0 {
		return nil, nil
	}
	return s.repo.EnsureTags(ctx, want)
}

func (s *BlogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *BlogService) CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error) {
	c := &domain.Category{Name: strings.TrimSpace(name)}
	if description != nil {
		c.Description = emptyToNil(*description)
	}
	sl, err := s.uniqueSlug(ctx, c.Name, 0, s.repo.CategorySlugTaken)
	if err != nil {
		return nil, err
	}
	c.Slug = sl
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory re-slugs the category when its name changes.
func (s *BlogService) UpdateCategory(ctx context.Context, id int64, name *string, description *string) (*domain.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) != c.Name {
		c.Name = strings.TrimSpace(*name)
		if c.Slug, err = s.uniqueSlug(ctx, c.Name, c.ID, s.repo.CategorySlugTaken); err != nil {
			return nil, err
		}
	}
	if description != nil {
		c.Description = emptyToNil(*description)
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *BlogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *BlogService) Tags(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *BlogService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	t := &domain.Tag{Name: strings.TrimSpace(name)}
	sl, err := s.uniqueSlug(ctx, t.Name, 0, s.repo.TagSlugTaken)
	if err != nil {
		return nil, err
	}
	t.Slug = sl
	if err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *BlogService) UpdateTag(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	t, err := s.repo.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name != t.Name {
		t.Name = name
		if t.Slug, err = s.uniqueSlug(ctx, name, t.ID, s.repo.TagSlugTaken); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *BlogService) DeleteTag(ctx context.Context, id int64) error {
	return s.repo.DeleteTag(ctx, id)
}

type slugCheck func(ctx context.Context, slug string, exceptID int64) (bool, error)

// uniqueSlug slugifies src and appends -2, -3, ... until taken reports free.
func (s *BlogService) uniqueSlug(ctx context.Context, src string, exceptID int64, taken slugCheck) (string, error) {
	base := slug.Make(src)
	if base == "" {
		return "", domain.ErrEmptySlug
	}
	candidate := base
	for i := 2; ; i++ {
		used, err := taken(ctx, candidate, exceptID)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func equalPtr(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
