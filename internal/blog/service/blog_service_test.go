package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	posts      map[int64]*domain.Post
	categories map[int64]*domain.Category
	tags       map[string]domain.Tag
	nextID     int64
	filter     domain.PostFilter
}

func newMemRepo() *memRepo {
	return &memRepo{
		posts:      map[int64]*domain.Post{},
		categories: map[int64]*domain.Category{},
		tags:       map[string]domain.Tag{},
	}
}

func (m *memRepo) id() int64 { m.nextID++; return m.nextID }

func (m *memRepo) ListPosts(_ context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	m.filter = f
	var out []domain.Post
	for _, p := range m.posts {
		if f.Status == "" || p.Status == f.Status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) GetPostBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (m *memRepo) GetPostByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) CreatePost(_ context.Context, p *domain.Post) error {
	p.ID = m.id()
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memRepo) UpdatePost(_ context.Context, p *domain.Post) error {
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memRepo) DeletePost(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memRepo) PostSlugTaken(_ context.Context, slug string, exceptID int64) (bool, error) {
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListCategories(context.Context) ([]domain.Category, error) { return nil, nil }

func (m *memRepo) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) CreateCategory(_ context.Context, c *domain.Category) error {
	c.ID = m.id()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memRepo) UpdateCategory(_ context.Context, c *domain.Category) error {
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *memRepo) DeleteCategory(_ context.Context, id int64) error {
	delete(m.categories, id)
	return nil
}

func (m *memRepo) CategorySlugTaken(_ context.Context, slug string, exceptID int64) (bool, error) {
	for _, c := range m.categories {
		if c.Slug == slug && c.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListTags(context.Context) ([]domain.Tag, error) { return nil, nil }

func (m *memRepo) GetTag(_ context.Context, id int64) (*domain.Tag, error) {
	for _, t := range m.tags {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (m *memRepo) EnsureTags(_ context.Context, tags []domain.Tag) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, t := range tags {
		row, ok := m.tags[t.Slug]
		if !ok {
			row = domain.Tag{ID: m.id(), Name: t.Name, Slug: t.Slug}
			m.tags[t.Slug] = row
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memRepo) CreateTag(_ context.Context, t *domain.Tag) error {
	t.ID = m.id()
	m.tags[t.Slug] = *t
	return nil
}

func (m *memRepo) UpdateTag(_ context.Context, t *domain.Tag) error {
	for k, v := range m.tags {
		if v.ID == t.ID {
			delete(m.tags, k)
		}
	}
	m.tags[t.Slug] = *t
	return nil
}

func (m *memRepo) DeleteTag(context.Context, int64) error { return nil }

func (m *memRepo) TagSlugTaken(_ context.Context, slug string, exceptID int64) (bool, error) {
	t, ok := m.tags[slug]
	return ok && t.ID != exceptID, nil
}

func ptr[T any](v T) *T { return &v }

func newService() (*BlogService, *memRepo) {
	repo := newMemRepo()
	svc := NewBlogService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreatePost_DraftWithRenderedContent(t *testing.T) {
	svc, _ := newService()

	p, err := svc.CreatePost(context.Background(), 1, domain.PostInput{
		Title:   ptr("Hello, World!"),
		Content: ptr("Some **bold** words."),
		Tags:    &[]string{"Go", "go", " Vibe Coding "},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, domain.StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Contains(t, p.ContentHTML, "<strong>bold</strong>")
	require.NotNil(t, p.Excerpt)
	assert.Equal(t, "Some bold words.", *p.Excerpt)
	require.Len(t, p.Tags, 2)
	assert.Equal(t, "go", p.Tags[0].Slug)
	assert.Equal(t, "vibe-coding", p.Tags[1].Slug)
	assert.Equal(t, int64(1), *p.AuthorID)
}

func TestCreatePost_SlugCollisionsGetSuffixes(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	var slugs []string
	for i := 0; i < 3; i++ {
		p, err := svc.CreatePost(ctx, 1, domain.PostInput{Title: ptr("Launch Day"), Content: ptr("x")})
		require.NoError(t, err)
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"launch-day", "launch-day-2", "launch-day-3"}, slugs)
}

func TestCreatePost_EmptySlug(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreatePost(context.Background(), 1, domain.PostInput{Title: ptr("!!!"), Content: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrEmptySlug)
}

func TestCreatePost_UnknownCategory(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreatePost(context.Background(), 1, domain.PostInput{
		Title: ptr("Post"), Content: ptr("x"), CategoryID: ptr(int64(42)),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestPublishing_SetsPublishedAtOnce(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, 1, domain.PostInput{Title: ptr("Release notes"), Content: ptr("v1")})
	require.NoError(t, err)

	published := domain.StatusPublished
	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	first := *p.PublishedAt

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	draft := domain.StatusDraft
	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Status: &draft})
	require.NoError(t, err)
	assert.Equal(t, first, *p.PublishedAt, "unpublishing keeps the date")

	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, first, *p.PublishedAt, "republishing keeps the first date")
	assert.Equal(t, "release-notes", p.Slug)
}

func TestUpdatePost_ExcerptFollowsContentUnlessCustom(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, 1, domain.PostInput{Title: ptr("Post"), Content: ptr("first body")})
	require.NoError(t, err)

	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Content: ptr("second body")})
	require.NoError(t, err)
	assert.Equal(t, "second body", *p.Excerpt)

	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Excerpt: ptr("hand written")})
	require.NoError(t, err)
	p, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Content: ptr("third body")})
	require.NoError(t, err)
	assert.Equal(t, "hand written", *p.Excerpt)
}

func TestAutoExcerpt_Is200Runes(t *testing.T) {
	svc, _ := newService()
	body := strings.Repeat("word ", 100)

	p, err := svc.CreatePost(context.Background(), 1, domain.PostInput{Title: ptr("Long"), Content: &body})
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(*p.Excerpt)), domain.ExcerptLength)
	assert.True(t, strings.HasPrefix(*p.Excerpt, "word word"))
}

func TestUpdatePost_InvalidStatus(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p, err := svc.CreatePost(ctx, 1, domain.PostInput{Title: ptr("Post"), Content: ptr("x")})
	require.NoError(t, err)

	bad := domain.Status("archived")
	_, err = svc.UpdatePost(ctx, p.ID, domain.PostInput{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestPostBySlug_DraftsHiddenFromPublic(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.CreatePost(ctx, 1, domain.PostInput{Title: ptr("Secret plans"), Content: ptr("x")})
	require.NoError(t, err)

	_, err = svc.PostBySlug(ctx, "secret-plans", false)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	p, err := svc.PostBySlug(ctx, "Secret-Plans", true)
	require.NoError(t, err)
	assert.Equal(t, "Secret plans", p.Title)
}

func TestPublishedPosts_ForcesStatus(t *testing.T) {
	svc, repo := newService()
	published := domain.StatusPublished
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		in := domain.PostInput{Title: ptr(fmt.Sprintf("Post %d", i)), Content: ptr("x")}
		if i > 0 {
			in.Status = &published
		}
		_, err := svc.CreatePost(ctx, 1, in)
		require.NoError(t, err)
	}

	posts, meta, err := svc.PublishedPosts(ctx, domain.PostFilter{Tag: " AI ", Status: domain.StatusDraft}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 2, meta.Total)
	assert.Equal(t, domain.StatusPublished, repo.filter.Status)
	assert.Equal(t, "ai", repo.filter.Tag)

	_, _, err = svc.AllPosts(ctx, domain.PostFilter{Status: "bogus"}, pagination.Params{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCategories(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.CreateCategory(ctx, "Product News", ptr("  "))
	require.NoError(t, err)
	assert.Equal(t, "product-news", a.Slug)
	assert.Nil(t, a.Description)

	b, err := svc.CreateCategory(ctx, "Product news!", nil)
	require.NoError(t, err)
	assert.Equal(t, "product-news-2", b.Slug)

	b, err = svc.UpdateCategory(ctx, b.ID, ptr("Guides"), ptr("How-tos"))
	require.NoError(t, err)
	assert.Equal(t, "guides", b.Slug)
	assert.Equal(t, "How-tos", *b.Description)

	a, err = svc.UpdateCategory(ctx, a.ID, ptr("Product News"), nil)
	require.NoError(t, err)
	assert.Equal(t, "product-news", a.Slug, "unchanged name keeps its slug")
}

func TestTags(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Machine Learning")
	require.NoError(t, err)
	assert.Equal(t, "machine-learning", tag.Slug)

	tag, err = svc.UpdateTag(ctx, tag.ID, "ML")
	require.NoError(t, err)
	assert.Equal(t, "ml", tag.Slug)

	_, err = svc.UpdateTag(ctx, 999, "x")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
