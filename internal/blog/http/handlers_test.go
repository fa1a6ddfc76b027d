package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

type fakeService struct {
	filter    domain.PostFilter
	page      pagination.Params
	isAdmin   bool
	authorID  int64
	input     domain.PostInput
	updatedID int64
}

func (f *fakeService) PublishedPosts(_ context.Context, fl domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error) {
	f.filter, f.page = fl, page
	return []domain.Post{{ID: 1, Slug: "hello", Status: domain.StatusPublished}}, page.Meta(1), nil
}

func (f *fakeService) AllPosts(_ context.Context, fl domain.PostFilter, page pagination.Params) ([]domain.Post, pagination.Meta, error) {
	f.filter, f.page = fl, page
	return []domain.Post{}, page.Meta(0), nil
}

func (f *fakeService) PostBySlug(_ context.Context, slug string, isAdmin bool) (*domain.Post, error) {
	f.isAdmin = isAdmin
	if slug != "hello" {
		return nil, domain.ErrPostNotFound
	}
	return &domain.Post{ID: 1, Slug: slug, ContentHTML: "<p>hi</p>"}, nil
}

func (f *fakeService) CreatePost(_ context.Context, authorID int64, in domain.PostInput) (*domain.Post, error) {
	f.authorID, f.input = authorID, in
	return &domain.Post{ID: 5, Title: *in.Title, Slug: "new-post"}, nil
}

func (f *fakeService) UpdatePost(_ context.Context, id int64, in domain.PostInput) (*domain.Post, error) {
	f.updatedID, f.input = id, in
	if in.Status != nil && !in.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return &domain.Post{ID: id}, nil
}

func (f *fakeService) DeletePost(_ context.Context, id int64) error {
	if id != 1 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (f *fakeService) Categories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "News", Slug: "news", PostCount: 3}}, nil
}

func (f *fakeService) CreateCategory(_ context.Context, name string, description *string) (*domain.Category, error) {
	return &domain.Category{ID: 2, Name: name, Slug: "guides", Description: description}, nil
}

func (f *fakeService) UpdateCategory(_ context.Context, id int64, name, _ *string) (*domain.Category, error) {
	if id != 2 {
		return nil, domain.ErrCategoryNotFound
	}
	return &domain.Category{ID: id, Name: *name}, nil
}

func (f *fakeService) DeleteCategory(context.Context, int64) error { return nil }

func (f *fakeService) Tags(context.Context) ([]domain.Tag, error) { return nil, nil }

func (f *fakeService) CreateTag(_ context.Context, name string) (*domain.Tag, error) {
	if strings.Trim(name, "!") == "" {
		return nil, domain.ErrEmptySlug
	}
	return &domain.Tag{ID: 3, Name: name, Slug: "go"}, nil
}

func (f *fakeService) UpdateTag(_ context.Context, id int64, name string) (*domain.Tag, error) {
	return &domain.Tag{ID: id, Name: name}, nil
}

func (f *fakeService) DeleteTag(context.Context, int64) error { return nil }

func setup(t *testing.T, svc *fakeService, user *authdomain.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		if user != nil {
			auth.SetUser(c, user)
		}
	})
	h := New(svc)
	h.RegisterPublic(api.Group("/blog"))
	h.RegisterAdmin(api.Group("/admin/blog"))
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestListPosts(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, nil)

	rr := send(r, "GET", "/api/blog/posts?category=news&tag=go&search=launch&page=2&limit=500", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.PostFilter{Category: "news", Tag: "go", Search: "launch"}, svc.filter)
	assert.Equal(t, pagination.Params{Page: 2, Limit: 50}, svc.page)
	assert.Contains(t, rr.Body.String(), `"slug":"hello"`)

	send(r, "GET", "/api/blog/posts", "")
	assert.Equal(t, 10, svc.page.Limit)
}

func TestGetPost(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, nil)

	rr := send(r, "GET", "/api/blog/posts/hello", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content_html":"<p>hi</p>"`)
	assert.False(t, svc.isAdmin)

	assert.Equal(t, http.StatusNotFound, send(r, "GET", "/api/blog/posts/draft", "").Code)

	r = setup(t, svc, &authdomain.User{ID: 1, Role: authdomain.RoleAdmin})
	send(r, "GET", "/api/blog/posts/hello", "")
	assert.True(t, svc.isAdmin)
}

func TestCreatePost(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 9, Role: authdomain.RoleAdmin})

	rr := send(r, "POST", "/api/admin/blog/posts", `{"title":"New post","content":"# Hi","tags":["go"],"status":"published"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, int64(9), svc.authorID)
	require.NotNil(t, svc.input.Status)
	assert.Equal(t, domain.StatusPublished, *svc.input.Status)
	assert.Equal(t, []string{"go"}, *svc.input.Tags)

	rr = send(r, "POST", "/api/admin/blog/posts", `{"title":"x","content":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title"`)

	rr = send(r, "POST", "/api/admin/blog/posts", `{"title":"Valid title","content":"x","status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateAndDeletePost(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 9, Role: authdomain.RoleAdmin})

	rr := send(r, "PUT", "/api/admin/blog/posts/4", `{"status":"draft","category_id":0}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, int64(4), svc.updatedID)
	assert.Nil(t, svc.input.Title)
	require.NotNil(t, svc.input.CategoryID)
	assert.Equal(t, int64(0), *svc.input.CategoryID)

	assert.Equal(t, http.StatusBadRequest, send(r, "PUT", "/api/admin/blog/posts/abc", `{}`).Code)
	assert.Equal(t, http.StatusNoContent, send(r, "DELETE", "/api/admin/blog/posts/1", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, "DELETE", "/api/admin/blog/posts/2", "").Code)
}

func TestCategoriesAndTags(t *testing.T) {
	r := setup(t, &fakeService{}, &authdomain.User{ID: 9, Role: authdomain.RoleAdmin})

	rr := send(r, "GET", "/api/blog/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"post_count":3`)

	rr = send(r, "GET", "/api/blog/tags", "")
	assert.JSONEq(t, `{"tags":[]}`, rr.Body.String())

	assert.Equal(t, http.StatusCreated, send(r, "POST", "/api/admin/blog/categories", `{"name":"Guides"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "POST", "/api/admin/blog/categories", `{}`).Code)
	assert.Equal(t, http.StatusOK, send(r, "PUT", "/api/admin/blog/categories/2", `{"name":"Howtos"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, "PUT", "/api/admin/blog/categories/3", `{"name":"Howtos"}`).Code)
	assert.Equal(t, http.StatusNoContent, send(r, "DELETE", "/api/admin/blog/categories/2", "").Code)

	assert.Equal(t, http.StatusCreated, send(r, "POST", "/api/admin/blog/tags", `{"name":"Go"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "POST", "/api/admin/blog/tags", `{"name":"!!!"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, "PUT", "/api/admin/blog/tags/3", `{"name":"Golang"}`).Code)
	assert.Equal(t, http.StatusNoContent, send(r, "DELETE", "/api/admin/blog/tags/3", "").Code)
}
