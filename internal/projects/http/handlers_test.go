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
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

type fakeService struct {
	lastFilter   domain.FeedFilter
	lastPage     pagination.Params
	lastViewer   string
	lastInput    domain.ProjectInput
	lastFeatured *bool
	updateErr    error
}

func (f *fakeService) Feed(_ context.Context, fl domain.FeedFilter, page pagination.Params, _ int64) ([]domain.Project, pagination.Meta, error) {
	f.lastFilter = fl
	f.lastPage = page
	return []domain.Project{{ID: 1, Title: "Vibe Board", Tags: []string{}}}, page.Meta(1), nil
}

func (f *fakeService) Get(_ context.Context, id, _ int64) (*domain.Project, error) {
	if id != 1 {
		return nil, domain.ErrProjectNotFound
	}
	return &domain.Project{ID: 1, Title: "Vibe Board"}, nil
}

func (f *fakeService) Create(_ context.Context, userID int64, in domain.ProjectInput) (*domain.Project, error) {
	f.lastInput = in
	return &domain.Project{ID: 2, UserID: userID, Title: in.Title}, nil
}

func (f *fakeService) Update(_ context.Context, _ *authdomain.User, id int64, in domain.ProjectInput) (*domain.Project, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &domain.Project{ID: id, Title: in.Title}, nil
}

func (f *fakeService) Delete(context.Context, *authdomain.User, int64) error { return nil }

func (f *fakeService) Like(context.Context, int64, int64) (bool, int, error)   { return true, 3, nil }
func (f *fakeService) Unlike(context.Context, int64, int64) (bool, int, error) { return false, 2, nil }
func (f *fakeService) Bookmark(context.Context, int64, int64) (bool, int, error) {
	return true, 1, nil
}
func (f *fakeService) Unbookmark(context.Context, int64, int64) (bool, int, error) {
	return false, 0, nil
}

func (f *fakeService) RecordView(_ context.Context, _ int64, viewer string) (bool, int, error) {
	f.lastViewer = viewer
	return true, 11, nil
}

func (f *fakeService) Share(_ context.Context, id int64, platform string) (*domain.ShareResult, error) {
	return &domain.ShareResult{Platform: platform, ShareURL: "https://x.dev/projects/1", ShareCount: 4}, nil
}

func (f *fakeService) SetFeatured(_ context.Context, _ int64, featured *bool) (bool, error) {
	f.lastFeatured = featured
	return true, nil
}

func (f *fakeService) PopularTags(context.Context, int) ([]domain.TagCount, error) {
	return []domain.TagCount{{Name: "ai", ProjectsCount: 2}}, nil
}

type fakeUsers struct{}

func (fakeUsers) UserIDByUsername(_ context.Context, username string) (int64, error) {
	if username == "maker" {
		return 7, nil
	}
	return 0, authdomain.ErrUserNotFound
}

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
	h := New(svc, fakeUsers{})
	h.RegisterPublic(api)
	h.Register(api)
	h.RegisterAdmin(api.Group("/admin"))
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "203.0.113.9:5555"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestListProjects(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, nil)

	rr := send(r, "GET", "/api/projects?tag=ai&search=board&sort=popular&featured=true&page=2&limit=100", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pagination":{"total":1,"page":2,"limit":50`)

	assert.Equal(t, "ai", svc.lastFilter.Tag)
	assert.Equal(t, "board", svc.lastFilter.Search)
	assert.Equal(t, domain.SortPopular, svc.lastFilter.Sort)
	require.NotNil(t, svc.lastFilter.Featured)
	assert.True(t, *svc.lastFilter.Featured)
	assert.Equal(t, pagination.Params{Page: 2, Limit: 50}, svc.lastPage)

	rr = send(r, "GET", "/api/projects", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 12, svc.lastPage.Limit)
	assert.Equal(t, domain.SortNewest, svc.lastFilter.Sort)

	assert.Equal(t, http.StatusBadRequest, send(r, "GET", "/api/projects?sort=random", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "GET", "/api/projects?user_id=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "GET", "/api/projects?featured=maybe", "").Code)
}

func TestUserAndMeFeeds(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 4})

	require.Equal(t, http.StatusOK, send(r, "GET", "/api/users/maker/projects", "").Code)
	assert.Equal(t, int64(7), svc.lastFilter.UserID)
	assert.Equal(t, http.StatusNotFound, send(r, "GET", "/api/users/ghost/projects", "").Code)

	require.Equal(t, http.StatusOK, send(r, "GET", "/api/me/bookmarks", "").Code)
	assert.Equal(t, int64(4), svc.lastFilter.BookmarkedBy)

	require.Equal(t, http.StatusOK, send(r, "GET", "/api/me/likes", "").Code)
	assert.Equal(t, int64(4), svc.lastFilter.LikedBy)
}

func TestGetProject(t *testing.T) {
	r := setup(t, &fakeService{}, nil)

	assert.Equal(t, http.StatusOK, send(r, "GET", "/api/projects/1", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, "GET", "/api/projects/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, send(r, "GET", "/api/projects/abc", "").Code)
}

func TestCreateProject(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 4})

	body := `{"title":"Vibe Board","description":"A board for collecting vibes","project_url":"https://vibe.board",
		"tags":["ai"],"gallery":[{"image_url":"https://img.dev/1.png","caption":"home"}]}`
	rr := send(r, "POST", "/api/projects", body)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"user_id":4`)
	require.Len(t, svc.lastInput.Gallery, 1)
	assert.Equal(t, "https://img.dev/1.png", svc.lastInput.Gallery[0].ImageURL)

	rr = send(r, "POST", "/api/projects", `{"title":"ab","description":"short","project_url":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"must be at least 3 characters"`)
	assert.Contains(t, rr.Body.String(), `"project_url":"must be a valid URL"`)
}

func TestUpdateProject_Forbidden(t *testing.T) {
	r := setup(t, &fakeService{updateErr: domain.ErrForbidden}, &authdomain.User{ID: 4})

	body := `{"title":"Vibe Board","description":"A board for collecting vibes","project_url":"https://vibe.board"}`
	assert.Equal(t, http.StatusForbidden, send(r, "PUT", "/api/projects/1", body).Code)
}

func TestLikeBookmarkRoutes(t *testing.T) {
	r := setup(t, &fakeService{}, &authdomain.User{ID: 4})

	rr := send(r, "POST", "/api/projects/1/like", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"liked":true,"likes_count":3}`, rr.Body.String())

	rr = send(r, "DELETE", "/api/projects/1/like", "")
	assert.JSONEq(t, `{"liked":false,"likes_count":2}`, rr.Body.String())

	rr = send(r, "POST", "/api/projects/1/bookmark", "")
	assert.JSONEq(t, `{"bookmarked":true,"bookmarks_count":1}`, rr.Body.String())

	assert.Equal(t, http.StatusNoContent, send(r, "DELETE", "/api/projects/1", "").Code)
}

func TestRecordView_Viewer(t *testing.T) {
	svc := &fakeService{}

	rr := send(setup(t, svc, nil), "POST", "/api/projects/1/view", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ip:203.0.113.9", svc.lastViewer)

	send(setup(t, svc, &authdomain.User{ID: 4}), "POST", "/api/projects/1/view", "")
	assert.Equal(t, "user:4", svc.lastViewer)
}

func TestShare(t *testing.T) {
	r := setup(t, &fakeService{}, nil)

	rr := send(r, "POST", "/api/projects/1/share", `{"platform":"reddit"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"share_count":4`)

	rr = send(r, "POST", "/api/projects/1/share", `{"platform":"myspace"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSetFeaturedAndTags(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 1, Role: authdomain.RoleAdmin})

	require.Equal(t, http.StatusOK, send(r, "PUT", "/api/admin/projects/1/featured", "").Code)
	assert.Nil(t, svc.lastFeatured)

	require.Equal(t, http.StatusOK, send(r, "PUT", "/api/admin/projects/1/featured", `{"is_featured":false}`).Code)
	require.NotNil(t, svc.lastFeatured)
	assert.False(t, *svc.lastFeatured)

	rr := send(r, "GET", "/api/tags?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"tags":[{"name":"ai","projects_count":2}]}`, rr.Body.String())
}
