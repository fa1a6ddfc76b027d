package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

var knownID = uuid.MustParse("0b7c6a52-1f7e-4a39-9b0e-6f1a2c3d4e5f")

type fakeService struct {
	userID   int64
	input    domain.Input
	checkErr error
}

func (f *fakeService) Check(_ context.Context, userID int64, in domain.Input) (*domain.VibeCheck, error) {
	f.userID, f.input = userID, in
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	return &domain.VibeCheck{ID: knownID, Model: "m", Evaluation: domain.Evaluation{Summary: "ok"}}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*domain.VibeCheck, error) {
	if id != knownID.String() {
		return nil, domain.ErrNotFound
	}
	return &domain.VibeCheck{ID: knownID}, nil
}

func (f *fakeService) ListForUser(_ context.Context, userID int64, page pagination.Params) ([]domain.VibeCheck, pagination.Meta, error) {
	f.userID = userID
	return []domain.VibeCheck{}, page.Meta(0), nil
}

func fakePDF(*domain.VibeCheck) ([]byte, error) { return []byte("%PDF-1.3 fake"), nil }

func setup(t *testing.T, svc *fakeService, user *authdomain.User, limit gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		if user != nil {
			auth.SetUser(c, user)
		}
	})
	h := New(svc, fakePDF)
	h.RegisterPublic(api, limit)
	h.Register(api)
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

func TestCreate(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, nil, nil)

	rr := send(r, "POST", "/api/vibe-check", `{"website_url":"https://vibe.dev","idea_description":"A thing"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), knownID.String())
	assert.Equal(t, int64(0), svc.userID)
	assert.Equal(t, "https://vibe.dev", svc.input.WebsiteURL)

	r = setup(t, svc, &authdomain.User{ID: 3}, nil)
	send(r, "POST", "/api/vibe-check", `{"idea_description":"x"}`)
	assert.Equal(t, int64(3), svc.userID)
}

func TestCreate_ErrorMapping(t *testing.T) {
	for err, code := range map[error]int{
		domain.ErrInvalidInput:         http.StatusBadRequest,
		domain.ErrEvaluatorUnavailable: http.StatusServiceUnavailable,
		domain.ErrEvaluationFailed:     http.StatusBadGateway,
		errors.New("db down"):          http.StatusInternalServerError,
	} {
		r := setup(t, &fakeService{checkErr: err}, nil, nil)
		assert.Equal(t, code, send(r, "POST", "/api/vibe-check", `{"idea_description":"x"}`).Code, err.Error())
	}
}

func TestCreate_RateLimited(t *testing.T) {
	limit := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "slow down"})
	}
	svc := &fakeService{}
	r := setup(t, svc, nil, limit)

	assert.Equal(t, http.StatusTooManyRequests, send(r, "POST", "/api/vibe-check", `{"idea_description":"x"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, "GET", "/api/vibe-check/"+knownID.String(), "").Code, "reads are not limited")
}

func TestGetAndPDF(t *testing.T) {
	r := setup(t, &fakeService{}, nil, nil)

	assert.Equal(t, http.StatusOK, send(r, "GET", "/api/vibe-check/"+knownID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, "GET", "/api/vibe-check/nope", "").Code)

	rr := send(r, "GET", "/api/vibe-check/"+knownID.String()+"/pdf", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="vibe-check-0b7c6a52.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF-"))

	assert.Equal(t, http.StatusNotFound, send(r, "GET", "/api/vibe-check/nope/pdf", "").Code)
}

func TestListMine(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc, &authdomain.User{ID: 8}, nil)

	rr := send(r, "GET", "/api/me/vibe-checks", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(8), svc.userID)
	assert.Contains(t, rr.Body.String(), `"vibe_checks":[]`)
}
