package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	authdomain "github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/projects/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTag), errors.Is(err, domain.ErrInvalidSort), errors.Is(err, domain.ErrInvalidPlatform):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("projects request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

// feedFilter reads the shared feed query parameters.
func feedFilter(c *gin.Context) (domain.FeedFilter, bool) {
	f := domain.FeedFilter{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Sort:   domain.Sort(c.DefaultQuery("sort", string(domain.SortNewest))),
	}
	if !f.Sort.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort", "allowed": []domain.Sort{
			domain.SortNewest, domain.SortOldest, domain.SortPopular,
			domain.SortMostCommented, domain.SortMostViewed, domain.SortTrending,
		}})
		return f, false
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return f, false
		}
		f.UserID = id
	}
	if v := c.Query("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid featured"})
			return f, false
		}
		f.Featured = &b
	}
	return f, true
}

func (h *Handler) respondFeed(c *gin.Context, f domain.FeedFilter) {
	page := pagination.FromQuery(c, defaultPageSize, maxPageSize)
	items, meta, err := h.svc.Feed(c.Request.Context(), f, page, auth.UserID(c))
	if err != nil {
		writeError(c, err, "list projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items, "pagination": meta})
}

// ListProjects serves the public feed.
func (h *Handler) ListProjects(c *gin.Context) {
	f, ok := feedFilter(c)
	if !ok {
		return
	}
	h.respondFeed(c, f)
}

func (h *Handler) ListUserProjects(c *gin.Context) {
	f, ok := feedFilter(c)
	if !ok {
		return
	}
	userID, err := h.users.UserIDByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		writeError(c, err, "load user")
		return
	}
	f.UserID = userID
	h.respondFeed(c, f)
}

func (h *Handler) MyBookmarks(c *gin.Context) {
	f, ok := feedFilter(c)
	if !ok {
		return
	}
	f.BookmarkedBy = auth.UserID(c)
	h.respondFeed(c, f)
}

func (h *Handler) MyLikes(c *gin.Context) {
	f, ok := feedFilter(c)
	if !ok {
		return
	}
	f.LikedBy = auth.UserID(c)
	h.respondFeed(c, f)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id, auth.UserID(c))
	if err != nil {
		writeError(c, err, "load project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), auth.UserID(c), req.input())
	if err != nil {
		writeError(c, err, "create project")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), auth.CurrentUser(c), id, req.input())
	if err != nil {
		writeError(c, err, "update project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		writeError(c, err, "delete project")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Like(c *gin.Context)   { h.toggleLike(c, h.svc.Like) }
func (h *Handler) Unlike(c *gin.Context) { h.toggleLike(c, h.svc.Unlike) }

func (h *Handler) toggleLike(c *gin.Context, fn func(ctx context.Context, userID, projectID int64) (bool, int, error)) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	liked, count, err := fn(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		writeError(c, err, "update like")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}

func (h *Handler) Bookmark(c *gin.Context)   { h.toggleBookmark(c, h.svc.Bookmark) }
func (h *Handler) Unbookmark(c *gin.Context) { h.toggleBookmark(c, h.svc.Unbookmark) }

func (h *Handler) toggleBookmark(c *gin.Context, fn func(ctx context.Context, userID, projectID int64) (bool, int, error)) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	bookmarked, count, err := fn(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		writeError(c, err, "update bookmark")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked, "bookmarks_count": count})
}

// RecordView counts the caller once per day; anonymous callers are keyed by IP.
func (h *Handler) RecordView(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	viewer := "ip:" + c.ClientIP()
	if uid := auth.UserID(c); uid != 0 {
		viewer = "user:" + strconv.FormatInt(uid, 10)
	}
	counted, views, err := h.svc.RecordView(c.Request.Context(), id, viewer)
	if err != nil {
		writeError(c, err, "record view")
		return
	}
	c.JSON(http.StatusOK, gin.H{"counted": counted, "view_count": views})
}

func (h *Handler) Share(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req shareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return
	}
	res, err := h.svc.Share(c.Request.Context(), id, req.Platform)
	if err != nil {
		writeError(c, err, "share project")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tags, err := h.svc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// SetFeatured sets is_featured from the body or flips it when the body is empty.
func (h *Handler) SetFeatured(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req featuredReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
			return
		}
	}
	featured, err := h.svc.SetFeatured(c.Request.Context(), id, req.IsFeatured)
	if err != nil {
		writeError(c, err, "update featured")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_featured": featured})
}
