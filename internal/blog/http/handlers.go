package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/blog/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

func writeError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrEmptySlug):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("blog request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " id"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return false
	}
	return true
}

func postFilter(c *gin.Context) domain.PostFilter {
	return domain.PostFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Status:   domain.Status(c.Query("status")),
	}
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, meta, err := h.svc.PublishedPosts(c.Request.Context(), postFilter(c), pagination.FromQuery(c, defaultPageSize, maxPageSize))
	if err != nil {
		writeError(c, err, "list posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "pagination": meta})
}

// ListAllPosts is the admin view that includes drafts.
func (h *Handler) ListAllPosts(c *gin.Context) {
	posts, meta, err := h.svc.AllPosts(c.Request.Context(), postFilter(c), pagination.FromQuery(c, defaultPageSize, maxPageSize))
	if err != nil {
		writeError(c, err, "list posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "pagination": meta})
}

func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.svc.PostBySlug(c.Request.Context(), c.Param("slug"), auth.IsAdmin(c))
	if err != nil {
		writeError(c, err, "get post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.CreatePost(c.Request.Context(), auth.UserID(c), req.input())
	if err != nil {
		writeError(c, err, "create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "post")
	if !ok {
		return
	}
	var req updatePostReq
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.UpdatePost(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err, "update post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "post")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err, "list categories")
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var req updateCategoryReq
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		writeError(c, err, "list tags")
		return
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req tagReq
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err, "create tag")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": t})
}

func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "tag")
	if !ok {
		return
	}
	var req tagReq
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.UpdateTag(c.Request.Context(), id, req.Name)
	if err != nil {
		writeError(c, err, "update tag")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": t})
}

func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "tag")
	if !ok {
		return
	}
	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		writeError(c, err, "delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}
