package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/comments/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func bindContent(c *gin.Context) (string, bool) {
	var req contentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return "", false
	}
	return req.Content, true
}

func writeError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrReplyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("comments request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

func (h *Handler) ListComments(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	page := pagination.FromQuery(c, 20, 100)
	items, meta, err := h.svc.List(c.Request.Context(), projectID, page)
	if err != nil {
		writeError(c, err, "list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": items, "pagination": meta})
}

func (h *Handler) CreateComment(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), auth.UserID(c), projectID, content)
	if err != nil {
		writeError(c, err, "create comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) CreateReply(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	reply, err := h.svc.Reply(c.Request.Context(), auth.UserID(c), commentID, content)
	if err != nil {
		writeError(c, err, "create reply")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	comment, err := h.svc.UpdateComment(c.Request.Context(), auth.CurrentUser(c), id, content)
	if err != nil {
		writeError(c, err, "update comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *Handler) UpdateReply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	content, ok := bindContent(c)
	if !ok {
		return
	}
	reply, err := h.svc.UpdateReply(c.Request.Context(), auth.CurrentUser(c), id, content)
	if err != nil {
		writeError(c, err, "update reply")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		writeError(c, err, "delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteReply(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteReply(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		writeError(c, err, "delete reply")
		return
	}
	c.Status(http.StatusNoContent)
}
