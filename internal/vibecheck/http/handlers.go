package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/pagination"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/report"
)

func writeError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vibe check not found"})
	case errors.Is(err, domain.ErrEvaluatorUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vibe check is not available right now"})
	case errors.Is(err, domain.ErrEvaluationFailed):
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("vibe check evaluation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not evaluate this idea, please try again"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("vibe check request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

// Create runs a vibe check for anonymous or signed-in callers.
func (h *Handler) Create(c *gin.Context) {
	var req checkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return
	}

	vc, err := h.svc.Check(c.Request.Context(), auth.UserID(c), domain.Input{
		WebsiteURL:      req.WebsiteURL,
		IdeaDescription: req.IdeaDescription,
	})
	if err != nil {
		writeError(c, err, "run vibe check")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vibe_check": vc})
}

func (h *Handler) Get(c *gin.Context) {
	vc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "get vibe check")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vibe_check": vc})
}

func (h *Handler) PDF(c *gin.Context) {
	vc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "get vibe check")
		return
	}
	doc, err := h.render(vc)
	if err != nil {
		writeError(c, err, "render report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.Filename(vc)))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) ListMine(c *gin.Context) {
	items, meta, err := h.svc.ListForUser(c.Request.Context(), auth.UserID(c), pagination.FromQuery(c, 10, 50))
	if err != nil {
		writeError(c, err, "list vibe checks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vibe_checks": items, "pagination": meta})
}
