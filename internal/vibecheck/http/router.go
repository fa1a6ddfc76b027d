package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts routes on an /api group running OptionalAuth. limit
// guards the endpoint that calls the model.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/vibe-check", limit, h.Create)
	rg.GET("/vibe-check/:id", h.Get)
	rg.GET("/vibe-check/:id/pdf", h.PDF)
}

// Register mounts routes on an /api group that already requires auth.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me/vibe-checks", h.ListMine)
}
