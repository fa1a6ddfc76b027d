package http

import "github.com/gin-gonic/gin"

// Register mounts the signed-in user's routes; rg must already require auth.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sync", h.SyncUser)
	rg.GET("/me", h.GetProfile)
	rg.PUT("/me", h.UpdateProfile)
}

// RegisterPublic mounts routes that work without a session.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/:username", h.GetPublicProfile)
}
