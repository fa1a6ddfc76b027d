package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts read routes on the /api group.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/comments", h.ListComments)
}

// Register mounts write routes on an /api group that requires auth.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/comments", h.CreateComment)
	rg.POST("/comments/:id/replies", h.CreateReply)
	rg.PUT("/comments/:id", h.UpdateComment)
	rg.DELETE("/comments/:id", h.DeleteComment)
	rg.PUT("/replies/:id", h.UpdateReply)
	rg.DELETE("/replies/:id", h.DeleteReply)
}
