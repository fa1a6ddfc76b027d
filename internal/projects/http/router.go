package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts read routes on an /api group running OptionalAuth.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/projects", h.ListProjects)
	rg.GET("/projects/:id", h.GetProject)
	rg.POST("/projects/:id/view", h.RecordView)
	rg.POST("/projects/:id/share", h.Share)
	rg.GET("/tags", h.ListTags)
	rg.GET("/users/:username/projects", h.ListUserProjects)
}

// Register mounts routes on an /api group that already requires auth.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects", h.CreateProject)
	rg.PUT("/projects/:id", h.UpdateProject)
	rg.DELETE("/projects/:id", h.DeleteProject)
	rg.POST("/projects/:id/like", h.Like)
	rg.DELETE("/projects/:id/like", h.Unlike)
	rg.POST("/projects/:id/bookmark", h.Bookmark)
	rg.DELETE("/projects/:id/bookmark", h.Unbookmark)
	rg.GET("/me/bookmarks", h.MyBookmarks)
	rg.GET("/me/likes", h.MyLikes)
}

// RegisterAdmin mounts routes on an /api/admin group behind RequireAdmin.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.PUT("/projects/:id/featured", h.SetFeatured)
}
