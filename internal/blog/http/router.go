package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts read routes on an /api/blog group running OptionalAuth.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/posts", h.ListPosts)
	rg.GET("/posts/:slug", h.GetPost)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/tags", h.ListTags)
}

// RegisterAdmin mounts CMS routes on an /api/admin/blog group behind RequireAdmin.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/posts", h.ListAllPosts)
	rg.POST("/posts", h.CreatePost)
	rg.PUT("/posts/:id", h.UpdatePost)
	rg.DELETE("/posts/:id", h.DeletePost)

	rg.POST("/categories", h.CreateCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)

	rg.POST("/tags", h.CreateTag)
	rg.PUT("/tags/:id", h.UpdateTag)
	rg.DELETE("/tags/:id", h.DeleteTag)
}
