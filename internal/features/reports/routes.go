package reports

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the citizen-facing report endpoints. uploader may be nil.
func RegisterRoutes(router *gin.RouterGroup, repo *Repository, assignees AssigneeLookup, authMiddleware gin.HandlerFunc, uploader ImageUploader) {
	handler := NewHandler(repo, assignees, uploader)

	reports := router.Group("/reports")
	reports.Use(authMiddleware)
	{
		reports.POST("", handler.CreateReport)
		reports.GET("/mine", handler.ListMine)
	}
}
