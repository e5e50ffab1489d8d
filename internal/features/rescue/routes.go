package rescue

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/pkg/ratelimit"
)

func RegisterRoutes(router *gin.RouterGroup, sessions *Sessions, authMiddleware gin.HandlerFunc, limiter *ratelimit.RateLimiter) {
	handler := NewHandler(sessions)

	rescue := router.Group("/rescue")
	rescue.Use(authMiddleware)
	if limiter != nil {
		rescue.Use(ratelimit.UserBasedMiddleware(limiter))
	}
	{
		rescue.GET("/reports", handler.ListReports)
		rescue.POST("/reports/:id/schedule", handler.OpenScheduling)
		rescue.PATCH("/reports/:id/schedule", handler.UpdateScheduling)
		rescue.DELETE("/reports/:id/schedule", handler.CancelScheduling)
		rescue.POST("/reports/:id/accept", handler.Accept)
		rescue.POST("/reports/:id/decline", handler.Decline)
	}
}
