package identity

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/config"
	"github.com/xyz-asif/strayrescue/internal/store"
)

func RegisterRoutes(router *gin.RouterGroup, gw store.Gateway, cfg *config.Config, authMiddleware gin.HandlerFunc) {
	repo := NewRepository(gw)
	handler := NewHandler(repo, cfg)

	auth := router.Group("/auth")
	{
		auth.GET("/me", authMiddleware, handler.GetMe)

		// Tokens are normally issued by the identity provider.
		if cfg.IssuesDevTokens() {
			auth.POST("/dev-token", handler.IssueDevToken)
		}
	}
}

func jwtExpiry(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}
