package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/store"
)

func RegisterRoutes(router *gin.RouterGroup, gw store.Gateway, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(NewRepository(gw))

	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware)
	{
		notifications.GET("", handler.ListNotifications)
		notifications.GET("/unread-count", handler.GetUnreadCount)
		notifications.PATCH("/read-all", handler.MarkAllAsRead)
		notifications.PATCH("/:id/read", handler.MarkAsRead)
		notifications.DELETE("/:id", handler.DeleteNotification)
	}
}

// GetDispatcher returns a dispatcher for use by other modules
func GetDispatcher(gw store.Gateway) *Dispatcher {
	return NewDispatcher(NewRepository(gw))
}
