package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/pkg/pagination"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
	"github.com/xyz-asif/strayrescue/internal/pkg/validator"
	"github.com/xyz-asif/strayrescue/internal/store"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Get paginated list of user's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 50)"
// @Param unreadOnly query bool false "Only show unread"
// @Success 200 {object} response.APIResponse{data=response.PaginatedData{items=[]Notification}}
// @Failure 401 {object} response.APIResponse
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters", "INVALID_QUERY")
		return
	}

	if err := ValidateNotificationListQuery(&query); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_QUERY")
		return
	}

	list, total, err := h.repo.ListByUser(c.Request.Context(), actor.ID, query.UnreadOnly, query.Page, query.Limit)
	if err != nil {
		response.DatabaseError(c, "Failed to fetch notifications")
		return
	}

	response.Paginated(c, list, pagination.New(query.Page, query.Limit, total))
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=UnreadCountResponse}
// @Failure 401 {object} response.APIResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	count, err := h.repo.CountUnread(c.Request.Context(), actor.ID)
	if err != nil {
		response.DatabaseError(c, "Failed to count notifications")
		return
	}

	response.Success(c, UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.APIResponse{data=MarkReadResponse}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	n, ok := h.ownedNotification(c)
	if !ok {
		return
	}

	if err := h.repo.MarkAsRead(c.Request.Context(), n.ID); err != nil {
		response.DatabaseError(c, "Failed to mark as read")
		return
	}

	response.Success(c, MarkReadResponse{ID: n.ID, IsRead: true})
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=MarkAllReadResponse}
// @Failure 401 {object} response.APIResponse
// @Router /notifications/read-all [patch]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	count, err := h.repo.MarkAllAsRead(c.Request.Context(), actor.ID)
	if err != nil {
		response.DatabaseError(c, "Failed to mark all as read")
		return
	}

	response.Success(c, MarkAllReadResponse{MarkedCount: count})
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	n, ok := h.ownedNotification(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), n.ID); err != nil {
		if store.IsNotFound(err) {
			response.NotFound(c, "Notification not found", "NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to delete notification")
		return
	}

	response.Success(c, nil, "Notification deleted")
}

// ownedNotification loads :id and verifies the caller is its recipient
func (h *Handler) ownedNotification(c *gin.Context) (*Notification, bool) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return nil, false
	}

	id := c.Param("id")
	if !validator.IsValidUUID(id) {
		response.NotFound(c, "Notification not found", "NOT_FOUND")
		return nil, false
	}

	n, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if store.IsNotFound(err) {
			response.NotFound(c, "Notification not found", "NOT_FOUND")
			return nil, false
		}
		response.DatabaseError(c, "Failed to load notification")
		return nil, false
	}

	if n.UserID != actor.ID {
		response.Forbidden(c, "Cannot modify others' notifications", "FORBIDDEN")
		return nil, false
	}
	return n, true
}
