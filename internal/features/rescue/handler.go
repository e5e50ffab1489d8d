package rescue

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// AcceptRequest carries the pickup date and time chosen in the scheduling dialog
type AcceptRequest struct {
	PickupDate string `json:"pickupDate" example:"2025-06-01"`
	PickupTime string `json:"pickupTime" example:"09:00"`
}

// DraftResponse is the scheduling dialog state
type DraftResponse struct {
	Draft
	Timezone string `json:"timezone" example:"UTC"`
}

// ListReports godoc
// @Summary List rescue reports
// @Description Reloads the reports visible to the caller. Admins see all reports, rescuers, shelters and vets only those assigned to them. Newest first.
// @Tags rescue
// @Produce json
// @Security BearerAuth
// @Param tab query string false "pending, accepted or declined"
// @Success 200 {object} response.APIResponse{data=[]reports.ReportResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /rescue/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	list, err := ctrl.ListReports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	if tab := c.Query("tab"); tab != "" {
		list = ctrl.FilterByTab(tab)
	}
	response.Success(c, reports.ToResponses(list))
}

// OpenScheduling godoc
// @Summary Open the pickup scheduling dialog
// @Description Returns the draft pickup, tomorrow at 09:00 unless a dialog is already open
// @Tags rescue
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse{data=DraftResponse}
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /rescue/reports/{id}/schedule [post]
func (h *Handler) OpenScheduling(c *gin.Context) {
	ctrl, ok := h.loadedController(c)
	if !ok {
		return
	}

	d, err := ctrl.OpenScheduling(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, DraftResponse{Draft: d, Timezone: ctrl.PickupZone().String()})
}

// UpdateScheduling godoc
// @Summary Edit the pickup scheduling dialog
// @Tags rescue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body AcceptRequest true "New date and/or time"
// @Success 200 {object} response.APIResponse{data=DraftResponse}
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /rescue/reports/{id}/schedule [patch]
func (h *Handler) UpdateScheduling(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	d, err := ctrl.UpdateScheduling(c.Param("id"), req.PickupDate, req.PickupTime)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, DraftResponse{Draft: d, Timezone: ctrl.PickupZone().String()})
}

// CancelScheduling godoc
// @Summary Close the pickup scheduling dialog
// @Tags rescue
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse
// @Router /rescue/reports/{id}/schedule [delete]
func (h *Handler) CancelScheduling(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	ctrl.CancelScheduling(c.Param("id"))
	response.Success(c, nil, "Scheduling cancelled")
}

// Accept godoc
// @Summary Accept a report and schedule the pickup
// @Description Marks a pending report accepted with the given pickup time and notifies the reporter
// @Tags rescue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body AcceptRequest true "Pickup date (YYYY-MM-DD) and time (HH:MM)"
// @Success 200 {object} response.APIResponse{data=reports.ReportResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /rescue/reports/{id}/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	ctrl, ok := h.loadedController(c)
	if !ok {
		return
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	id := c.Param("id")
	pt, err := ctrl.RequestAccept(id, req.PickupDate, req.PickupTime)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := ctrl.ConfirmAccept(c.Request.Context(), pt); err != nil {
		writeError(c, err)
		return
	}

	h.respondWithReport(c, ctrl, id, "Report accepted")
}

// Decline godoc
// @Summary Decline a report
// @Tags rescue
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.APIResponse{data=reports.ReportResponse}
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 500 {object} response.APIResponse
// @Router /rescue/reports/{id}/decline [post]
func (h *Handler) Decline(c *gin.Context) {
	ctrl, ok := h.loadedController(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := ctrl.Decline(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	h.respondWithReport(c, ctrl, id, "Report declined")
}

func (h *Handler) respondWithReport(c *gin.Context, ctrl *Controller, id, message string) {
	r, ok := ctrl.Report(id)
	if !ok {
		response.Success(c, nil, message)
		return
	}
	response.Success(c, reports.ToResponse(r), message)
}

func (h *Handler) controller(c *gin.Context) (*Controller, bool) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return nil, false
	}
	return h.sessions.For(actor), true
}

// loadedController makes sure a fresh session has fetched its list before acting on it.
func (h *Handler) loadedController(c *gin.Context) (*Controller, bool) {
	ctrl, ok := h.controller(c)
	if !ok {
		return nil, false
	}
	if !ctrl.Loaded() {
		if _, err := ctrl.ListReports(c.Request.Context()); err != nil {
			writeError(c, err)
			return nil, false
		}
	}
	return ctrl, true
}

func writeError(c *gin.Context, err error) {
	var authErr *AuthorizationError
	var valErr *ValidationError

	switch {
	case errors.As(err, &authErr):
		response.Forbidden(c, "Your role cannot view or act on rescue reports", "RESTRICTED")
	case errors.As(err, &valErr):
		response.ErrorWithData(c, http.StatusUnprocessableEntity, "Pickup date and time are required", valErr.Fields, "VALIDATION_FAILED")
	case errors.Is(err, ErrNoDraft):
		response.NotFound(c, "Scheduling dialog is not open", "SCHEDULING_NOT_OPEN")
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
	case errors.Is(err, ErrTransitionInFlight):
		response.Conflict(c, "Another action on this report is in progress", "TRANSITION_IN_FLIGHT")
	case errors.Is(err, ErrTransitionNotAllowed):
		response.Conflict(c, "Report is no longer pending", "TRANSITION_NOT_ALLOWED")
	case errors.Is(err, apperrors.ErrStore):
		response.InternalServerError(c, "Could not reach the report store, please retry", "STORE_ERROR")
	default:
		response.InternalServerError(c, "Unexpected error", "INTERNAL_ERROR")
	}
}
