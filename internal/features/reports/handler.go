package reports

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/pkg/cloudinary"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	"github.com/xyz-asif/strayrescue/internal/pkg/response"
)

// ImageUploader stores a report photo and returns its public URL. Delete
// removes an uploaded photo by its public ID.
type ImageUploader interface {
	UploadReportImage(ctx context.Context, file multipart.File, filename string) (*cloudinary.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// AssigneeLookup resolves the profile of a proposed assignee.
type AssigneeLookup interface {
	GetByID(ctx context.Context, id string) (*identity.Profile, error)
}

type Handler struct {
	repo      *Repository
	assignees AssigneeLookup
	uploader  ImageUploader
}

func NewHandler(repo *Repository, assignees AssigneeLookup, uploader ImageUploader) *Handler {
	return &Handler{
		repo:      repo,
		assignees: assignees,
		uploader:  uploader,
	}
}

// CreateReport godoc
// @Summary Submit a stray animal report
// @Description Creates a pending report, optionally with a photo and a proposed rescuer
// @Tags reports
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param description formData string true "What was seen"
// @Param address formData string true "Where it was seen"
// @Param latitude formData number false "Latitude"
// @Param longitude formData number false "Longitude"
// @Param urgency formData string false "low, medium, high or critical"
// @Param assignedRescuerId formData string false "Rescuer, shelter or vet the report is routed to"
// @Param image formData file false "Photo of the animal"
// @Success 201 {object} response.APIResponse{data=ReportResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	urgency, err := ValidateCreateReportRequest(&req)
	if err != nil {
		response.ValidationFailed(c, err.Error())
		return
	}

	report := &Report{
		Description: req.Description,
		Location: Location{
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		Urgency:    urgency,
		ReporterID: actor.ID,
	}

	if req.AssignedRescuerID != "" {
		assignee, err := h.assignees.GetByID(c.Request.Context(), req.AssignedRescuerID)
		if err != nil {
			response.DatabaseError(c, "Failed to load assignee")
			return
		}
		if assignee == nil || !identity.CanBeAssigned(assignee.Role) {
			response.ValidationFailed(c, "assignedRescuerId must reference a rescuer, shelter, vet or admin")
			return
		}
		id := assignee.ID
		report.AssignedRescuerID = &id
	}

	image, ok := h.uploadImage(c)
	if !ok {
		return
	}
	if image != nil {
		report.ImageURL = &image.URL
	}

	if err := h.repo.Create(c.Request.Context(), report); err != nil {
		logger.Error("create report for %s: %v", actor.ID, err)
		if image != nil {
			h.discardImage(image.PublicID)
		}
		response.DatabaseError(c, "Failed to save report")
		return
	}

	response.Created(c, ToResponse(*report), "Report submitted")
}

// uploadImage handles the optional "image" part. It writes the error response itself.
func (h *Handler) uploadImage(c *gin.Context) (*cloudinary.UploadResult, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, true
	}

	file, header, err := c.Request.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		response.BadRequest(c, "Invalid image upload", "INVALID_FILE")
		return nil, false
	}
	defer file.Close()

	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return nil, false
	}
	if h.uploader == nil {
		response.ServiceUnavailable(c, "Image uploads are not configured", "UPLOAD_UNAVAILABLE")
		return nil, false
	}

	result, err := h.uploader.UploadReportImage(c.Request.Context(), file, header.Filename)
	if err != nil {
		logger.Error("upload report image: %v", err)
		response.InternalServerError(c, "Failed to upload image", "UPLOAD_FAILED")
		return nil, false
	}
	return result, true
}

// discardImage removes a photo whose report was never saved. It outlives the
// request so a cancelled client does not leave the asset behind.
func (h *Handler) discardImage(publicID string) {
	if publicID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.uploader.Delete(ctx, publicID); err != nil {
		logger.Warn("remove orphaned report image %s: %v", publicID, err)
	}
}

// ListMine godoc
// @Summary My reports
// @Description Reports raised by the caller, newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]ReportResponse}
// @Failure 401 {object} response.APIResponse
// @Router /reports/mine [get]
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := identity.FromGin(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	list, err := h.repo.FetchByReporter(c.Request.Context(), actor.ID)
	if err != nil {
		logger.Error("list reports of %s: %v", actor.ID, err)
		response.DatabaseError(c, "Failed to fetch reports")
		return
	}

	response.Success(c, ToResponses(list))
}
