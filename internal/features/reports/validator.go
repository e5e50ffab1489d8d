package reports

import (
	"fmt"
	"strings"

	"github.com/xyz-asif/strayrescue/internal/pkg/validator"
	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

// ValidateCreateReportRequest trims the request and returns the parsed urgency
func ValidateCreateReportRequest(req *CreateReportRequest) (Urgency, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Address = strings.TrimSpace(req.Address)
	req.AssignedRescuerID = strings.TrimSpace(req.AssignedRescuerID)

	if req.Description == "" {
		return "", fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if req.Address == "" {
		return "", fmt.Errorf("%w: address is required", apperrors.ErrValidation)
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return "", fmt.Errorf("%w: latitude and longitude must be given together", apperrors.ErrValidation)
	}
	if req.Latitude != nil && !validator.IsValidLatitude(*req.Latitude) {
		return "", fmt.Errorf("%w: latitude out of range", apperrors.ErrValidation)
	}
	if req.Longitude != nil && !validator.IsValidLongitude(*req.Longitude) {
		return "", fmt.Errorf("%w: longitude out of range", apperrors.ErrValidation)
	}

	urgency, err := ParseUrgency(req.Urgency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return urgency, nil
}
