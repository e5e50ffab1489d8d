package reports

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a report.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// IsTerminal reports whether no further transition may leave this state.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Urgency grades how quickly an animal needs help.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency validates a raw urgency. Empty input means medium.
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case "":
		return UrgencyMedium, nil
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return u, nil
	}
	return "", fmt.Errorf("unknown urgency %q", s)
}

// Location is where the animal was seen. Coordinates are optional.
type Location struct {
	Address   string   `bson:"address" json:"address"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

// Report is a stray-animal incident raised by a citizen
type Report struct {
	ID                 string     `bson:"_id" json:"id"`
	Description        string     `bson:"description" json:"description"`
	Location           Location   `bson:"location" json:"location"`
	Urgency            Urgency    `bson:"urgency" json:"urgency"`
	Status             Status     `bson:"status" json:"status"`
	ImageURL           *string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ReporterID         string     `bson:"reporterId" json:"reporterId"`
	AssignedRescuerID  *string    `bson:"assignedRescuerId" json:"assignedRescuerId"`
	ExpectedPickupTime *time.Time `bson:"expectedPickupTime" json:"expectedPickupTime"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt" json:"updatedAt"`

	// Filled from the reporter's profile on read, never stored.
	ReporterName   string `bson:"-" json:"reporterName"`
	ReporterAvatar string `bson:"-" json:"reporterAvatar"`
}

// Clone returns a deep copy so snapshots never share pointers with the live record.
func (r Report) Clone() Report {
	out := r
	out.ImageURL = clonePtr(r.ImageURL)
	out.AssignedRescuerID = clonePtr(r.AssignedRescuerID)
	out.ExpectedPickupTime = clonePtr(r.ExpectedPickupTime)
	out.Location.Latitude = clonePtr(r.Location.Latitude)
	out.Location.Longitude = clonePtr(r.Location.Longitude)
	return out
}

// CheckInvariants verifies expectedPickupTime is set exactly when the report is accepted.
func (r Report) CheckInvariants() error {
	accepted := r.Status == StatusAccepted
	scheduled := r.ExpectedPickupTime != nil
	if accepted != scheduled {
		return fmt.Errorf("report %s: status %s with pickup set=%t", r.ID, r.Status, scheduled)
	}
	return nil
}

// PickupISO renders the pickup time as an ISO-8601 UTC timestamp with milliseconds.
func (r Report) PickupISO() string {
	if r.ExpectedPickupTime == nil {
		return ""
	}
	return FormatISO(*r.ExpectedPickupTime)
}

// FormatISO formats t in UTC as 2006-01-02T15:04:05.000Z.
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Request DTOs

type CreateReportRequest struct {
	Description       string   `json:"description" form:"description" binding:"required,min=5,max=2000"`
	Address           string   `json:"address" form:"address" binding:"required,max=300"`
	Latitude          *float64 `json:"latitude" form:"latitude"`
	Longitude         *float64 `json:"longitude" form:"longitude"`
	Urgency           string   `json:"urgency" form:"urgency"`
	AssignedRescuerID string   `json:"assignedRescuerId" form:"assignedRescuerId"`
}

// Response DTOs

type ReportResponse struct {
	ID                 string   `json:"id"`
	Description        string   `json:"description"`
	Location           Location `json:"location"`
	Urgency            Urgency  `json:"urgency"`
	Status             Status   `json:"status"`
	ImageURL           *string  `json:"imageUrl,omitempty"`
	ReporterID         string   `json:"reporterId"`
	ReporterName       string   `json:"reporterName"`
	ReporterAvatar     string   `json:"reporterAvatar"`
	AssignedRescuerID  *string  `json:"assignedRescuerId"`
	ExpectedPickupTime *string  `json:"expectedPickupTime"`
	CreatedAt          string   `json:"createdAt"`
}

// ToResponse renders a report with ISO timestamps
func ToResponse(r Report) ReportResponse {
	resp := ReportResponse{
		ID:                r.ID,
		Description:       r.Description,
		Location:          r.Location,
		Urgency:           r.Urgency,
		Status:            r.Status,
		ImageURL:          r.ImageURL,
		ReporterID:        r.ReporterID,
		ReporterName:      r.ReporterName,
		ReporterAvatar:    r.ReporterAvatar,
		AssignedRescuerID: r.AssignedRescuerID,
		CreatedAt:         FormatISO(r.CreatedAt),
	}
	if r.ExpectedPickupTime != nil {
		iso := r.PickupISO()
		resp.ExpectedPickupTime = &iso
	}
	return resp
}

// ToResponses renders a list of reports
func ToResponses(list []Report) []ReportResponse {
	out := make([]ReportResponse, len(list))
	for i, r := range list {
		out[i] = ToResponse(r)
	}
	return out
}
