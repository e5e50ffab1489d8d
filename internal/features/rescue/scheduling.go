package rescue

import (
	"time"

	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/pkg/validator"
)

const defaultPickupClock = "09:00"

// Draft is the unsaved pickup date and time of an open scheduling dialog.
type Draft struct {
	ReportID   string `json:"reportId"`
	PickupDate string `json:"pickupDate"`
	PickupTime string `json:"pickupTime"`
}

// Transition turns the draft into an accept request.
func (d Draft) Transition() PendingTransition {
	return PendingTransition{ReportID: d.ReportID, PickupDate: d.PickupDate, PickupTime: d.PickupTime}
}

// OpenScheduling opens the dialog for a pending report, defaulted to tomorrow at 09:00
// in the pickup time zone. An already open dialog is returned unchanged.
func (c *Controller) OpenScheduling(reportID string) (Draft, error) {
	if _, err := c.authorize(); err != nil {
		return Draft{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(reportID)
	if i < 0 {
		return Draft{}, &NotFoundError{ReportID: reportID}
	}
	if c.list[i].Status != reports.StatusPending {
		return Draft{}, ErrTransitionNotAllowed
	}
	if d, ok := c.drafts[reportID]; ok {
		return d, nil
	}

	tomorrow := c.now().In(c.loc).AddDate(0, 0, 1)
	d := Draft{
		ReportID:   reportID,
		PickupDate: tomorrow.Format(validator.DateLayout),
		PickupTime: defaultPickupClock,
	}
	c.drafts[reportID] = d
	return d, nil
}

// UpdateScheduling edits an open dialog. Empty values keep the current ones.
func (c *Controller) UpdateScheduling(reportID, pickupDate, pickupTime string) (Draft, error) {
	fields := make(map[string]string)
	if pickupDate != "" && !validator.IsValidDate(pickupDate) {
		fields["pickupDate"] = "must be YYYY-MM-DD"
	}
	if pickupTime != "" && !validator.IsValidClock(pickupTime) {
		fields["pickupTime"] = "must be HH:MM"
	}
	if len(fields) > 0 {
		return Draft{}, &ValidationError{Fields: fields}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.drafts[reportID]
	if !ok {
		return Draft{}, ErrNoDraft
	}
	if pickupDate != "" {
		d.PickupDate = pickupDate
	}
	if pickupTime != "" {
		d.PickupTime = pickupTime
	}
	c.drafts[reportID] = d
	return d, nil
}

// CancelScheduling discards the dialog. It never touches the store.
func (c *Controller) CancelScheduling(reportID string) {
	c.mu.Lock()
	delete(c.drafts, reportID)
	c.mu.Unlock()
}

// Scheduling returns the open dialog for reportID, if any.
func (c *Controller) Scheduling(reportID string) (Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.drafts[reportID]
	return d, ok
}

// pruneDrafts drops dialogs whose report is no longer pending. Caller holds mu.
func (c *Controller) pruneDrafts() {
	for id := range c.drafts {
		i := c.indexOf(id)
		if i < 0 || c.list[i].Status != reports.StatusPending {
			delete(c.drafts, id)
		}
	}
}

// PickupZone is the zone pickup dates and times are read in.
func (c *Controller) PickupZone() *time.Location {
	return c.loc
}
