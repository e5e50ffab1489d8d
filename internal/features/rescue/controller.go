package rescue

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/features/notifications"
	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	"github.com/xyz-asif/strayrescue/internal/pkg/validator"
	"github.com/xyz-asif/strayrescue/internal/store"
)

const (
	DefaultStoreTimeout = 10 * time.Second

	acceptedTitle = "Rescue scheduled"
)

// ReportStore is the slice of the report repository the controller drives.
type ReportStore interface {
	FetchAll(ctx context.Context, f reports.Filter) ([]reports.Report, error)
	GetByID(ctx context.Context, id string) (*reports.Report, error)
	UpdateStatus(ctx context.Context, id string, upd reports.StatusUpdate) (*reports.Report, error)
}

// Notifier delivers a message to a single user.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ notifications.Type, title, message string) error
}

// Options tunes a Controller. Zero values pick sensible defaults.
type Options struct {
	StoreTimeout time.Duration
	Location     *time.Location
	Now          func() time.Time
	Logger       *logger.Logger
}

// PendingTransition is an accept request that passed validation and awaits confirmation.
type PendingTransition struct {
	ReportID   string `json:"reportId"`
	PickupDate string `json:"pickupDate"`
	PickupTime string `json:"pickupTime"`
}

// Controller owns the list of reports visible to one actor and runs their
// lifecycle transitions optimistically against the store.
type Controller struct {
	store    ReportStore
	notifier Notifier
	timeout  time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger

	mu       sync.Mutex
	actor    identity.Actor
	list     []reports.Report
	failed   bool
	loaded   bool
	inFlight map[string]bool
	drafts   map[string]Draft

	tasks sync.WaitGroup
}

func NewController(actor identity.Actor, rs ReportStore, notifier Notifier, opts Options) *Controller {
	c := &Controller{
		store:    rs,
		notifier: notifier,
		timeout:  opts.StoreTimeout,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger,
		actor:    actor,
		list:     []reports.Report{},
		inFlight: make(map[string]bool),
		drafts:   make(map[string]Draft),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultStoreTimeout
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	return c
}

// Actor returns the actor this controller acts for.
func (c *Controller) Actor() identity.Actor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}

// SetRole updates the actor's role, which the identity provider may change between requests.
func (c *Controller) SetRole(role identity.Role) {
	c.mu.Lock()
	c.actor.Role = role
	c.mu.Unlock()
}

// ListReports reloads the list from the store. Admins see every report, everyone
// else only the reports assigned to them. Any failure leaves the list empty.
func (c *Controller) ListReports(ctx context.Context) ([]reports.Report, error) {
	actor, err := c.authorize()
	if err != nil {
		c.mu.Lock()
		c.list = []reports.Report{}
		c.failed = false
		c.mu.Unlock()
		return nil, err
	}

	filter := reports.AssignedTo(actor.ID)
	if actor.IsAdmin() {
		filter = reports.AllReports()
	}

	storeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	list, err := c.store.FetchAll(storeCtx, filter)
	if err != nil {
		c.mu.Lock()
		c.list = []reports.Report{}
		c.failed = true
		c.mu.Unlock()
		c.log.Error("list reports for %s: %v", actor.ID, err)
		return nil, &StoreError{Op: "list reports", Err: err}
	}

	c.mu.Lock()
	c.list = list
	c.failed = false
	c.loaded = true
	c.pruneDrafts()
	out := c.snapshotList()
	c.mu.Unlock()
	return out, nil
}

// RequestAccept validates the pickup date and time and opens the scheduling
// dialog with them. Nothing is written until ConfirmAccept.
func (c *Controller) RequestAccept(reportID, pickupDate, pickupTime string) (PendingTransition, error) {
	if _, err := c.authorize(); err != nil {
		return PendingTransition{}, err
	}
	if err := validatePickup(pickupDate, pickupTime); err != nil {
		return PendingTransition{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(reportID)
	if i < 0 {
		return PendingTransition{}, &NotFoundError{ReportID: reportID}
	}
	if c.list[i].Status != reports.StatusPending {
		return PendingTransition{}, ErrTransitionNotAllowed
	}

	c.drafts[reportID] = Draft{ReportID: reportID, PickupDate: pickupDate, PickupTime: pickupTime}
	return PendingTransition{ReportID: reportID, PickupDate: pickupDate, PickupTime: pickupTime}, nil
}

// ConfirmAccept moves a pending report to accepted with the pickup time from pt.
// The reporter is notified in the background once the store confirms.
func (c *Controller) ConfirmAccept(ctx context.Context, pt PendingTransition) error {
	if _, err := c.authorize(); err != nil {
		return err
	}
	if err := validatePickup(pt.PickupDate, pt.PickupTime); err != nil {
		return err
	}
	pickup, err := c.composePickup(pt.PickupDate, pt.PickupTime)
	if err != nil {
		return err
	}

	updated, err := c.transition(ctx, pt.ReportID, reports.StatusAccepted, &pickup)
	if err != nil {
		return err
	}

	c.notifyReporter(ctx, updated, pt)
	return nil
}

// Decline moves a pending report to declined. No notification is sent.
func (c *Controller) Decline(ctx context.Context, reportID string) error {
	if _, err := c.authorize(); err != nil {
		return err
	}
	_, err := c.transition(ctx, reportID, reports.StatusDeclined, nil)
	return err
}

// FilterByTab returns the reports in the list whose status matches tab.
func (c *Controller) FilterByTab(tab string) []reports.Report {
	status := reports.Status(tab)
	switch status {
	case reports.StatusPending, reports.StatusAccepted, reports.StatusDeclined:
	default:
		return []reports.Report{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]reports.Report, 0, len(c.list))
	for _, r := range c.list {
		if r.Status == status {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Reports returns a copy of the current list.
func (c *Controller) Reports() []reports.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotList()
}

// Report returns a copy of one report from the list.
func (c *Controller) Report(reportID string) (reports.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(reportID)
	if i < 0 {
		return reports.Report{}, false
	}
	return c.list[i].Clone(), true
}

// Loaded reports whether the list has been fetched successfully at least once.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Failed reports whether the last list fetch failed.
func (c *Controller) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// InFlight reports whether a transition on reportID is awaiting the store.
func (c *Controller) InFlight(reportID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[reportID]
}

// Busy reports whether any transition is awaiting the store.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight) > 0
}

// Wait blocks until every background notification has finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

// transition applies the change locally, persists it, and on failure restores
// the single record it touched. It returns the record as applied.
func (c *Controller) transition(ctx context.Context, reportID string, to reports.Status, pickup *time.Time) (reports.Report, error) {
	c.mu.Lock()
	i := c.indexOf(reportID)
	if i < 0 {
		c.mu.Unlock()
		return reports.Report{}, &NotFoundError{ReportID: reportID}
	}
	if c.inFlight[reportID] {
		c.mu.Unlock()
		return reports.Report{}, ErrTransitionInFlight
	}
	if c.list[i].Status.IsTerminal() {
		c.mu.Unlock()
		return reports.Report{}, ErrTransitionNotAllowed
	}

	snapshot := c.list[i].Clone()
	applied := snapshot.Clone()
	applied.Status = to
	applied.ExpectedPickupTime = pickup
	c.list[i] = applied
	c.inFlight[reportID] = true
	c.mu.Unlock()

	storeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.store.UpdateStatus(storeCtx, reportID, reports.StatusUpdate{
		Status:             to,
		ExpectedPickupTime: pickup,
	})

	c.mu.Lock()
	delete(c.inFlight, reportID)
	if err != nil {
		// A refresh during the flight wins over the snapshot.
		if j := c.indexOf(reportID); j >= 0 && reflect.DeepEqual(c.list[j], applied) {
			c.list[j] = snapshot
		}
		c.mu.Unlock()

		if store.IsConflict(err) {
			c.log.Warn("report %s left pending before %s was stored, reloading it", reportID, to)
			c.refreshOne(ctx, reportID, snapshot)
			return reports.Report{}, ErrTransitionNotAllowed
		}
		if store.IsNotFound(err) {
			c.log.Warn("report %s vanished during %s transition, refreshing", reportID, to)
			if _, rerr := c.ListReports(ctx); rerr != nil {
				c.log.Warn("refresh after missing report %s: %v", reportID, rerr)
			}
			return reports.Report{}, &NotFoundError{ReportID: reportID, Err: err}
		}
		c.log.Error("%s report %s: %v", to, reportID, err)
		return reports.Report{}, &StoreError{Op: fmt.Sprintf("mark report %s", to), Err: err}
	}

	// A refresh may have replaced the record while the update was in flight.
	if j := c.indexOf(reportID); j >= 0 {
		c.list[j] = applied
	}
	delete(c.drafts, reportID)
	c.mu.Unlock()

	return applied, nil
}

// refreshOne replaces a stale record with the stored one, unless something
// else already replaced it. Records no longer visible to the actor are dropped.
func (c *Controller) refreshOne(ctx context.Context, reportID string, stale reports.Report) {
	storeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fresh, err := c.store.GetByID(storeCtx, reportID)
	if err != nil && !store.IsNotFound(err) {
		c.log.Warn("reload report %s: %v", reportID, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	j := c.indexOf(reportID)
	if j < 0 || !reflect.DeepEqual(c.list[j], stale) {
		return
	}
	delete(c.drafts, reportID)
	if fresh == nil || !visibleTo(c.actor, *fresh) {
		c.list = append(c.list[:j], c.list[j+1:]...)
		return
	}
	c.list[j] = *fresh
}

func visibleTo(actor identity.Actor, r reports.Report) bool {
	if actor.IsAdmin() {
		return true
	}
	return r.AssignedRescuerID != nil && *r.AssignedRescuerID == actor.ID
}

// notifyReporter runs independently of the request; failures are only logged.
func (c *Controller) notifyReporter(ctx context.Context, r reports.Report, pt PendingTransition) {
	message := fmt.Sprintf("Your report has been accepted. Expected pickup on %s at %s.", pt.PickupDate, pt.PickupTime)

	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()

		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		if err := c.notifier.Notify(notifyCtx, r.ReporterID, notifications.TypeStatusChange, acceptedTitle, message); err != nil {
			nerr := &NotificationError{ReportID: r.ID, UserID: r.ReporterID, Err: err}
			c.log.Error("%v", nerr)
		}
	}()
}

func (c *Controller) authorize() (identity.Actor, error) {
	c.mu.Lock()
	actor := c.actor
	c.mu.Unlock()

	if !identity.CanActOnReports(actor.Role) {
		return actor, &AuthorizationError{ActorID: actor.ID, Role: actor.Role}
	}
	return actor, nil
}

// composePickup reads date and time as wall-clock values in the pickup zone.
func (c *Controller) composePickup(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(validator.DateLayout+" "+validator.ClockLayout, date+" "+clock, c.loc)
	if err != nil {
		return time.Time{}, &ValidationError{Fields: map[string]string{"pickupDate": err.Error()}}
	}
	return t.UTC(), nil
}

func validatePickup(date, clock string) error {
	fields := make(map[string]string)
	switch {
	case date == "":
		fields["pickupDate"] = "required"
	case !validator.IsValidDate(date):
		fields["pickupDate"] = "must be YYYY-MM-DD"
	}
	switch {
	case clock == "":
		fields["pickupTime"] = "required"
	case !validator.IsValidClock(clock):
		fields["pickupTime"] = "must be HH:MM"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(reportID string) int {
	for i := range c.list {
		if c.list[i].ID == reportID {
			return i
		}
	}
	return -1
}

// snapshotList must be called with mu held.
func (c *Controller) snapshotList() []reports.Report {
	out := make([]reports.Report, len(c.list))
	for i, r := range c.list {
		out[i] = r.Clone()
	}
	return out
}

