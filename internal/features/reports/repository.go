package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	"github.com/xyz-asif/strayrescue/internal/store"
)

// EntityReports is the store entity holding reports.
const EntityReports = "reports"

// ProfileLookup batch-loads reporter profiles for enrichment.
type ProfileLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]identity.Profile, error)
}

// Filter selects which reports FetchAll returns.
type Filter struct {
	all       bool
	rescuerID string
}

// AllReports is the admin view.
func AllReports() Filter { return Filter{all: true} }

// AssignedTo limits the view to reports routed to one rescuer.
func AssignedTo(rescuerID string) Filter { return Filter{rescuerID: rescuerID} }

// StatusUpdate is the partial update a lifecycle transition writes.
type StatusUpdate struct {
	Status             Status
	ExpectedPickupTime *time.Time
}

type Repository struct {
	gw       store.Gateway
	profiles ProfileLookup
	now      func() time.Time
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(gw store.Gateway, profiles ProfileLookup) *Repository {
	_ = store.EnsureIndexes(context.Background(), gw, EntityReports,
		[]store.Order{store.Asc("assignedRescuerId"), store.Desc("createdAt")},
		[]store.Order{store.Asc("reporterId"), store.Desc("createdAt")},
		[]store.Order{store.Desc("createdAt")},
	)

	return &Repository{
		gw:       gw,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FetchAll returns the reports matching f, newest first, with reporter data joined in.
func (r *Repository) FetchAll(ctx context.Context, f Filter) ([]Report, error) {
	q := store.Query{Order: []store.Order{store.Desc("createdAt")}}
	if !f.all {
		q.Filters = []store.Filter{store.Eq("assignedRescuerId", f.rescuerID)}
	}
	return r.fetch(ctx, q)
}

// FetchByReporter returns the reports a citizen raised, newest first.
func (r *Repository) FetchByReporter(ctx context.Context, reporterID string) ([]Report, error) {
	return r.fetch(ctx, store.Query{
		Filters: []store.Filter{store.Eq("reporterId", reporterID)},
		Order:   []store.Order{store.Desc("createdAt")},
	})
}

// GetByID loads a single enriched report.
func (r *Repository) GetByID(ctx context.Context, id string) (*Report, error) {
	list, err := r.fetch(ctx, store.Query{
		Filters: []store.Filter{store.Eq(store.IDField, id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "select", Entity: EntityReports,
			Err: fmt.Errorf("no report with id %s", id)}
	}
	return &list[0], nil
}

// Create stores a new report. It always starts pending with no pickup.
func (r *Repository) Create(ctx context.Context, report *Report) error {
	now := r.now()
	report.ID = store.NewID()
	report.Status = StatusPending
	report.ExpectedPickupTime = nil
	report.CreatedAt = now
	report.UpdatedAt = now

	rec, err := store.Encode(report)
	if err != nil {
		return err
	}
	_, err = r.gw.Insert(ctx, EntityReports, rec)
	return err
}

// UpdateStatus writes a transition out of pending. Unknown ids fail with a
// not-found store error; a report that already left pending fails with a
// conflict and is left untouched.
func (r *Repository) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*Report, error) {
	rec, err := r.gw.Update(ctx, EntityReports, id, store.Record{
		"status":             string(upd.Status),
		"expectedPickupTime": upd.ExpectedPickupTime,
		"updatedAt":          r.now(),
	}, store.Eq("status", string(StatusPending)))
	if err != nil {
		return nil, err
	}

	var report Report
	if err := store.Decode(rec, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *Repository) fetch(ctx context.Context, q store.Query) ([]Report, error) {
	recs, err := r.gw.Select(ctx, EntityReports, q)
	if err != nil {
		return nil, err
	}

	list := make([]Report, 0, len(recs))
	for _, rec := range recs {
		var report Report
		if err := store.Decode(rec, &report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", rec.ID(), err)
		}
		list = append(list, report)
	}

	r.enrich(ctx, list)
	return list, nil
}

// enrich joins reporter display data. Lookup failures leave the fields empty.
func (r *Repository) enrich(ctx context.Context, list []Report) {
	if r.profiles == nil || len(list) == 0 {
		return
	}

	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, report := range list {
		if report.ReporterID != "" && !seen[report.ReporterID] {
			seen[report.ReporterID] = true
			ids = append(ids, report.ReporterID)
		}
	}
	if len(ids) == 0 {
		return
	}

	profiles, err := r.profiles.GetByIDs(ctx, ids)
	if err != nil {
		logger.Warn("reporter lookup failed for %d reports: %v", len(list), err)
		return
	}

	byID := make(map[string]identity.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	for i := range list {
		if p, ok := byID[list[i].ReporterID]; ok {
			list[i].ReporterName = p.DisplayName
			list[i].ReporterAvatar = p.AvatarURL
		}
	}
}
