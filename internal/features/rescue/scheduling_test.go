package rescue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/strayrescue/internal/features/reports"
	"github.com/xyz-asif/strayrescue/internal/pkg/logger"
	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

func TestOpenScheduling_DefaultsToTomorrowNineAM(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "r1", "res-A", 0)
	c := f.controller(rescuerA, nil)
	_, err := c.ListReports(ctx)
	require.NoError(t, err)

	d, err := c.OpenScheduling("r1")
	require.NoError(t, err)
	assert.Equal(t, Draft{ReportID: "r1", PickupDate: "2025-06-01", PickupTime: "09:00"}, d)

	// Reopening keeps the edited draft.
	_, err = c.UpdateScheduling("r1", "", "14:30")
	require.NoError(t, err)
	d, err = c.OpenScheduling("r1")
	require.NoError(t, err)
	assert.Equal(t, "14:30", d.PickupTime)
	assert.Equal(t, "2025-06-01", d.PickupDate)
}

func TestOpenScheduling_TomorrowFollowsPickupZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "r1", "res-A", 0)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already 01:30 the next day in Kolkata.
	c := NewController(rescuerA, f.repo, f.notifier, Options{
		Location: loc,
		Now:      func() time.Time { return time.Date(2025, 5, 31, 20, 0, 0, 0, time.UTC) },
		Logger:   logger.NewWithWriter(logger.DEBUG, f.logs),
	})
	_, err = c.ListReports(ctx)
	require.NoError(t, err)

	d, err := c.OpenScheduling("r1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", d.PickupDate)
	assert.Equal(t, "Asia/Kolkata", c.PickupZone().String())
}

func TestScheduling_CancelHasNoBackendEffect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "r1", "res-A", 0)
	c := f.controller(rescuerA, nil)
	_, err := c.ListReports(ctx)
	require.NoError(t, err)

	_, err = c.OpenScheduling("r1")
	require.NoError(t, err)
	c.CancelScheduling("r1")

	_, open := c.Scheduling("r1")
	assert.False(t, open)
	assert.Equal(t, reports.StatusPending, f.stored(t, "r1").Status)
	assert.Nil(t, f.stored(t, "r1").ExpectedPickupTime)

	_, err = c.UpdateScheduling("r1", "2025-06-03", "")
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestScheduling_DraftConfirmsAsAccept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "r1", "res-A", 0)
	c := f.controller(rescuerA, nil)
	_, err := c.ListReports(ctx)
	require.NoError(t, err)

	_, err = c.OpenScheduling("r1")
	require.NoError(t, err)
	d, err := c.UpdateScheduling("r1", "2025-06-05", "17:45")
	require.NoError(t, err)

	require.NoError(t, c.ConfirmAccept(ctx, d.Transition()))
	c.Wait()

	r, _ := c.Report("r1")
	assert.Equal(t, "2025-06-05T17:45:00.000Z", r.PickupISO())
	_, open := c.Scheduling("r1")
	assert.False(t, open)

	_, err = c.OpenScheduling("r1")
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestScheduling_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "r1", "res-A", 0)
	c := f.controller(rescuerA, nil)
	_, err := c.ListReports(ctx)
	require.NoError(t, err)

	_, err = c.OpenScheduling("r1")
	require.NoError(t, err)

	_, err = c.UpdateScheduling("r1", "2025-13-01", "25:00")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = c.OpenScheduling("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
