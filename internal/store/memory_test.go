package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

type sample struct {
	ID        string     `bson:"_id,omitempty"`
	Owner     string     `bson:"owner"`
	Status    string     `bson:"status"`
	CreatedAt time.Time  `bson:"createdAt"`
	DoneAt    *time.Time `bson:"doneAt"`
}

func seed(t *testing.T, g *MemoryGateway, items ...sample) {
	t.Helper()
	for _, it := range items {
		rec, err := Encode(it)
		require.NoError(t, err)
		_, err = g.Insert(context.Background(), "samples", rec)
		require.NoError(t, err)
	}
}

func TestMemoryGateway_SelectFiltersAndOrders(t *testing.T) {
	g := NewMemoryGateway()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	seed(t, g,
		sample{ID: "a", Owner: "u1", Status: "pending", CreatedAt: base},
		sample{ID: "b", Owner: "u2", Status: "pending", CreatedAt: base.Add(time.Hour)},
		sample{ID: "c", Owner: "u1", Status: "declined", CreatedAt: base.Add(2 * time.Hour)},
	)

	recs, err := g.Select(context.Background(), "samples", Query{
		Filters: []Filter{Eq("owner", "u1")},
		Order:   []Order{Desc("createdAt")},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "c", recs[0].ID())
	require.Equal(t, "a", recs[1].ID())

	recs, err = g.Select(context.Background(), "samples", Query{
		Filters: []Filter{In("_id", "a", "b", "zzz")},
		Order:   []Order{Asc("createdAt")},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "a", recs[0].ID())

	recs, err = g.Select(context.Background(), "samples", Query{Order: []Order{Desc("createdAt")}, Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "b", recs[0].ID())

	n, err := g.Count(context.Background(), "samples", Eq("status", "pending"))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestMemoryGateway_InsertAssignsIDAndRejectsDuplicates(t *testing.T) {
	g := NewMemoryGateway()

	out, err := g.Insert(context.Background(), "samples", Record{"owner": "u1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotEmpty(t, out[0].ID())

	_, err = g.Insert(context.Background(), "samples", Record{IDField: out[0].ID()})
	require.Error(t, err)
	require.Equal(t, KindConstraint, KindOf(err))
	require.True(t, errors.Is(err, apperrors.ErrStore))
	require.True(t, errors.Is(err, apperrors.ErrDuplicate))
}

func TestMemoryGateway_UpdateMergesAndDecodes(t *testing.T) {
	g := NewMemoryGateway()
	seed(t, g, sample{ID: "a", Owner: "u1", Status: "pending", CreatedAt: time.Now().UTC()})

	done := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rec, err := g.Update(context.Background(), "samples", "a", Record{"status": "accepted", "doneAt": done})
	require.NoError(t, err)

	var got sample
	require.NoError(t, Decode(rec, &got))
	require.Equal(t, "accepted", got.Status)
	require.Equal(t, "u1", got.Owner)
	require.NotNil(t, got.DoneAt)
	require.True(t, got.DoneAt.Equal(done))

	rec, err = g.Update(context.Background(), "samples", "a", Record{"doneAt": nil})
	require.NoError(t, err)
	got = sample{}
	require.NoError(t, Decode(rec, &got))
	require.Nil(t, got.DoneAt)
}

func TestMemoryGateway_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	seed(t, g, sample{ID: "a", Owner: "u1", Status: "declined"})

	_, err := g.Update(ctx, "samples", "a", Record{"status": "accepted"}, Eq("status", "pending"))
	require.True(t, IsConflict(err))
	require.True(t, errors.Is(err, apperrors.ErrConflict))
	require.False(t, errors.Is(err, apperrors.ErrStore))

	recs, err := g.Select(ctx, "samples", Query{Filters: []Filter{Eq(IDField, "a")}})
	require.NoError(t, err)
	require.Equal(t, "declined", recs[0]["status"], "failed condition must not write")

	rec, err := g.Update(ctx, "samples", "a", Record{"status": "archived"}, Eq("status", "declined"))
	require.NoError(t, err)
	require.Equal(t, "archived", rec["status"])

	_, err = g.Update(ctx, "samples", "missing", Record{"status": "x"}, Eq("status", "pending"))
	require.True(t, IsNotFound(err))
}

func TestMemoryGateway_NotFound(t *testing.T) {
	g := NewMemoryGateway()

	_, err := g.Update(context.Background(), "samples", "missing", Record{"status": "x"})
	require.Error(t, err)
	require.True(t, IsNotFound(err))
	require.False(t, errors.Is(err, apperrors.ErrStore))

	err = g.Delete(context.Background(), "samples", "missing")
	require.True(t, IsNotFound(err))
}

func TestMemoryGateway_ExpiredContextIsConnectionFailure(t *testing.T) {
	g := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Select(ctx, "samples", Query{})
	require.Error(t, err)
	require.Equal(t, KindConnection, KindOf(err))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestMemoryGateway_ReturnsCopies(t *testing.T) {
	g := NewMemoryGateway()
	seed(t, g, sample{ID: "a", Owner: "u1"})

	recs, err := g.Select(context.Background(), "samples", Query{})
	require.NoError(t, err)
	recs[0]["owner"] = "tampered"

	recs, err = g.Select(context.Background(), "samples", Query{})
	require.NoError(t, err)
	require.Equal(t, "u1", recs[0]["owner"])
}

func TestMongoFilterDoc(t *testing.T) {
	require.Empty(t, filterDoc(nil))

	single := filterDoc([]Filter{Eq("owner", "u1")})
	require.Equal(t, "u1", single["owner"])

	combined := filterDoc([]Filter{Eq("owner", "u1"), In("status", "pending", "accepted")})
	require.Contains(t, combined, "$and")
}
