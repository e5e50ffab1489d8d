package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/xyz-asif/strayrescue/internal/pkg/pagination"
	"github.com/xyz-asif/strayrescue/internal/store"
)

// EntityNotifications is the store entity holding notifications.
const EntityNotifications = "notifications"

type Repository struct {
	gw  store.Gateway
	now func() time.Time
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(gw store.Gateway) *Repository {
	_ = store.EnsureIndexes(context.Background(), gw, EntityNotifications,
		[]store.Order{store.Asc("userId"), store.Asc("isRead"), store.Desc("createdAt")},
		[]store.Order{store.Asc("userId"), store.Desc("createdAt")},
	)

	return &Repository{
		gw:  gw,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new unread notification
func (r *Repository) Create(ctx context.Context, n *Notification) error {
	n.ID = store.NewID()
	n.CreatedAt = r.now()
	n.IsRead = false

	rec, err := store.Encode(n)
	if err != nil {
		return err
	}
	_, err = r.gw.Insert(ctx, EntityNotifications, rec)
	return err
}

// GetByID retrieves a notification by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Notification, error) {
	list, err := r.find(ctx, store.Query{
		Filters: []store.Filter{store.Eq(store.IDField, id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &store.Error{Kind: store.KindNotFound, Op: "select", Entity: EntityNotifications,
			Err: fmt.Errorf("no notification with id %s", id)}
	}
	return &list[0], nil
}

// ListByUser returns one page of a user's notifications, newest first, and the total
func (r *Repository) ListByUser(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]Notification, int64, error) {
	filters := []store.Filter{store.Eq("userId", userID)}
	if unreadOnly {
		filters = append(filters, store.Eq("isRead", false))
	}

	page, limit = pagination.Normalize(page, limit)
	list, err := r.find(ctx, store.Query{
		Filters: filters,
		Order:   []store.Order{store.Desc("createdAt")},
		Skip:    pagination.Offset(page, limit),
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := r.gw.Count(ctx, EntityNotifications, filters...)
	if err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// CountUnread counts unread notifications for a user
func (r *Repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.gw.Count(ctx, EntityNotifications,
		store.Eq("userId", userID),
		store.Eq("isRead", false),
	)
}

// MarkAsRead marks a notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id string) error {
	_, err := r.gw.Update(ctx, EntityNotifications, id, store.Record{"isRead": true})
	return err
}

// MarkAllAsRead marks all notifications as read for a user
func (r *Repository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	unread, err := r.gw.Select(ctx, EntityNotifications, store.Query{
		Filters: []store.Filter{store.Eq("userId", userID), store.Eq("isRead", false)},
	})
	if err != nil {
		return 0, err
	}

	var marked int64
	for _, rec := range unread {
		if err := r.MarkAsRead(ctx, rec.ID()); err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// Delete removes a notification
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.gw.Delete(ctx, EntityNotifications, id)
}

func (r *Repository) find(ctx context.Context, q store.Query) ([]Notification, error) {
	recs, err := r.gw.Select(ctx, EntityNotifications, q)
	if err != nil {
		return nil, err
	}

	list := make([]Notification, 0, len(recs))
	for _, rec := range recs {
		var n Notification
		if err := store.Decode(rec, &n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", rec.ID(), err)
		}
		list = append(list, n)
	}
	return list, nil
}
