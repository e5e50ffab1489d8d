package identity

import (
	"context"
	"time"

	"github.com/xyz-asif/strayrescue/internal/store"
)

// EntityProfiles is the store entity holding user profiles.
const EntityProfiles = "users"

// Repository reads and writes profiles through the record store gateway
type Repository struct {
	gw store.Gateway
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(gw store.Gateway) *Repository {
	_ = store.EnsureIndexes(context.Background(), gw, EntityProfiles,
		[]store.Order{store.Asc("role")},
	)
	return &Repository{gw: gw}
}

// GetByID finds a profile by id. A missing profile is not an error.
func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	recs, err := r.gw.Select(ctx, EntityProfiles, store.Query{
		Filters: []store.Filter{store.Eq(store.IDField, id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	var p Profile
	if err := store.Decode(recs[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs batch-loads profiles. Unknown ids are simply absent from the result.
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return []Profile{}, nil
	}

	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	recs, err := r.gw.Select(ctx, EntityProfiles, store.Query{
		Filters: []store.Filter{store.In(store.IDField, values...)},
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(recs))
	for _, rec := range recs {
		var p Profile
		if err := store.Decode(rec, &p); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Upsert updates an existing profile or inserts it
func (r *Repository) Upsert(ctx context.Context, p *Profile) error {
	now := time.Now().UTC()
	p.UpdatedAt = now

	_, err := r.gw.Update(ctx, EntityProfiles, p.ID, store.Record{
		"email":       p.Email,
		"displayName": p.DisplayName,
		"avatarUrl":   p.AvatarURL,
		"role":        string(p.Role),
		"updatedAt":   now,
	})
	if err == nil {
		return nil
	}
	if !store.IsNotFound(err) {
		return err
	}

	p.CreatedAt = now
	rec, err := store.Encode(p)
	if err != nil {
		return err
	}
	_, err = r.gw.Insert(ctx, EntityProfiles, rec)
	return err
}
