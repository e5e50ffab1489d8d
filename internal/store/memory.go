package store

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryGateway keeps records in process. Values pass through the same BSON
// codec as the mongo backend so both behave alike for filters and ordering.
type MemoryGateway struct {
	mu       sync.RWMutex
	entities map[string]map[string]Record
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		entities: make(map[string]map[string]Record),
	}
}

func (g *MemoryGateway) Insert(ctx context.Context, entity string, records ...Record) ([]Record, error) {
	if err := ctxError(ctx, "insert", entity); err != nil {
		return nil, err
	}

	prepared := make([]Record, 0, len(records))
	for _, r := range records {
		rec, err := Encode(r)
		if err != nil {
			return nil, newError(KindConstraint, "insert", entity, err)
		}
		if rec.ID() == "" {
			rec[IDField] = NewID()
		}
		prepared = append(prepared, rec)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	table := g.table(entity)
	seen := make(map[string]bool, len(prepared))
	for _, rec := range prepared {
		id := rec.ID()
		if _, exists := table[id]; exists || seen[id] {
			return nil, newError(KindConstraint, "insert", entity, errors.New("duplicate id "+id))
		}
		seen[id] = true
	}

	out := make([]Record, 0, len(prepared))
	for _, rec := range prepared {
		table[rec.ID()] = rec
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (g *MemoryGateway) Select(ctx context.Context, entity string, q Query) ([]Record, error) {
	if err := ctxError(ctx, "select", entity); err != nil {
		return nil, err
	}
	filters, err := normalizeFilters(q.Filters)
	if err != nil {
		return nil, newError(KindConstraint, "select", entity, err)
	}

	g.mu.RLock()
	matched := make([]Record, 0)
	for _, rec := range g.entities[entity] {
		if matches(rec, filters) {
			matched = append(matched, cloneRecord(rec))
		}
	}
	g.mu.RUnlock()

	// Map iteration is random; settle on id order before applying the query order.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID() < matched[j].ID() })
	if len(q.Order) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, o := range q.Order {
				c := compareValues(matched[i][o.Field], matched[j][o.Field])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Skip > 0 {
		if q.Skip >= int64(len(matched)) {
			return []Record{}, nil
		}
		matched = matched[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < int64(len(matched)) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (g *MemoryGateway) Count(ctx context.Context, entity string, filters ...Filter) (int64, error) {
	if err := ctxError(ctx, "count", entity); err != nil {
		return 0, err
	}
	normalized, err := normalizeFilters(filters)
	if err != nil {
		return 0, newError(KindConstraint, "count", entity, err)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var n int64
	for _, rec := range g.entities[entity] {
		if matches(rec, normalized) {
			n++
		}
	}
	return n, nil
}

func (g *MemoryGateway) Update(ctx context.Context, entity string, id string, fields Record, conditions ...Filter) (Record, error) {
	if err := ctxError(ctx, "update", entity); err != nil {
		return nil, err
	}
	patch, err := Encode(fields)
	if err != nil {
		return nil, newError(KindConstraint, "update", entity, err)
	}
	delete(patch, IDField)
	conds, err := normalizeFilters(conditions)
	if err != nil {
		return nil, newError(KindConstraint, "update", entity, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.entities[entity][id]
	if !ok {
		return nil, newError(KindNotFound, "update", entity, errors.New("no record with id "+id))
	}
	if !matches(rec, conds) {
		return nil, newError(KindConflict, "update", entity, errors.New("condition failed for id "+id))
	}
	for k, v := range patch {
		rec[k] = v
	}
	return cloneRecord(rec), nil
}

func (g *MemoryGateway) Delete(ctx context.Context, entity string, id string) error {
	if err := ctxError(ctx, "delete", entity); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.entities[entity][id]; !ok {
		return newError(KindNotFound, "delete", entity, errors.New("no record with id "+id))
	}
	delete(g.entities[entity], id)
	return nil
}

func (g *MemoryGateway) table(entity string) map[string]Record {
	t, ok := g.entities[entity]
	if !ok {
		t = make(map[string]Record)
		g.entities[entity] = t
	}
	return t
}

func normalizeFilters(filters []Filter) ([]Filter, error) {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		nf := Filter{Field: f.Field, Op: f.Op}
		switch f.Op {
		case OpIn:
			for _, v := range f.Values {
				nv, err := normalize(v)
				if err != nil {
					return nil, err
				}
				nf.Values = append(nf.Values, nv)
			}
		default:
			nv, err := normalize(f.Value)
			if err != nil {
				return nil, err
			}
			nf.Op = OpEq
			nf.Value = nv
		}
		out = append(out, nf)
	}
	return out, nil
}

func matches(rec Record, filters []Filter) bool {
	for _, f := range filters {
		v := rec[f.Field]
		switch f.Op {
		case OpIn:
			found := false
			for _, candidate := range f.Values {
				if reflect.DeepEqual(v, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if !reflect.DeepEqual(v, f.Value) {
				return false
			}
		}
	}
	return true
}

// compareValues orders the scalar types the codec produces. Missing values
// sort first; mismatched types compare equal.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch av := a.(type) {
	case primitive.DateTime:
		if bv, ok := b.(primitive.DateTime); ok {
			return compareInt(int64(av), int64(bv))
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return compareInt(av.UnixNano(), bv.UnixNano())
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cloneRecord(rec Record) Record {
	out, err := Encode(rec)
	if err != nil {
		// Stored records were produced by Encode, so this only happens on a codec bug.
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		return cp
	}
	return out
}
