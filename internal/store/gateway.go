package store

import "context"

// Op is a filter operator.
type Op string

const (
	OpEq Op = "eq"
	OpIn Op = "in"
)

// Filter is a single predicate on a top-level field.
type Filter struct {
	Field  string
	Op     Op
	Value  interface{}
	Values []interface{}
}

// Eq matches records whose field equals value.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// In matches records whose field equals any of values.
func In(field string, values ...interface{}) Filter {
	return Filter{Field: field, Op: OpIn, Values: values}
}

// Order sorts by a single field.
type Order struct {
	Field string
	Desc  bool
}

func Asc(field string) Order  { return Order{Field: field} }
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Query describes a Select. Filters are combined with AND.
type Query struct {
	Filters []Filter
	Order   []Order
	Skip    int64
	Limit   int64
}

// Gateway is the generic record store contract the features build on.
// Every failure is returned as *Error.
type Gateway interface {
	Insert(ctx context.Context, entity string, records ...Record) ([]Record, error)
	Select(ctx context.Context, entity string, q Query) ([]Record, error)
	Count(ctx context.Context, entity string, filters ...Filter) (int64, error)
	// Update sets fields on the record only while every condition holds. A
	// record that exists but fails a condition is a KindConflict error.
	Update(ctx context.Context, entity string, id string, fields Record, conditions ...Filter) (Record, error)
	Delete(ctx context.Context, entity string, id string) error
}

// Indexer is implemented by gateways that maintain secondary indexes.
type Indexer interface {
	EnsureIndex(ctx context.Context, entity string, keys ...Order) error
}

// EnsureIndexes creates each index when the gateway supports it. Failures are
// returned joined but never block startup in callers.
func EnsureIndexes(ctx context.Context, gw Gateway, entity string, indexes ...[]Order) error {
	ix, ok := gw.(Indexer)
	if !ok {
		return nil
	}
	var firstErr error
	for _, keys := range indexes {
		if err := ix.EnsureIndex(ctx, entity, keys...); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
