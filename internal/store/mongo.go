package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGateway maps each entity onto a collection of the same name.
type MongoGateway struct {
	db *mongo.Database
}

func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{db: db}
}

func (g *MongoGateway) Insert(ctx context.Context, entity string, records ...Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	docs := make([]interface{}, len(records))
	out := make([]Record, len(records))
	for i, r := range records {
		rec, err := Encode(r)
		if err != nil {
			return nil, newError(KindConstraint, "insert", entity, err)
		}
		if rec.ID() == "" {
			rec[IDField] = NewID()
		}
		docs[i] = rec
		out[i] = rec
	}

	if _, err := g.db.Collection(entity).InsertMany(ctx, docs); err != nil {
		return nil, classify("insert", entity, err)
	}
	return out, nil
}

func (g *MongoGateway) Select(ctx context.Context, entity string, q Query) ([]Record, error) {
	opts := options.Find()
	if len(q.Order) > 0 {
		opts.SetSort(sortDoc(q.Order))
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := g.db.Collection(entity).Find(ctx, filterDoc(q.Filters), opts)
	if err != nil {
		return nil, classify("select", entity, err)
	}
	defer cursor.Close(ctx)

	records := []Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, classify("select", entity, err)
	}
	return records, nil
}

func (g *MongoGateway) Count(ctx context.Context, entity string, filters ...Filter) (int64, error) {
	n, err := g.db.Collection(entity).CountDocuments(ctx, filterDoc(filters))
	if err != nil {
		return 0, classify("count", entity, err)
	}
	return n, nil
}

func (g *MongoGateway) Update(ctx context.Context, entity string, id string, fields Record, conditions ...Filter) (Record, error) {
	patch := make(bson.M, len(fields))
	for k, v := range fields {
		if k == IDField {
			continue
		}
		patch[k] = v
	}

	filter := filterDoc(conditions)
	filter[IDField] = id

	coll := g.db.Collection(entity)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec Record
	err := coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": patch}, opts).Decode(&rec)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) && len(conditions) > 0 {
		n, cerr := coll.CountDocuments(ctx, bson.M{IDField: id})
		if cerr != nil {
			return nil, classify("update", entity, cerr)
		}
		if n > 0 {
			return nil, newError(KindConflict, "update", entity, fmt.Errorf("condition failed for id %s", id))
		}
	}
	return nil, classify("update", entity, err)
}

func (g *MongoGateway) Delete(ctx context.Context, entity string, id string) error {
	result, err := g.db.Collection(entity).DeleteOne(ctx, bson.M{IDField: id})
	if err != nil {
		return classify("delete", entity, err)
	}
	if result.DeletedCount == 0 {
		return newError(KindNotFound, "delete", entity, fmt.Errorf("no record with id %s", id))
	}
	return nil
}

// EnsureIndex creates a compound index over keys.
func (g *MongoGateway) EnsureIndex(ctx context.Context, entity string, keys ...Order) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := g.db.Collection(entity).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: sortDoc(keys)})
	if err != nil {
		return classify("index", entity, err)
	}
	return nil
}

func filterDoc(filters []Filter) bson.M {
	if len(filters) == 0 {
		return bson.M{}
	}

	clauses := make(bson.A, 0, len(filters))
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			values := f.Values
			if values == nil {
				values = []interface{}{}
			}
			clauses = append(clauses, bson.M{f.Field: bson.M{"$in": values}})
		default:
			clauses = append(clauses, bson.M{f.Field: f.Value})
		}
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.M)
	}
	return bson.M{"$and": clauses}
}

func sortDoc(order []Order) bson.D {
	doc := make(bson.D, 0, len(order))
	for _, o := range order {
		dir := 1
		if o.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: o.Field, Value: dir})
	}
	return doc
}

func classify(op, entity string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return newError(KindNotFound, op, entity, err)
	case mongo.IsDuplicateKeyError(err):
		return newError(KindConstraint, op, entity, err)
	default:
		// Timeouts, network errors and anything else the driver reports.
		return newError(KindConnection, op, entity, err)
	}
}
