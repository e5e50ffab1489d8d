package store

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// IDField is the key holding a record's identity.
const IDField = "_id"

// Record is a single stored document.
type Record map[string]interface{}

// ID returns the record identity, or "" if unset.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Encode converts a bson-tagged struct (or map) into a Record.
func Encode(v interface{}) (Record, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := bson.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode fills v (a pointer to a bson-tagged struct) from rec.
func Decode(rec Record, v interface{}) error {
	data, err := bson.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := bson.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// NewID returns a fresh opaque record id.
func NewID() string {
	return uuid.NewString()
}

// normalize runs a single value through the codec so comparisons see the
// same representation the store holds.
func normalize(v interface{}) (interface{}, error) {
	rec, err := Encode(Record{"v": v})
	if err != nil {
		return nil, err
	}
	return rec["v"], nil
}
