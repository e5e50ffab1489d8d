package store

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConstraint Kind = "constraint_violation"
	KindConnection Kind = "connection_failure"
	// KindConflict means the record exists but failed an Update condition.
	KindConflict Kind = "condition_failed"
)

// Error is the structured failure every Gateway operation returns.
type Error struct {
	Kind   Kind
	Op     string
	Entity string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s %s: %s", e.Op, e.Entity, e.Kind)
	}
	return fmt.Sprintf("store %s %s: %s: %v", e.Op, e.Entity, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match store failures against the shared sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case apperrors.ErrNotFound:
		return e.Kind == KindNotFound
	case apperrors.ErrDuplicate:
		return e.Kind == KindConstraint
	case apperrors.ErrConflict:
		return e.Kind == KindConflict
	case apperrors.ErrStore:
		return e.Kind != KindNotFound && e.Kind != KindConflict
	}
	return false
}

func newError(kind Kind, op, entity string, err error) *Error {
	return &Error{Kind: kind, Op: op, Entity: entity, Err: err}
}

// KindOf returns the kind of a store failure, or "" when err is not one.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// IsConflict reports whether an Update condition did not hold.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// ctxError converts an expired or cancelled context into a connection failure.
func ctxError(ctx context.Context, op, entity string) error {
	if err := ctx.Err(); err != nil {
		return newError(KindConnection, op, entity, err)
	}
	return nil
}
