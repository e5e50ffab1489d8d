package rescue

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xyz-asif/strayrescue/internal/features/identity"
	apperrors "github.com/xyz-asif/strayrescue/pkg/errors"
)

var (
	// ErrTransitionNotAllowed is returned for any transition out of a terminal state.
	ErrTransitionNotAllowed = fmt.Errorf("%w: transition not allowed", apperrors.ErrConflict)
	// ErrTransitionInFlight is returned when the report already has a transition pending.
	ErrTransitionInFlight = fmt.Errorf("%w: transition already in progress", apperrors.ErrConflict)
	// ErrNoDraft is returned when the scheduling dialog for a report is not open.
	ErrNoDraft = errors.New("scheduling dialog not open")
)

// AuthorizationError means the actor's role may not view or act on reports.
type AuthorizationError struct {
	ActorID string
	Role    identity.Role
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("actor %s with role %q may not act on rescue reports", e.ActorID, e.Role)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == apperrors.ErrForbidden
}

// ValidationError lists the scheduling fields that are missing or malformed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid scheduling: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == apperrors.ErrValidation
}

// NotFoundError means the report is gone from the store or from the actor's list.
type NotFoundError struct {
	ReportID string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report %s not found", e.ReportID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool {
	return target == apperrors.ErrNotFound
}

// StoreError wraps a transport, connection, constraint or timeout failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == apperrors.ErrStore
}

// NotificationError is only ever logged. It never reaches the acting user.
type NotificationError struct {
	ReportID string
	UserID   string
	Err      error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify reporter %s of report %s: %v", e.UserID, e.ReportID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

func (e *NotificationError) Is(target error) bool {
	return target == apperrors.ErrNotification
}
