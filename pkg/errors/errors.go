// ================== pkg/errors/errors.go =================
package errors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")

	// ErrStore covers transport, connection and constraint failures of the record store.
	ErrStore = errors.New("record store failure")
	// ErrNotification marks a failed notification dispatch. It is logged, never surfaced.
	ErrNotification = errors.New("notification dispatch failed")
)
