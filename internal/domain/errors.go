package domain

import "errors"

var (
	// ErrUnauthorized indicates that no authenticated user could be resolved.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates that the user is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation wraps every input validation failure.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStore wraps failures of the persistent store.
	ErrStore = errors.New("store failure")
)
