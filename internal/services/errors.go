package services

import "errors"

// Sentinel errors for the outcomes callers must be able to tell apart.
// Handlers map them to HTTP statuses with errors.Is; anything else is an
// opaque internal failure.
var (
	// ErrForbidden means the actor was resolved but the access policy denied
	// the action. It carries no resource detail.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation means a required field is missing or malformed. It is
	// only ever returned after authorization has passed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials means login/password verification failed
	ErrInvalidCredentials = errors.New("invalid credentials")
)
