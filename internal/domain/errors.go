package domain

import "errors"

// Error taxonomy shared by use cases and handlers.
// Use cases wrap these with a specific message: fmt.Errorf("%w: reason required", ErrValidation)
var (
	// ErrValidation malformed or missing input
	ErrValidation = errors.New("validation error")

	// ErrConflict the (consultant, date, slot) tuple is already occupied
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition illegal lifecycle move or stale client state
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidState operation is not permitted in the current status
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound unknown appointment or consultant
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied caller is not allowed to see or change the appointment
	ErrAccessDenied = errors.New("access denied")
)
