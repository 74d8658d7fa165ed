package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput covers malformed identifiers, unknown enum values and
	// field-level validation failures. Always a local failure, never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEventInactive gates reward requests on events an operator has switched off.
	ErrEventInactive = errors.New("event inactive")
	// ErrConditionsNotMet means every metric was fetched (or short-circuited) and at
	// least one recognized condition failed. It must never stand in for a fetch failure.
	ErrConditionsNotMet = errors.New("conditions not met")
	// ErrDuplicateRequest enforces the one-open-request-per-(user,event) invariant.
	ErrDuplicateRequest = errors.New("duplicate reward request")
	// ErrInvalidTransition rejects status changes outside PENDING -> {APPROVED, REJECTED}.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrActivityUnavailable marks a transport failure talking to the activity store.
	// A false eligibility verdict only ever means "metric below threshold"; fetch
	// failures surface through this sentinel instead.
	ErrActivityUnavailable = errors.New("user activity service unavailable")
	ErrConflict            = errors.New("conflict")
)
